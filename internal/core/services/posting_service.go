package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/ledger-engine/internal/apperrors"
	"github.com/openbooks/ledger-engine/internal/core/domain"
	"github.com/openbooks/ledger-engine/internal/core/policy"
	portsrepo "github.com/openbooks/ledger-engine/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger-engine/internal/core/ports/services"
	"github.com/openbooks/ledger-engine/internal/core/validation"
	"github.com/openbooks/ledger-engine/internal/dto"
	"github.com/openbooks/ledger-engine/internal/middleware"
	"github.com/openbooks/ledger-engine/internal/utils/accounting"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// errPostingBlocked signals, from inside the posting transaction's guard,
// that validation refused the flip. The transaction rolls back and the
// findings reach the caller through the PostingResult instead.
var errPostingBlocked = errors.New("posting blocked by validation")

// postingService implements the two-phase posting protocol over the entry
// repository. Validation always runs against the lines as stored, inside the
// same operation that flips the status.
type postingService struct {
	entryRepo   portsrepo.EntryRepositoryWithTx
	accountSvc  portssvc.AccountReaderSvc
	eventSvc    portssvc.EventSvcFacade
	settingsSvc portssvc.SettingsSvcFacade
}

// NewPostingService creates a new posting service.
func NewPostingService(entryRepo portsrepo.EntryRepositoryWithTx, accountSvc portssvc.AccountReaderSvc, eventSvc portssvc.EventSvcFacade, settingsSvc portssvc.SettingsSvcFacade) portssvc.PostingSvcFacade {
	return &postingService{
		entryRepo:   entryRepo,
		accountSvc:  accountSvc,
		eventSvc:    eventSvc,
		settingsSvc: settingsSvc,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// resolveAccounts fetches the accounts referenced by the lines and refuses
// missing or inactive ones. Returns the per-account type map needed for
// signed balance calculations.
func (s *postingService) resolveAccounts(ctx context.Context, lines []domain.JournalLine) (map[string]domain.AccountType, error) {
	idSet := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, seen := idSet[line.AccountID]; !seen {
			idSet[line.AccountID] = struct{}{}
			ids = append(ids, line.AccountID)
		}
	}

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for posting: %w", err)
	}

	accountTypes := make(map[string]domain.AccountType, len(ids))
	for _, id := range ids {
		account, found := accounts[id]
		if !found {
			return nil, fmt.Errorf("%w: account %s does not exist", apperrors.ErrValidation, id)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s (%s) is inactive", apperrors.ErrValidation, account.Code, account.Name)
		}
		accountTypes[id] = account.AccountType
	}
	return accountTypes, nil
}

// stampLines assigns IDs, entry linkage and audit fields to candidate lines.
func stampLines(lines []domain.JournalLine, entryID string, actorID string, now time.Time) {
	for i := range lines {
		lines[i].LineID = uuid.NewString()
		lines[i].EntryID = entryID
		lines[i].AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		}
	}
}

// CreateJournalEntry persists an entry under an existing event. When the
// requested status is POSTED (the default), the entry runs the full posting
// protocol; a blocked validation saves the entry as DRAFT and reports the
// findings instead of failing the call.
func (s *postingService) CreateJournalEntry(ctx context.Context, req dto.CreateEntryRequest, creatorID string) (*dto.PostingResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.eventSvc.GetEvent(ctx, req.EventID); err != nil {
		return nil, fmt.Errorf("transaction event %s: %w", req.EventID, err)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	lines := dto.ToDomainLines(req.Lines)
	stampLines(lines, entryID, creatorID, now)

	entry := domain.JournalEntry{
		EntryID:     entryID,
		EventID:     req.EventID,
		EntryDate:   req.EntryDate,
		Description: req.Description,
		Reference:   req.Reference,
		Status:      domain.Draft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	findings := validation.ValidateEntry(entry.EntryDate, entry.Description, lines, now)

	// A line violating the single-sided rule cannot be stored at all, not
	// even on a draft; refuse with the findings before touching storage.
	if len(validation.ValidateLineStructure(lines)) > 0 {
		logger.Info("entry refused: defective line structure",
			slog.Any("findings", validation.Messages(findings)))
		return &dto.PostingResult{OK: false, Findings: findings}, nil
	}

	wantPosted := req.Status == "" || req.Status == string(domain.Posted)

	if !wantPosted {
		if err := s.entryRepo.SaveEntry(ctx, entry, lines, nil); err != nil {
			return nil, err
		}
		logger.Info("journal entry saved as draft", slog.String("entry_id", entryID))
		// Advisory findings only; nothing else blocks a draft save.
		return &dto.PostingResult{OK: true, EntryID: entryID, Findings: findings}, nil
	}

	mode, err := s.settingsSvc.GetValidationMode(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	if policy.ShouldBlock(findings, mode) {
		// The draft is still persisted so the refused entry can be inspected
		// and corrected; it has no effect on any balance.
		if err := s.entryRepo.SaveEntry(ctx, entry, lines, nil); err != nil {
			return nil, err
		}
		logger.Info("posting refused by validation, draft retained",
			slog.String("entry_id", entryID),
			slog.String("mode", string(mode)),
			slog.Any("findings", validation.Messages(findings)))
		return &dto.PostingResult{OK: false, EntryID: entryID, Findings: findings}, nil
	}

	accountTypes, err := s.resolveAccounts(ctx, lines)
	if err != nil {
		return nil, err
	}
	balanceChanges, err := accounting.BalanceChanges(lines, accountTypes)
	if err != nil {
		return nil, err
	}

	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.PostedBy = creatorID

	if err := s.entryRepo.SaveEntry(ctx, entry, lines, balanceChanges); err != nil {
		return nil, err
	}

	logger.Info("journal entry posted",
		slog.String("entry_id", entryID),
		slog.String("event_id", req.EventID),
		slog.String("amount", accounting.EntryAmount(lines).StringFixed(2)))
	return &dto.PostingResult{OK: true, EntryID: entryID, Findings: findings}, nil
}

// AddLinesToDraft appends candidate lines to an entry still in DRAFT. Only
// per-line structure is checked here; the full set is validated when the
// draft posts.
func (s *postingService) AddLinesToDraft(ctx context.Context, entryID string, req dto.AddLinesRequest, actorID string) error {
	now := time.Now().UTC()
	lines := dto.ToDomainLines(req.Lines)
	stampLines(lines, entryID, actorID, now)

	if structural := validation.ValidateLineStructure(lines); len(structural) > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(validation.Messages(structural), "; "))
	}

	// Accounts must exist and be active even on a draft; catching a bad
	// reference at insertion beats a confusing failure at post time.
	if _, err := s.resolveAccounts(ctx, lines); err != nil {
		return err
	}

	return s.entryRepo.AddLines(ctx, entryID, lines)
}

// PostDraftEntry flips a draft to POSTED. Validation runs inside the posting
// transaction, against the lines as stored under the entry row lock, so a
// line added after any earlier read still gets validated before the flip.
func (s *postingService) PostDraftEntry(ctx context.Context, entryID string, actorID string) (*dto.PostingResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: entry %s has status %s, only drafts can post", apperrors.ErrConflict, entryID, entry.Status)
	}

	mode, err := s.settingsSvc.GetValidationMode(ctx, actorID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var findings []validation.Finding
	err = s.entryRepo.MarkEntryPosted(ctx, entryID, actorID, now, func(locked domain.JournalEntry, lines []domain.JournalLine) error {
		findings = validation.ValidateEntry(locked.EntryDate, locked.Description, lines, now)
		if policy.ShouldBlock(findings, mode) {
			return errPostingBlocked
		}
		if _, err := s.resolveAccounts(ctx, lines); err != nil {
			return err
		}
		return nil
	})
	if errors.Is(err, errPostingBlocked) {
		logger.Info("draft posting refused by validation",
			slog.String("entry_id", entryID),
			slog.String("mode", string(mode)),
			slog.Any("findings", validation.Messages(findings)))
		return &dto.PostingResult{OK: false, EntryID: entryID, Findings: findings}, nil
	}
	if err != nil {
		return nil, err
	}

	logger.Info("draft entry posted", slog.String("entry_id", entryID))
	return &dto.PostingResult{OK: true, EntryID: entryID, Findings: findings}, nil
}

// GetEntry retrieves an entry with its lines populated.
func (s *postingService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines

	return entry, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// ListEntries retrieves a page of entries, optionally with lines attached.
func (s *postingService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := clampLimit(params.Limit)

	entries, nextToken, err := s.entryRepo.ListEntries(ctx, limit, params.NextToken, params.IncludeVoid)
	if err != nil {
		return nil, err
	}

	if params.IncludeLines && len(entries) > 0 {
		entryIDs := make([]string, len(entries))
		for i, e := range entries {
			entryIDs[i] = e.EntryID
		}
		linesByEntry, err := s.entryRepo.FindLinesByEntryIDs(ctx, entryIDs)
		if err != nil {
			return nil, err
		}
		for i := range entries {
			entries[i].Lines = linesByEntry[entries[i].EntryID]
		}
	}

	responses := make([]dto.EntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToEntryResponse(&entries[i])
	}

	return &dto.ListEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

// ListLinesByAccount retrieves a page of posted lines for one account.
func (s *postingService) ListLinesByAccount(ctx context.Context, accountID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error) {
	if _, err := s.accountSvc.GetAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	limit := clampLimit(params.Limit)
	lines, nextToken, err := s.entryRepo.ListLinesByAccountID(ctx, accountID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	return &dto.ListLinesResponse{Lines: dto.ToLineResponses(lines), NextToken: nextToken}, nil
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/ledger-engine/internal/apperrors"
	"github.com/openbooks/ledger-engine/internal/core/domain"
	"github.com/openbooks/ledger-engine/internal/core/policy"
	portsrepo "github.com/openbooks/ledger-engine/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger-engine/internal/core/ports/services"
	"github.com/openbooks/ledger-engine/internal/dto"
	"github.com/openbooks/ledger-engine/internal/middleware"
	"github.com/openbooks/ledger-engine/internal/utils/accounting"
)

// reversalService voids posted entries by generating and posting an exact
// counter-entry. The original entry's lines are never touched; its only
// mutation is the status flip to VOID.
type reversalService struct {
	entryRepo   portsrepo.EntryRepositoryWithTx
	accountSvc  portssvc.AccountReaderSvc
	eventSvc    portssvc.EventSvcFacade
	settingsSvc portssvc.SettingsSvcFacade
}

// NewReversalService creates a new reversal service.
func NewReversalService(entryRepo portsrepo.EntryRepositoryWithTx, accountSvc portssvc.AccountReaderSvc, eventSvc portssvc.EventSvcFacade, settingsSvc portssvc.SettingsSvcFacade) portssvc.ReversalSvcFacade {
	return &reversalService{
		entryRepo:   entryRepo,
		accountSvc:  accountSvc,
		eventSvc:    eventSvc,
		settingsSvc: settingsSvc,
	}
}

var _ portssvc.ReversalSvcFacade = (*reversalService)(nil)

// ReverseEntry produces and posts the negating entry for a posted original,
// then flips the original to VOID. Everything commits in one storage
// transaction; a failure anywhere leaves the original POSTED and untouched.
func (s *reversalService) ReverseEntry(ctx context.Context, entryID string, req dto.ReverseEntryRequest, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	switch original.Status {
	case domain.Posted:
		// Only posted entries carry an economic effect to annul.
	case domain.Void:
		return nil, fmt.Errorf("%w: entry %s is already void", apperrors.ErrConflict, entryID)
	default:
		return nil, fmt.Errorf("%w: entry %s is a draft; delete or edit it instead of reversing", apperrors.ErrConflict, entryID)
	}

	now := time.Now().UTC()
	entryDate := now
	if req.AsOfDate != nil {
		entryDate = *req.AsOfDate
	}

	mode, err := s.settingsSvc.GetValidationMode(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if req.AsOfDate != nil && req.AsOfDate.Before(now) {
		if allowed, reason := policy.CanPerformAction(policy.ActionBackdatedReversal, mode); !allowed {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrForbidden, reason)
		}
	}

	originalLines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	originalEvent, err := s.eventSvc.GetEvent(ctx, original.EventID)
	if err != nil {
		return nil, fmt.Errorf("event for entry %s: %w", entryID, err)
	}

	reversalEntryID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}

	// Swap each line's sides; the counter-entry balances by construction
	// because the original did, over the same account set. A line that moves
	// nothing has nothing to reverse and is skipped.
	reversedLines := make([]domain.JournalLine, 0, len(originalLines))
	for _, line := range originalLines {
		if line.Debit.IsZero() && line.Credit.IsZero() {
			continue
		}
		reversed := line.Reversed()
		reversed.LineID = uuid.NewString()
		reversed.EntryID = reversalEntryID
		reversed.Position = len(reversedLines)
		reversed.AuditFields = audit
		reversedLines = append(reversedLines, reversed)
	}

	event := domain.TransactionEvent{
		EventID:     uuid.NewString(),
		EventType:   originalEvent.EventType + domain.VoidedEventSuffix,
		Description: req.Reason,
		Reference:   originalEvent.Reference,
		Metadata: map[string]string{
			"reversesEntryID": entryID,
		},
		CreatedAt: now,
		CreatedBy: actorID,
	}

	reversal := domain.JournalEntry{
		EntryID:         reversalEntryID,
		EventID:         event.EventID,
		EntryDate:       entryDate,
		Description:     fmt.Sprintf("Reversal of entry %s: %s", entryID, req.Reason),
		Reference:       original.Reference,
		Status:          domain.Posted,
		PostedAt:        &now,
		PostedBy:        actorID,
		ReversesEntryID: &entryID,
		AuditFields:     audit,
	}

	accountTypes, err := s.resolveAccountTypes(ctx, reversedLines)
	if err != nil {
		return nil, err
	}
	balanceChanges, err := accounting.BalanceChanges(reversedLines, accountTypes)
	if err != nil {
		return nil, err
	}

	if err := s.entryRepo.SaveReversal(ctx, event, reversal, reversedLines, balanceChanges, entryID); err != nil {
		return nil, err
	}

	logger.Info("entry reversed",
		slog.String("original_entry_id", entryID),
		slog.String("reversal_entry_id", reversalEntryID),
		slog.String("reason", req.Reason))

	reversal.Lines = reversedLines
	return &reversal, nil
}

// resolveAccountTypes maps the accounts touched by the lines to their types.
// Inactive accounts are allowed here: a reversal must be able to undo an
// entry even after one of its accounts was deactivated.
func (s *reversalService) resolveAccountTypes(ctx context.Context, lines []domain.JournalLine) (map[string]domain.AccountType, error) {
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
		return nil, fmt.Errorf("failed to fetch accounts for reversal: %w", err)
	}

	accountTypes := make(map[string]domain.AccountType, len(ids))
	for _, id := range ids {
		account, found := accounts[id]
		if !found {
			return nil, fmt.Errorf("%w: account %s referenced by original lines no longer exists", apperrors.ErrInternal, id)
		}
		accountTypes[id] = account.AccountType
	}
	return accountTypes, nil
}

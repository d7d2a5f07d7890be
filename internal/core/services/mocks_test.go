package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/openbooks/ledger-engine/internal/core/domain"
	"github.com/openbooks/ledger-engine/internal/core/policy"
	portsrepo "github.com/openbooks/ledger-engine/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger-engine/internal/core/ports/services"
	"github.com/openbooks/ledger-engine/internal/dto"
)

// --- Mock EntryRepository ---

// MockEntryRepository mirrors the storage contract. PostTargetEntry and
// PostTargetLines stand in for the row and lines MarkEntryPosted would read
// under its lock; the guard runs against them exactly as the real
// repository runs it against stored data.
type MockEntryRepository struct {
	mock.Mock
	PostTargetEntry *domain.JournalEntry
	PostTargetLines []domain.JournalLine
}

var _ portsrepo.EntryRepositoryWithTx = (*MockEntryRepository)(nil)

func (m *MockEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockEntryRepository) ListEntries(ctx context.Context, limit int, nextToken *string, includeVoid bool) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, limit, nextToken, includeVoid)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		token = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), token, args.Error(2)
}

func (m *MockEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, entry, lines, balanceChanges)
	return args.Error(0)
}

func (m *MockEntryRepository) AddLines(ctx context.Context, entryID string, lines []domain.JournalLine) error {
	args := m.Called(ctx, entryID, lines)
	return args.Error(0)
}

func (m *MockEntryRepository) MarkEntryPosted(ctx context.Context, entryID string, actorID string, now time.Time, guard portsrepo.PostingGuard) error {
	args := m.Called(ctx, entryID, actorID, now)
	if guard != nil && m.PostTargetEntry != nil {
		if err := guard(*m.PostTargetEntry, m.PostTargetLines); err != nil {
			return err
		}
	}
	return args.Error(0)
}

func (m *MockEntryRepository) SaveReversal(ctx context.Context, event domain.TransactionEvent, entry domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal, originalEntryID string) error {
	args := m.Called(ctx, event, entry, lines, balanceChanges, originalEntryID)
	return args.Error(0)
}

func (m *MockEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockEntryRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	args := m.Called(ctx, entryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.JournalLine), args.Error(1)
}

func (m *MockEntryRepository) ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		token = &tokenVal
	}
	return args.Get(0).([]domain.JournalLine), token, args.Error(2)
}

func (m *MockEntryRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockEntryRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockEntryRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock AccountService ---

type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorID string) (*domain.Account, error) {
	args := m.Called(ctx, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID string, actorID string) error {
	args := m.Called(ctx, accountID, actorID)
	return args.Error(0)
}

// --- Mock EventService ---

type MockEventService struct {
	mock.Mock
}

var _ portssvc.EventSvcFacade = (*MockEventService)(nil)

func (m *MockEventService) CreateEvent(ctx context.Context, req dto.CreateEventRequest, creatorID string) (*domain.TransactionEvent, error) {
	args := m.Called(ctx, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionEvent), args.Error(1)
}

func (m *MockEventService) GetEvent(ctx context.Context, eventID string) (*domain.TransactionEvent, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionEvent), args.Error(1)
}

// --- Mock SettingsService ---

type MockSettingsService struct {
	mock.Mock
}

var _ portssvc.SettingsSvcFacade = (*MockSettingsService)(nil)

func (m *MockSettingsService) GetValidationMode(ctx context.Context, userID string) (policy.Mode, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(policy.Mode), args.Error(1)
}

func (m *MockSettingsService) SetValidationMode(ctx context.Context, userID string, mode policy.Mode) error {
	args := m.Called(ctx, userID, mode)
	return args.Error(0)
}

// --- Mock SettingsRepository ---

type MockSettingsRepository struct {
	mock.Mock
}

var _ portsrepo.SettingsRepositoryFacade = (*MockSettingsRepository)(nil)

func (m *MockSettingsRepository) GetSetting(ctx context.Context, userID string, key string) (string, error) {
	args := m.Called(ctx, userID, key)
	return args.String(0), args.Error(1)
}

func (m *MockSettingsRepository) PutSetting(ctx context.Context, userID string, key string, value string, now time.Time) error {
	args := m.Called(ctx, userID, key, value, now)
	return args.Error(0)
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openbooks/ledger-engine/internal/apperrors"
	"github.com/openbooks/ledger-engine/internal/core/domain"
	"github.com/openbooks/ledger-engine/internal/core/policy"
	portssvc "github.com/openbooks/ledger-engine/internal/core/ports/services"
	"github.com/openbooks/ledger-engine/internal/core/services"
	"github.com/openbooks/ledger-engine/internal/dto"
)

type ReversalServiceTestSuite struct {
	suite.Suite
	mockEntryRepo   *MockEntryRepository
	mockAccountSvc  *MockAccountService
	mockEventSvc    *MockEventService
	mockSettingsSvc *MockSettingsService
	service         portssvc.ReversalSvcFacade

	userID         string
	cashAccount    domain.Account
	revenueAccount domain.Account
	accountsByID   map[string]domain.Account
	originalEvent  domain.TransactionEvent
	original       domain.JournalEntry
	originalLines  []domain.JournalLine
}

func (s *ReversalServiceTestSuite) SetupTest() {
	s.mockEntryRepo = new(MockEntryRepository)
	s.mockAccountSvc = new(MockAccountService)
	s.mockEventSvc = new(MockEventService)
	s.mockSettingsSvc = new(MockSettingsService)
	s.service = services.NewReversalService(s.mockEntryRepo, s.mockAccountSvc, s.mockEventSvc, s.mockSettingsSvc)

	s.userID = uuid.NewString()
	s.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1000",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	s.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4000",
		AccountType: domain.Revenue,
		IsActive:    true,
	}
	s.accountsByID = map[string]domain.Account{
		s.cashAccount.AccountID:    s.cashAccount,
		s.revenueAccount.AccountID: s.revenueAccount,
	}

	s.originalEvent = domain.TransactionEvent{
		EventID:   uuid.NewString(),
		EventType: "invoice_created",
		Reference: "INV-42",
	}
	postedAt := time.Now().UTC().AddDate(0, 0, -3)
	s.original = domain.JournalEntry{
		EntryID:   uuid.NewString(),
		EventID:   s.originalEvent.EventID,
		EntryDate: postedAt,
		Status:    domain.Posted,
		PostedAt:  &postedAt,
		PostedBy:  s.userID,
		Reference: "INV-42",
	}
	s.originalLines = []domain.JournalLine{
		{LineID: uuid.NewString(), EntryID: s.original.EntryID, AccountID: s.cashAccount.AccountID, Debit: decimal.RequireFromString("100.00"), Position: 0},
		{LineID: uuid.NewString(), EntryID: s.original.EntryID, AccountID: s.revenueAccount.AccountID, Credit: decimal.RequireFromString("100.00"), Position: 1},
	}
}

func (s *ReversalServiceTestSuite) TestReverseEntry_GeneratesNetZeroCounterEntry() {
	ctx := context.Background()

	var savedEvent domain.TransactionEvent
	var savedEntry domain.JournalEntry
	var savedLines []domain.JournalLine
	var savedChanges map[string]decimal.Decimal

	s.mockEntryRepo.On("FindEntryByID", ctx, s.original.EntryID).Return(&s.original, nil).Once()
	s.mockSettingsSvc.On("GetValidationMode", ctx, s.userID).Return(policy.ModeBeginner, nil).Once()
	s.mockEntryRepo.On("FindLinesByEntryID", ctx, s.original.EntryID).Return(s.originalLines, nil).Once()
	s.mockEventSvc.On("GetEvent", ctx, s.originalEvent.EventID).Return(&s.originalEvent, nil).Once()
	s.mockAccountSvc.On("GetAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(s.accountsByID, nil).Once()
	s.mockEntryRepo.On("SaveReversal", ctx,
		mock.AnythingOfType("domain.TransactionEvent"),
		mock.AnythingOfType("domain.JournalEntry"),
		mock.AnythingOfType("[]domain.JournalLine"),
		mock.AnythingOfType("map[string]decimal.Decimal"),
		s.original.EntryID,
	).Run(func(args mock.Arguments) {
		savedEvent = args.Get(1).(domain.TransactionEvent)
		savedEntry = args.Get(2).(domain.JournalEntry)
		savedLines = args.Get(3).([]domain.JournalLine)
		savedChanges = args.Get(4).(map[string]decimal.Decimal)
	}).Return(nil).Once()

	reversal, err := s.service.ReverseEntry(ctx, s.original.EntryID, dto.ReverseEntryRequest{Reason: "duplicate invoice"}, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(reversal)

	// Reversal event derives from the original's type.
	s.Equal("invoice_created_voided", savedEvent.EventType)
	s.Equal(s.original.EntryID, savedEvent.Metadata["reversesEntryID"])

	// The reversing entry posts immediately and links back to the original.
	s.Equal(domain.Posted, savedEntry.Status)
	s.Require().NotNil(savedEntry.ReversesEntryID)
	s.Equal(s.original.EntryID, *savedEntry.ReversesEntryID)

	// Sides are swapped line for line over the same account set.
	s.Require().Len(savedLines, 2)
	s.Equal(s.cashAccount.AccountID, savedLines[0].AccountID)
	s.True(savedLines[0].Credit.Equal(decimal.RequireFromString("100.00")))
	s.True(savedLines[0].Debit.IsZero())
	s.Equal(s.revenueAccount.AccountID, savedLines[1].AccountID)
	s.True(savedLines[1].Debit.Equal(decimal.RequireFromString("100.00")))

	// The reversal's balance effect is the exact negation of the original's:
	// original moved cash +100 and revenue +100.
	s.True(savedChanges[s.cashAccount.AccountID].Equal(decimal.RequireFromString("-100.00")))
	s.True(savedChanges[s.revenueAccount.AccountID].Equal(decimal.RequireFromString("-100.00")))

	s.mockEntryRepo.AssertExpectations(s.T())
}

func (s *ReversalServiceTestSuite) TestReverseEntry_ZeroLineOmitted() {
	ctx := context.Background()

	linesWithZero := append([]domain.JournalLine{}, s.originalLines...)
	linesWithZero = append(linesWithZero, domain.JournalLine{
		LineID:    uuid.NewString(),
		EntryID:   s.original.EntryID,
		AccountID: s.cashAccount.AccountID,
		Position:  2,
	})

	var savedLines []domain.JournalLine
	s.mockEntryRepo.On("FindEntryByID", ctx, s.original.EntryID).Return(&s.original, nil).Once()
	s.mockSettingsSvc.On("GetValidationMode", ctx, s.userID).Return(policy.ModeBeginner, nil).Once()
	s.mockEntryRepo.On("FindLinesByEntryID", ctx, s.original.EntryID).Return(linesWithZero, nil).Once()
	s.mockEventSvc.On("GetEvent", ctx, s.originalEvent.EventID).Return(&s.originalEvent, nil).Once()
	s.mockAccountSvc.On("GetAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(s.accountsByID, nil).Once()
	s.mockEntryRepo.On("SaveReversal", ctx,
		mock.AnythingOfType("domain.TransactionEvent"),
		mock.AnythingOfType("domain.JournalEntry"),
		mock.AnythingOfType("[]domain.JournalLine"),
		mock.AnythingOfType("map[string]decimal.Decimal"),
		s.original.EntryID,
	).Run(func(args mock.Arguments) {
		savedLines = args.Get(3).([]domain.JournalLine)
	}).Return(nil).Once()

	_, err := s.service.ReverseEntry(ctx, s.original.EntryID, dto.ReverseEntryRequest{Reason: "duplicate"}, s.userID)

	s.Require().NoError(err)
	// The line that moved nothing produces no counter-line; positions stay dense.
	s.Require().Len(savedLines, 2)
	s.Equal(0, savedLines[0].Position)
	s.Equal(1, savedLines[1].Position)
	for _, line := range savedLines {
		s.False(line.Debit.IsZero() && line.Credit.IsZero())
	}
}

func (s *ReversalServiceTestSuite) TestReverseEntry_AlreadyVoid() {
	ctx := context.Background()

	voided := s.original
	voided.Status = domain.Void
	s.mockEntryRepo.On("FindEntryByID", ctx, voided.EntryID).Return(&voided, nil).Once()

	_, err := s.service.ReverseEntry(ctx, voided.EntryID, dto.ReverseEntryRequest{Reason: "again"}, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockEntryRepo.AssertNotCalled(s.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReversalServiceTestSuite) TestReverseEntry_DraftCannotReverse() {
	ctx := context.Background()

	draft := s.original
	draft.Status = domain.Draft
	s.mockEntryRepo.On("FindEntryByID", ctx, draft.EntryID).Return(&draft, nil).Once()

	_, err := s.service.ReverseEntry(ctx, draft.EntryID, dto.ReverseEntryRequest{Reason: "oops"}, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *ReversalServiceTestSuite) TestReverseEntry_BackdatedRequiresPro() {
	ctx := context.Background()
	backdate := time.Now().UTC().AddDate(0, 0, -30)

	s.mockEntryRepo.On("FindEntryByID", ctx, s.original.EntryID).Return(&s.original, nil).Once()
	s.mockSettingsSvc.On("GetValidationMode", ctx, s.userID).Return(policy.ModeBeginner, nil).Once()

	_, err := s.service.ReverseEntry(ctx, s.original.EntryID, dto.ReverseEntryRequest{Reason: "late fix", AsOfDate: &backdate}, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.mockEntryRepo.AssertNotCalled(s.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReversalServiceTestSuite) TestReverseEntry_BackdatedAllowedInPro() {
	ctx := context.Background()
	backdate := time.Now().UTC().AddDate(0, 0, -30)

	s.mockEntryRepo.On("FindEntryByID", ctx, s.original.EntryID).Return(&s.original, nil).Once()
	s.mockSettingsSvc.On("GetValidationMode", ctx, s.userID).Return(policy.ModePro, nil).Once()
	s.mockEntryRepo.On("FindLinesByEntryID", ctx, s.original.EntryID).Return(s.originalLines, nil).Once()
	s.mockEventSvc.On("GetEvent", ctx, s.originalEvent.EventID).Return(&s.originalEvent, nil).Once()
	s.mockAccountSvc.On("GetAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(s.accountsByID, nil).Once()
	s.mockEntryRepo.On("SaveReversal", ctx,
		mock.AnythingOfType("domain.TransactionEvent"),
		mock.MatchedBy(func(e domain.JournalEntry) bool { return e.EntryDate.Equal(backdate) }),
		mock.AnythingOfType("[]domain.JournalLine"),
		mock.AnythingOfType("map[string]decimal.Decimal"),
		s.original.EntryID,
	).Return(nil).Once()

	reversal, err := s.service.ReverseEntry(ctx, s.original.EntryID, dto.ReverseEntryRequest{Reason: "late fix", AsOfDate: &backdate}, s.userID)

	s.Require().NoError(err)
	s.NotNil(reversal)
	s.mockEntryRepo.AssertExpectations(s.T())
}

func (s *ReversalServiceTestSuite) TestReverseEntry_NotFound() {
	ctx := context.Background()
	entryID := uuid.NewString()

	s.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.ReverseEntry(ctx, entryID, dto.ReverseEntryRequest{Reason: "gone"}, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func TestReversalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReversalServiceTestSuite))
}

package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/openbooks/ledger-engine/internal/core/domain"
)

func TestEntryStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    domain.EntryStatus
		to      domain.EntryStatus
		allowed bool
	}{
		{domain.Draft, domain.Posted, true},
		{domain.Posted, domain.Void, true},
		{domain.Draft, domain.Void, false},
		{domain.Posted, domain.Draft, false},
		{domain.Void, domain.Draft, false},
		{domain.Void, domain.Posted, false},
		{domain.Draft, domain.Draft, false},
		{domain.Posted, domain.Posted, false},
		{domain.Void, domain.Void, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestEntryStatus_IsValid(t *testing.T) {
	assert.True(t, domain.Draft.IsValid())
	assert.True(t, domain.Posted.IsValid())
	assert.True(t, domain.Void.IsValid())
	assert.False(t, domain.EntryStatus("PENDING").IsValid())
}

func TestJournalEntry_IsReversal(t *testing.T) {
	original := "entry-1"
	reversal := domain.JournalEntry{ReversesEntryID: &original}
	assert.True(t, reversal.IsReversal())

	plain := domain.JournalEntry{}
	assert.False(t, plain.IsReversal())
}

func TestJournalLine_Constructors(t *testing.T) {
	amount := decimal.RequireFromString("42.50")

	debit := domain.NewDebitLine("acc-1", amount, "supplies")
	assert.True(t, debit.IsDebit())
	assert.True(t, amount.Equal(debit.Amount()))
	assert.True(t, debit.Credit.IsZero())

	credit := domain.NewCreditLine("acc-2", amount, "")
	assert.False(t, credit.IsDebit())
	assert.True(t, amount.Equal(credit.Amount()))
	assert.True(t, credit.Debit.IsZero())
}

func TestJournalLine_Reversed(t *testing.T) {
	amount := decimal.RequireFromString("99.99")
	line := domain.NewDebitLine("acc-1", amount, "note")

	reversed := line.Reversed()
	assert.False(t, reversed.IsDebit())
	assert.True(t, amount.Equal(reversed.Credit))
	assert.True(t, reversed.Debit.IsZero())
	assert.Equal(t, "acc-1", reversed.AccountID)
	assert.Equal(t, "note", reversed.Description)
}

func TestAccountType_IncreasesOnDebit(t *testing.T) {
	assert.True(t, domain.Asset.IncreasesOnDebit())
	assert.True(t, domain.Expense.IncreasesOnDebit())
	assert.False(t, domain.Liability.IncreasesOnDebit())
	assert.False(t, domain.Equity.IncreasesOnDebit())
	assert.False(t, domain.Revenue.IncreasesOnDebit())
}

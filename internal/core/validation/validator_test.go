package validation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/ledger-engine/internal/core/domain"
	"github.com/openbooks/ledger-engine/internal/core/validation"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestValidateLines_BalancedEntry(t *testing.T) {
	lines := []domain.JournalLine{
		domain.NewDebitLine("acc-cash", dec("100.00"), ""),
		domain.NewCreditLine("acc-revenue", dec("100.00"), ""),
	}

	findings := validation.ValidateLines(lines)
	assert.Empty(t, findings)
}

func TestValidateLines_SplitEntryBalances(t *testing.T) {
	// One debit against two credits; totals agree.
	lines := []domain.JournalLine{
		domain.NewDebitLine("acc-cash", dec("150.00"), ""),
		domain.NewCreditLine("acc-revenue", dec("100.00"), ""),
		domain.NewCreditLine("acc-tax", dec("50.00"), ""),
	}

	findings := validation.ValidateLines(lines)
	assert.Empty(t, findings)
}

func TestValidateLines_UnbalancedEntry(t *testing.T) {
	lines := []domain.JournalLine{
		domain.NewDebitLine("acc-cash", dec("100.00"), ""),
		domain.NewCreditLine("acc-revenue", dec("90.00"), ""),
	}

	findings := validation.ValidateLines(lines)
	require.Len(t, findings, 1)
	assert.Equal(t, validation.SeverityError, findings[0].Severity)
	assert.Equal(t, "entry does not balance: debits=100.00, credits=90.00", findings[0].Message)
}

func TestValidateLines_RoundingDriftWithinTolerance(t *testing.T) {
	// One cent of drift is absorbed by the tolerance.
	lines := []domain.JournalLine{
		domain.NewDebitLine("acc-cash", dec("33.34"), ""),
		domain.NewCreditLine("acc-revenue", dec("33.33"), ""),
	}

	findings := validation.ValidateLines(lines)
	assert.Empty(t, findings)
}

func TestValidateLines_DriftBeyondToleranceFails(t *testing.T) {
	lines := []domain.JournalLine{
		domain.NewDebitLine("acc-cash", dec("33.35"), ""),
		domain.NewCreditLine("acc-revenue", dec("33.33"), ""),
	}

	findings := validation.ValidateLines(lines)
	require.Len(t, findings, 1)
	assert.True(t, findings[0].IsError())
}

func TestValidateLines_SingleLine(t *testing.T) {
	lines := []domain.JournalLine{
		domain.NewDebitLine("acc-cash", dec("100.00"), ""),
	}

	findings := validation.ValidateLines(lines)
	assert.True(t, validation.HasErrors(findings))
	msgs := validation.Messages(findings)
	assert.Contains(t, msgs, "entry must have at least two lines; a single-line entry cannot balance")
}

func TestValidateLines_BothSidesPositive(t *testing.T) {
	lines := []domain.JournalLine{
		{AccountID: "acc-cash", Debit: dec("50.00"), Credit: dec("50.00")},
		domain.NewCreditLine("acc-revenue", decimal.Zero, ""),
	}

	findings := validation.ValidateLines(lines)
	require.NotEmpty(t, findings)

	var found bool
	for _, f := range findings {
		if f.LinePosition != nil && *f.LinePosition == 0 {
			found = true
			assert.Equal(t, validation.SeverityError, f.Severity)
		}
	}
	assert.True(t, found, "expected a line-level finding for position 0")
}

func TestValidateLines_NegativeAmount(t *testing.T) {
	lines := []domain.JournalLine{
		{AccountID: "acc-cash", Debit: dec("-100.00")},
		domain.NewCreditLine("acc-revenue", dec("100.00"), ""),
	}

	findings := validation.ValidateLines(lines)
	assert.True(t, validation.HasErrors(findings))
}

func TestValidateLines_NeitherSide(t *testing.T) {
	lines := []domain.JournalLine{
		{AccountID: "acc-cash"},
		{AccountID: "acc-revenue"},
	}

	findings := validation.ValidateLines(lines)
	assert.True(t, validation.HasErrors(findings))

	var lineFindings int
	for _, f := range findings {
		if f.LinePosition != nil {
			lineFindings++
		}
	}
	assert.Equal(t, 2, lineFindings)
}

func TestValidateLines_SingleAccount(t *testing.T) {
	// Balanced but both lines hit the same account.
	lines := []domain.JournalLine{
		domain.NewDebitLine("acc-cash", dec("100.00"), ""),
		domain.NewCreditLine("acc-cash", dec("100.00"), ""),
	}

	findings := validation.ValidateLines(lines)
	require.Len(t, findings, 1)
	assert.Equal(t, "entry must affect at least two different accounts", findings[0].Message)
}

func TestValidateLineStructure_FlagsOnlyDefectiveLines(t *testing.T) {
	lines := []domain.JournalLine{
		domain.NewDebitLine("acc-cash", dec("100.00"), ""),
		{AccountID: "acc-revenue", Debit: dec("50.00"), Credit: dec("50.00")},
		{AccountID: "acc-tax"},
	}

	findings := validation.ValidateLineStructure(lines)
	require.Len(t, findings, 2)
	require.NotNil(t, findings[0].LinePosition)
	assert.Equal(t, 1, *findings[0].LinePosition)
	require.NotNil(t, findings[1].LinePosition)
	assert.Equal(t, 2, *findings[1].LinePosition)
}

func TestValidateLineStructure_CleanLines(t *testing.T) {
	lines := []domain.JournalLine{
		domain.NewDebitLine("acc-cash", dec("10.00"), ""),
	}

	// Balance and line-count rules are out of scope here; only the
	// single-sided rule is checked.
	assert.Empty(t, validation.ValidateLineStructure(lines))
}

func TestValidateEntry_WarningsAreOverridable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lines := []domain.JournalLine{
		domain.NewDebitLine("acc-cash", dec("100.00"), ""),
		domain.NewCreditLine("acc-revenue", dec("100.00"), ""),
	}

	// Empty description and a future date: two warnings, no errors.
	findings := validation.ValidateEntry(now.AddDate(0, 1, 0), "", lines, now)
	require.Len(t, findings, 2)
	for _, f := range findings {
		assert.Equal(t, validation.SeverityWarning, f.Severity)
		assert.True(t, f.RequiresOverride)
	}
	assert.False(t, validation.HasErrors(findings))
}

func TestValidateEntry_CleanEntryHasNoFindings(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lines := []domain.JournalLine{
		domain.NewDebitLine("acc-cash", dec("100.00"), ""),
		domain.NewCreditLine("acc-revenue", dec("100.00"), ""),
	}

	findings := validation.ValidateEntry(now.AddDate(0, 0, -1), "March invoice", lines, now)
	assert.Empty(t, findings)
}

func TestAmountsEqual(t *testing.T) {
	assert.True(t, validation.AmountsEqual(dec("10.00"), dec("10.00")))
	assert.True(t, validation.AmountsEqual(dec("10.00"), dec("10.01")))
	assert.True(t, validation.AmountsEqual(dec("10.01"), dec("10.00")))
	assert.False(t, validation.AmountsEqual(dec("10.00"), dec("10.02")))
}

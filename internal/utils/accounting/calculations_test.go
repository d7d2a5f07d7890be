package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/ledger-engine/internal/core/domain"
	"github.com/openbooks/ledger-engine/internal/utils/accounting"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSignedAmount(t *testing.T) {
	tests := []struct {
		name        string
		line        domain.JournalLine
		accountType domain.AccountType
		want        string
	}{
		{"debit to asset", domain.NewDebitLine("a", dec("100"), ""), domain.Asset, "100"},
		{"credit to asset", domain.NewCreditLine("a", dec("100"), ""), domain.Asset, "-100"},
		{"debit to expense", domain.NewDebitLine("a", dec("100"), ""), domain.Expense, "100"},
		{"credit to expense", domain.NewCreditLine("a", dec("100"), ""), domain.Expense, "-100"},
		{"debit to liability", domain.NewDebitLine("a", dec("100"), ""), domain.Liability, "-100"},
		{"credit to liability", domain.NewCreditLine("a", dec("100"), ""), domain.Liability, "100"},
		{"debit to equity", domain.NewDebitLine("a", dec("100"), ""), domain.Equity, "-100"},
		{"credit to equity", domain.NewCreditLine("a", dec("100"), ""), domain.Equity, "100"},
		{"debit to revenue", domain.NewDebitLine("a", dec("100"), ""), domain.Revenue, "-100"},
		{"credit to revenue", domain.NewCreditLine("a", dec("100"), ""), domain.Revenue, "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.SignedAmount(tt.line, tt.accountType)
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestSignedAmount_UnknownType(t *testing.T) {
	_, err := accounting.SignedAmount(domain.NewDebitLine("a", dec("100"), ""), domain.AccountType("BOGUS"))
	assert.Error(t, err)
}

func TestBalanceChanges(t *testing.T) {
	lines := []domain.JournalLine{
		domain.NewDebitLine("cash", dec("150"), ""),
		domain.NewCreditLine("revenue", dec("100"), ""),
		domain.NewCreditLine("tax-payable", dec("50"), ""),
	}
	accountTypes := map[string]domain.AccountType{
		"cash":        domain.Asset,
		"revenue":     domain.Revenue,
		"tax-payable": domain.Liability,
	}

	changes, err := accounting.BalanceChanges(lines, accountTypes)
	require.NoError(t, err)
	require.Len(t, changes, 3)
	assert.True(t, dec("150").Equal(changes["cash"]))
	assert.True(t, dec("100").Equal(changes["revenue"]))
	assert.True(t, dec("50").Equal(changes["tax-payable"]))
}

func TestBalanceChanges_NetsSameAccount(t *testing.T) {
	lines := []domain.JournalLine{
		domain.NewDebitLine("cash", dec("100"), ""),
		domain.NewCreditLine("cash", dec("40"), ""),
		domain.NewCreditLine("revenue", dec("60"), ""),
	}
	accountTypes := map[string]domain.AccountType{
		"cash":    domain.Asset,
		"revenue": domain.Revenue,
	}

	changes, err := accounting.BalanceChanges(lines, accountTypes)
	require.NoError(t, err)
	assert.True(t, dec("60").Equal(changes["cash"]))
}

func TestBalanceChanges_MissingAccountType(t *testing.T) {
	lines := []domain.JournalLine{domain.NewDebitLine("cash", dec("100"), "")}

	_, err := accounting.BalanceChanges(lines, map[string]domain.AccountType{})
	assert.Error(t, err)
}

func TestEntryAmount(t *testing.T) {
	lines := []domain.JournalLine{
		domain.NewDebitLine("cash", dec("150"), ""),
		domain.NewCreditLine("revenue", dec("100"), ""),
		domain.NewCreditLine("tax-payable", dec("50"), ""),
	}

	assert.True(t, dec("150").Equal(accounting.EntryAmount(lines)))
}

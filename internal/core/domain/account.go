package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five closed account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IncreasesOnDebit reports which side grows an account of this type.
// Asset and expense accounts increase on debit; liability, equity and
// revenue accounts increase on credit.
func (t AccountType) IncreasesOnDebit() bool {
	return t == Asset || t == Expense
}

// Account represents a node in the chart of accounts.
// An account's type must never change once the account has posted lines;
// that freeze is enforced by the collaborators that manage the chart, but
// every balance calculation here assumes it holds.
type Account struct {
	AccountID       string          `json:"accountID"`       // Primary Key (UUID)
	Code            string          `json:"code"`            // Numeric chart code, e.g. "1200"
	Name            string          `json:"name"`            // Display name
	AccountType     AccountType     `json:"accountType"`     // ASSET, LIABILITY, EQUITY, REVENUE, EXPENSE
	ParentAccountID string          `json:"parentAccountID"` // Nullable FK, roll-up reporting
	Description     string          `json:"description"`     // Nullable
	IsActive        bool            `json:"isActive"`
	AuditFields
	Balance decimal.Decimal `json:"balance"` // Persisted running balance over posted lines
}

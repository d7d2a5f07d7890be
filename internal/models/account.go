package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors domain.AccountType at the storage layer.
type AccountType string

// Account is the row model for the accounts table.
// ParentAccountID uses string for the nullable foreign key; empty means no parent.
type Account struct {
	AccountID       string      `db:"account_id"`
	Code            string      `db:"code"`
	Name            string      `db:"name"`
	AccountType     AccountType `db:"account_type"`
	ParentAccountID string      `db:"parent_account_id"`
	Description     string      `db:"description"`
	IsActive        bool        `db:"is_active"`
	AuditFields
	Balance decimal.Decimal `db:"balance"`
}

package models

import (
	"github.com/shopspring/decimal"
)

// JournalLine is the row model for the journal_lines table. Debit and
// credit are separate columns; a check constraint in the schema mirrors the
// single-sided invariant the validator enforces.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	AccountID   string          `db:"account_id"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description string          `db:"description"`
	Position    int             `db:"position"`
	AuditFields
}

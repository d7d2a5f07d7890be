package domain

import (
	"github.com/shopspring/decimal"
)

// JournalLine is one row of a journal entry: it moves a single amount on
// exactly one side of a single account. Exactly one of Debit and Credit is
// strictly positive and the other is exactly zero. Lines are created only
// while the owning entry is DRAFT and are never modified after it posts.
type JournalLine struct {
	LineID      string          `json:"lineID"`    // Primary Key (UUID)
	EntryID     string          `json:"entryID"`   // FK -> JournalEntry (Not Null)
	AccountID   string          `json:"accountID"` // FK -> Account (Not Null)
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"` // Nullable
	Position    int             `json:"position"`    // Order within the entry, 0-based
	AuditFields
}

// NewDebitLine builds a line that debits the given account. The constructor
// pair is the only intended way to make lines: a line built here always has
// exactly one positive side.
func NewDebitLine(accountID string, amount decimal.Decimal, description string) JournalLine {
	return JournalLine{
		AccountID:   accountID,
		Debit:       amount,
		Credit:      decimal.Zero,
		Description: description,
	}
}

// NewCreditLine builds a line that credits the given account.
func NewCreditLine(accountID string, amount decimal.Decimal, description string) JournalLine {
	return JournalLine{
		AccountID:   accountID,
		Debit:       decimal.Zero,
		Credit:      amount,
		Description: description,
	}
}

// IsDebit reports whether the line's positive side is the debit side.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the positive side of the line, whichever it is.
func (l JournalLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}

// Reversed returns a copy of the line with the debit and credit sides
// swapped, used when generating the counter-entry for a void.
func (l JournalLine) Reversed() JournalLine {
	return JournalLine{
		AccountID:   l.AccountID,
		Debit:       l.Credit,
		Credit:      l.Debit,
		Description: l.Description,
	}
}

package domain

import "time"

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	// Draft entries may still receive lines and have no effect on any balance.
	Draft EntryStatus = "DRAFT"
	// Posted entries are frozen and count toward every balance and report.
	Posted EntryStatus = "POSTED"
	// Void entries keep their lines untouched; their economic effect has been
	// annulled by a separately posted reversing entry.
	Void EntryStatus = "VOID"
)

// IsValid reports whether s is a known entry status.
func (s EntryStatus) IsValid() bool {
	switch s {
	case Draft, Posted, Void:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status machine permits moving from s
// to next. The only legal transitions are DRAFT -> POSTED and POSTED -> VOID.
func (s EntryStatus) CanTransitionTo(next EntryStatus) bool {
	switch s {
	case Draft:
		return next == Posted
	case Posted:
		return next == Void
	case Void:
		return false
	}
	return false
}

// JournalEntry represents the financial effect of a transaction event.
// Once posted, an entry is never edited; the only permitted mutation of a
// finalized entry is the status flip to VOID, which carries no numeric effect.
type JournalEntry struct {
	EntryID     string      `json:"entryID"`   // Primary Key (UUID)
	EventID     string      `json:"eventID"`   // FK -> TransactionEvent (Not Null)
	EntryDate   time.Time   `json:"entryDate"` // Date the entry takes effect
	Description string      `json:"description"`
	Reference   string      `json:"reference"` // Nullable
	Status      EntryStatus `json:"status"`

	// Posting stamps, set when the entry transitions to POSTED.
	PostedAt *time.Time `json:"postedAt,omitempty"`
	PostedBy string     `json:"postedBy,omitempty"`

	// Reversal linkage. ReversedByEntryID is set on the original entry when it
	// is voided; ReversesEntryID is set on the reversing entry.
	ReversedByEntryID *string `json:"reversedByEntryID,omitempty"`
	ReversesEntryID   *string `json:"reversesEntryID,omitempty"`

	AuditFields

	// Lines are usually loaded separately; nil unless explicitly populated.
	Lines []JournalLine `json:"lines,omitempty"`
}

// IsReversal reports whether the entry was generated to negate another entry.
func (e *JournalEntry) IsReversal() bool {
	return e.ReversesEntryID != nil
}

package models

import "time"

// EntryStatus mirrors domain.EntryStatus at the storage layer.
type EntryStatus string

// JournalEntry is the row model for the journal_entries table.
type JournalEntry struct {
	EntryID           string      `db:"entry_id"`
	EventID           string      `db:"event_id"`
	EntryDate         time.Time   `db:"entry_date"`
	Description       string      `db:"description"`
	Reference         string      `db:"reference"`
	Status            EntryStatus `db:"status"`
	PostedAt          *time.Time  `db:"posted_at"`
	PostedBy          string      `db:"posted_by"`
	ReversedByEntryID *string     `db:"reversed_by_entry_id"`
	ReversesEntryID   *string     `db:"reverses_entry_id"`
	AuditFields
}

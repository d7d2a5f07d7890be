package models

import "time"

// TransactionEvent is the row model for the transaction_events table.
// Metadata is stored as a JSONB column.
type TransactionEvent struct {
	EventID     string            `db:"event_id"`
	EventType   string            `db:"event_type"`
	Description string            `db:"description"`
	Reference   string            `db:"reference"`
	Metadata    map[string]string `db:"metadata"`
	CreatedAt   time.Time         `db:"created_at"`
	CreatedBy   string            `db:"created_by"`
}

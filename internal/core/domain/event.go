package domain

import "time"

// VoidedEventSuffix is appended to the original event type when a
// reversal event is generated for it.
const VoidedEventSuffix = "_voided"

// TransactionEvent is the audit anchor for one business action: the
// semantic cause behind one or more journal entries. Events are
// immutable once created; corrections happen through new events.
type TransactionEvent struct {
	EventID     string            `json:"eventID"`     // Primary Key (UUID)
	EventType   string            `json:"eventType"`   // e.g. "invoice_created", "bill_voided"
	Description string            `json:"description"`
	Reference   string            `json:"reference"` // Nullable external reference
	Metadata    map[string]string `json:"metadata"`  // Free-form, nullable
	CreatedAt   time.Time         `json:"createdAt"`
	CreatedBy   string            `json:"createdBy"`
}

package dto

import (
	"time"

	"github.com/openbooks/ledger-engine/internal/core/domain"
)

// CreateEventRequest records the business cause behind one or more journal
// entries. Collaborators create the event first and reference it from every
// entry header they post for the same business action.
type CreateEventRequest struct {
	EventType   string            `json:"eventType" binding:"required"`
	Description string            `json:"description" binding:"required"`
	Reference   string            `json:"reference"`
	Metadata    map[string]string `json:"metadata"`
}

// EventResponse defines the data returned for a transaction event.
type EventResponse struct {
	EventID     string            `json:"eventID"`
	EventType   string            `json:"eventType"`
	Description string            `json:"description"`
	Reference   string            `json:"reference,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	CreatedBy   string            `json:"createdBy"`
}

// ToEventResponse converts a domain.TransactionEvent to EventResponse.
func ToEventResponse(e *domain.TransactionEvent) EventResponse {
	return EventResponse{
		EventID:     e.EventID,
		EventType:   e.EventType,
		Description: e.Description,
		Reference:   e.Reference,
		Metadata:    e.Metadata,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
}

package repositories

import (
	"context"

	"github.com/openbooks/ledger-engine/internal/core/domain"
)

// EventReader defines read operations for transaction events.
type EventReader interface {
	// FindEventByID retrieves a transaction event by its unique identifier.
	FindEventByID(ctx context.Context, eventID string) (*domain.TransactionEvent, error)
}

// EventWriter defines write operations for transaction events. Events are
// insert-only; there is deliberately no update operation.
type EventWriter interface {
	// SaveEvent persists a new transaction event.
	SaveEvent(ctx context.Context, event domain.TransactionEvent) error
}

// EventRepositoryFacade combines all event-related repository interfaces.
type EventRepositoryFacade interface {
	EventReader
	EventWriter
}

package services

import (
	"context"

	"github.com/openbooks/ledger-engine/internal/core/domain"
	"github.com/openbooks/ledger-engine/internal/dto"
)

// EventSvcFacade manages transaction events, the audit anchors for journal
// entries. Events are create-and-read only.
type EventSvcFacade interface {
	// CreateEvent persists a new transaction event.
	CreateEvent(ctx context.Context, req dto.CreateEventRequest, creatorID string) (*domain.TransactionEvent, error)

	// GetEvent retrieves a transaction event by ID.
	GetEvent(ctx context.Context, eventID string) (*domain.TransactionEvent, error)
}

package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/ledger-engine/internal/core/domain"
	portsrepo "github.com/openbooks/ledger-engine/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger-engine/internal/core/ports/services"
	"github.com/openbooks/ledger-engine/internal/dto"
	"github.com/openbooks/ledger-engine/internal/middleware"
)

// eventService manages transaction events, the audit anchors that journal
// entries hang off. Events are insert-only; there is no update or delete.
type eventService struct {
	eventRepo portsrepo.EventRepositoryFacade
}

// NewEventService creates a new event service.
func NewEventService(eventRepo portsrepo.EventRepositoryFacade) portssvc.EventSvcFacade {
	return &eventService{
		eventRepo: eventRepo,
	}
}

var _ portssvc.EventSvcFacade = (*eventService)(nil)

// CreateEvent persists a new transaction event.
func (s *eventService) CreateEvent(ctx context.Context, req dto.CreateEventRequest, creatorID string) (*domain.TransactionEvent, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	event := domain.TransactionEvent{
		EventID:     uuid.NewString(),
		EventType:   req.EventType,
		Description: req.Description,
		Reference:   req.Reference,
		Metadata:    req.Metadata,
		CreatedAt:   time.Now().UTC(),
		CreatedBy:   creatorID,
	}

	if err := s.eventRepo.SaveEvent(ctx, event); err != nil {
		return nil, err
	}

	logger.Info("transaction event created",
		slog.String("event_id", event.EventID),
		slog.String("event_type", event.EventType))
	return &event, nil
}

// GetEvent retrieves a transaction event by ID.
func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.TransactionEvent, error) {
	return s.eventRepo.FindEventByID(ctx, eventID)
}

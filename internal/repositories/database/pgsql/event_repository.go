package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbooks/ledger-engine/internal/apperrors"
	"github.com/openbooks/ledger-engine/internal/core/domain"
	portsrepo "github.com/openbooks/ledger-engine/internal/core/ports/repositories"
	"github.com/openbooks/ledger-engine/internal/models"
	"github.com/openbooks/ledger-engine/internal/utils/mapping"
)

type PgxEventRepository struct {
	BaseRepository
}

// newPgxEventRepository creates a new repository for transaction event data.
func newPgxEventRepository(pool *pgxpool.Pool) *PgxEventRepository {
	return &PgxEventRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.EventRepositoryFacade = (*PgxEventRepository)(nil)

// SaveEvent persists a new transaction event. Events are insert-only.
func (r *PgxEventRepository) SaveEvent(ctx context.Context, event domain.TransactionEvent) error {
	m := mapping.ToModelEvent(event)

	query := `
		INSERT INTO transaction_events (event_id, event_type, description, reference, metadata, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.EventID,
		m.EventType,
		m.Description,
		m.Reference,
		m.Metadata,
		m.CreatedAt,
		m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction event %s: %w", m.EventID, err)
	}
	return nil
}

// FindEventByID retrieves a transaction event by its ID.
func (r *PgxEventRepository) FindEventByID(ctx context.Context, eventID string) (*domain.TransactionEvent, error) {
	query := `
		SELECT event_id, event_type, description, reference, metadata, created_at, created_by
		FROM transaction_events
		WHERE event_id = $1;
	`
	var m models.TransactionEvent
	err := r.Pool.QueryRow(ctx, query, eventID).Scan(
		&m.EventID,
		&m.EventType,
		&m.Description,
		&m.Reference,
		&m.Metadata,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction event by ID %s: %w", eventID, err)
	}

	event := mapping.ToDomainEvent(m)
	return &event, nil
}

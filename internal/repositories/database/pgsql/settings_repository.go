package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbooks/ledger-engine/internal/apperrors"
	portsrepo "github.com/openbooks/ledger-engine/internal/core/ports/repositories"
)

type PgxSettingsRepository struct {
	BaseRepository
}

// newPgxSettingsRepository creates a new repository for per-user settings.
func newPgxSettingsRepository(pool *pgxpool.Pool) *PgxSettingsRepository {
	return &PgxSettingsRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.SettingsRepositoryFacade = (*PgxSettingsRepository)(nil)

// GetSetting retrieves a setting value for a user.
func (r *PgxSettingsRepository) GetSetting(ctx context.Context, userID string, key string) (string, error) {
	query := `SELECT value FROM user_settings WHERE user_id = $1 AND key = $2;`

	var value string
	err := r.Pool.QueryRow(ctx, query, userID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to get setting %s for user %s: %w", key, userID, err)
	}
	return value, nil
}

// PutSetting inserts or updates a setting value for a user.
func (r *PgxSettingsRepository) PutSetting(ctx context.Context, userID string, key string, value string, now time.Time) error {
	query := `
		INSERT INTO user_settings (user_id, key, value, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (user_id, key) DO UPDATE
		SET value = EXCLUDED.value, last_updated_at = EXCLUDED.last_updated_at;
	`
	_, err := r.Pool.Exec(ctx, query, userID, key, value, now)
	if err != nil {
		return fmt.Errorf("failed to put setting %s for user %s: %w", key, userID, err)
	}
	return nil
}

package repositories

import (
	"context"
	"time"
)

// SettingsRepositoryFacade persists per-user application settings. The only
// setting the engine itself reads is the validation mode.
type SettingsRepositoryFacade interface {
	// GetSetting retrieves a setting value for a user; returns
	// apperrors.ErrNotFound when the key has never been set.
	GetSetting(ctx context.Context, userID string, key string) (string, error)

	// PutSetting inserts or updates a setting value for a user.
	PutSetting(ctx context.Context, userID string, key string, value string, now time.Time) error
}

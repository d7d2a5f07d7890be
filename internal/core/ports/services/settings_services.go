package services

import (
	"context"

	"github.com/openbooks/ledger-engine/internal/core/policy"
)

// SettingsSvcFacade reads and writes the persisted per-user validation mode.
// Every engine operation reads the mode once at its start and passes it to
// the policy gate explicitly; nothing reads it from ambient state.
type SettingsSvcFacade interface {
	// GetValidationMode returns the user's mode, falling back to the
	// configured default when the user never set one.
	GetValidationMode(ctx context.Context, userID string) (policy.Mode, error)

	// SetValidationMode persists the user's mode.
	SetValidationMode(ctx context.Context, userID string, mode policy.Mode) error
}

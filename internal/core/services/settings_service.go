package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/openbooks/ledger-engine/internal/apperrors"
	"github.com/openbooks/ledger-engine/internal/core/policy"
	portsrepo "github.com/openbooks/ledger-engine/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger-engine/internal/core/ports/services"
	"github.com/openbooks/ledger-engine/internal/middleware"
)

const validationModeKey = "validation_mode"

// settingsService reads and writes the persisted per-user validation mode.
type settingsService struct {
	settingsRepo portsrepo.SettingsRepositoryFacade
	defaultMode  policy.Mode
}

// NewSettingsService creates a new settings service. defaultMode applies to
// users who never set a mode explicitly.
func NewSettingsService(settingsRepo portsrepo.SettingsRepositoryFacade, defaultMode policy.Mode) portssvc.SettingsSvcFacade {
	return &settingsService{
		settingsRepo: settingsRepo,
		defaultMode:  defaultMode,
	}
}

var _ portssvc.SettingsSvcFacade = (*settingsService)(nil)

// GetValidationMode returns the user's mode, falling back to the configured
// default when the user never set one. An unparseable stored value also falls
// back rather than failing the calling operation.
func (s *settingsService) GetValidationMode(ctx context.Context, userID string) (policy.Mode, error) {
	value, err := s.settingsRepo.GetSetting(ctx, userID, validationModeKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.defaultMode, nil
		}
		return "", err
	}

	mode, err := policy.ParseMode(value)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("stored validation mode is invalid, using default",
			slog.String("user_id", userID),
			slog.String("stored_value", value))
		return s.defaultMode, nil
	}
	return mode, nil
}

// SetValidationMode persists the user's mode.
func (s *settingsService) SetValidationMode(ctx context.Context, userID string, mode policy.Mode) error {
	return s.settingsRepo.PutSetting(ctx, userID, validationModeKey, string(mode), time.Now().UTC())
}

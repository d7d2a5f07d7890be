package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openbooks/ledger-engine/internal/core/policy"
	portssvc "github.com/openbooks/ledger-engine/internal/core/ports/services"
	"github.com/openbooks/ledger-engine/internal/dto"
	"github.com/openbooks/ledger-engine/internal/middleware"
)

// settingsHandler handles HTTP requests for the caller's own settings.
type settingsHandler struct {
	settingsSvc portssvc.SettingsSvcFacade
}

// newSettingsHandler creates a new settingsHandler.
func newSettingsHandler(settingsSvc portssvc.SettingsSvcFacade) *settingsHandler {
	return &settingsHandler{
		settingsSvc: settingsSvc,
	}
}

func (h *settingsHandler) getSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	mode, err := h.settingsSvc.GetValidationMode(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get settings")
		return
	}

	c.JSON(http.StatusOK, dto.SettingsResponse{ValidationMode: string(mode)})
}

func (h *settingsHandler) updateSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateSettings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	mode, err := policy.ParseMode(req.ValidationMode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.settingsSvc.SetValidationMode(c.Request.Context(), userID, mode); err != nil {
		respondWithError(c, logger, err, "Failed to update settings")
		return
	}

	c.JSON(http.StatusOK, dto.SettingsResponse{ValidationMode: string(mode)})
}

// registerSettingsRoutes registers settings specific routes.
func registerSettingsRoutes(group *gin.RouterGroup, settingsSvc portssvc.SettingsSvcFacade) {
	h := newSettingsHandler(settingsSvc)

	settings := group.Group("/settings")
	{
		settings.GET("", h.getSettings)
		settings.PUT("", h.updateSettings)
	}
}

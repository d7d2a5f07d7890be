package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/ledger-engine/internal/core/ports/services"
	"github.com/openbooks/ledger-engine/internal/dto"
	"github.com/openbooks/ledger-engine/internal/middleware"
)

// eventHandler handles HTTP requests for transaction events.
type eventHandler struct {
	eventSvc portssvc.EventSvcFacade
}

// newEventHandler creates a new eventHandler.
func newEventHandler(eventSvc portssvc.EventSvcFacade) *eventHandler {
	return &eventHandler{
		eventSvc: eventSvc,
	}
}

func (h *eventHandler) createEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createEvent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	event, err := h.eventSvc.CreateEvent(c.Request.Context(), req, creatorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create transaction event")
		return
	}

	c.JSON(http.StatusCreated, dto.ToEventResponse(event))
}

func (h *eventHandler) getEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	eventID := c.Param("eventID")

	event, err := h.eventSvc.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get transaction event")
		return
	}

	c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

// registerEventRoutes registers transaction event specific routes.
func registerEventRoutes(group *gin.RouterGroup, eventSvc portssvc.EventSvcFacade) {
	h := newEventHandler(eventSvc)

	events := group.Group("/events")
	{
		events.POST("", h.createEvent)
		events.GET("/:eventID", h.getEvent)
	}
}

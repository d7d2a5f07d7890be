package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/ledger-engine/internal/core/ports/services"
	"github.com/openbooks/ledger-engine/internal/dto"
	"github.com/openbooks/ledger-engine/internal/middleware"
)

// entryHandler handles HTTP requests for journal entries: the posting
// protocol, draft line insertion and reversals.
type entryHandler struct {
	postingSvc  portssvc.PostingSvcFacade
	reversalSvc portssvc.ReversalSvcFacade
}

// newEntryHandler creates a new entryHandler.
func newEntryHandler(postingSvc portssvc.PostingSvcFacade, reversalSvc portssvc.ReversalSvcFacade) *entryHandler {
	return &entryHandler{
		postingSvc:  postingSvc,
		reversalSvc: reversalSvc,
	}
}

// createEntry accepts both immediate postings and draft saves. A validation
// refusal is not an HTTP error: the response carries ok=false plus the
// findings, with 422 signalling that the entry was refused but retained.
func (h *entryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.postingSvc.CreateJournalEntry(c.Request.Context(), req, creatorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create journal entry")
		return
	}

	if !result.OK {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *entryHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	entry, err := h.postingSvc.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *entryHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	params := dto.ListEntriesParams{
		Limit:        limit,
		IncludeVoid:  c.Query("includeVoid") == "true",
		IncludeLines: c.Query("includeLines") == "true",
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	resp, err := h.postingSvc.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list journal entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *entryHandler) addLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	var req dto.AddLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for addLines", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.postingSvc.AddLinesToDraft(c.Request.Context(), entryID, req, actorID); err != nil {
		respondWithError(c, logger, err, "Failed to add lines to draft")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *entryHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.postingSvc.PostDraftEntry(c.Request.Context(), entryID, actorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to post draft entry")
		return
	}

	if !result.OK {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *entryHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	var req dto.ReverseEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for reverseEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reversal, err := h.reversalSvc.ReverseEntry(c.Request.Context(), entryID, req, actorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to reverse journal entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToEntryResponse(reversal))
}

// registerEntryRoutes registers journal entry specific routes.
func registerEntryRoutes(group *gin.RouterGroup, postingSvc portssvc.PostingSvcFacade, reversalSvc portssvc.ReversalSvcFacade) {
	h := newEntryHandler(postingSvc, reversalSvc)

	entries := group.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/lines", h.addLines)
		entries.POST("/:entryID/post", h.postEntry)
		entries.POST("/:entryID/reverse", h.reverseEntry)
	}
}

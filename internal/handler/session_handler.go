package handler

import (
	"net/http"

	"github.com/yourorg/atlas-directory/internal/service"
	"github.com/yourorg/atlas-directory/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler handles filter session requests
type SessionHandler struct {
	sessionService *service.SessionService
	defaultLimit   int
	maxLimit       int
	logger         *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService, defaultLimit, maxLimit int, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		defaultLimit:   defaultLimit,
		maxLimit:       maxLimit,
		logger:         logger,
	}
}

// CreateSession handles starting a session
// POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	sess := h.sessionService.Create(c.Request.Context())
	c.JSON(http.StatusCreated, sess)
}

// GetSession handles fetching a session
// GET /api/v1/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	sess, err := h.sessionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch session")
		return
	}

	c.JSON(http.StatusOK, sess)
}

// UpdateSession handles changing query, category, stage or sort
// PATCH /api/v1/sessions/:id
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	var patch service.CriteriaPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.sessionService.Patch(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update session")
		return
	}

	c.JSON(http.StatusOK, sess)
}

// ToggleTag handles adding or removing a tag from the selection
// POST /api/v1/sessions/:id/tags/:tag
func (h *SessionHandler) ToggleTag(c *gin.Context) {
	sess, err := h.sessionService.ToggleTag(c.Request.Context(), c.Param("id"), c.Param("tag"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to toggle tag")
		return
	}

	c.JSON(http.StatusOK, sess)
}

// ResetSession handles clearing all filters
// POST /api/v1/sessions/:id/reset
func (h *SessionHandler) ResetSession(c *gin.Context) {
	sess, err := h.sessionService.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to reset session")
		return
	}

	c.JSON(http.StatusOK, sess)
}

// DeleteSession handles ending a session
// DELETE /api/v1/sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.sessionService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to delete session")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetResults handles running the session's criteria
// GET /api/v1/sessions/:id/results
func (h *SessionHandler) GetResults(c *gin.Context) {
	pagination := utils.ParsePaginationParams(c, h.defaultLimit, h.maxLimit)

	result, err := h.sessionService.Results(c.Request.Context(), c.Param("id"), pagination.Page, pagination.Limit)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch results")
		return
	}

	utils.SendPaginatedResponse(c, http.StatusOK, result.Cards, result.Total, pagination.Page, pagination.Limit, gin.H{
		"focus":           result.Focus,
		"summary":         result.Summary,
		"criteria":        result.Criteria,
		"dataset_version": result.DatasetVersion,
	})
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/yourorg/atlas-directory/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SignalHandler serves catalog-wide aggregates
type SignalHandler struct {
	signalService *service.SignalService
	logger        *zap.Logger
}

// NewSignalHandler creates a new signal handler
func NewSignalHandler(signalService *service.SignalService, logger *zap.Logger) *SignalHandler {
	return &SignalHandler{
		signalService: signalService,
		logger:        logger,
	}
}

// GetSignals handles the headline catalog statistics
// GET /api/v1/signals
func (h *SignalHandler) GetSignals(c *gin.Context) {
	signals, err := h.signalService.Signals(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to compute signals")
		return
	}

	c.JSON(http.StatusOK, signals)
}

// GetTags handles the tag palette, most used tags first
// GET /api/v1/tags
func (h *SignalHandler) GetTags(c *gin.Context) {
	// 0 means the configured default
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		limit = 0
	}

	tags, err := h.signalService.Tags(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch tags")
		return
	}

	c.JSON(http.StatusOK, tags)
}

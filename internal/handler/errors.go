package handler

import (
	"errors"
	"net/http"

	"github.com/yourorg/atlas-directory/internal/repository"
	"github.com/yourorg/atlas-directory/internal/service"
	"github.com/yourorg/atlas-directory/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service errors to HTTP responses
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrResourceNotFound):
		utils.SendErrorResponse(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrSessionNotFound):
		utils.SendErrorResponse(c, http.StatusNotFound, "Session not found")
	case errors.Is(err, service.ErrInvalidCriteria):
		utils.SendErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrDatasetNotLoaded):
		utils.SendErrorResponse(c, http.StatusServiceUnavailable, "Catalog is not loaded yet")
	default:
		logger.Error(fallback, zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, fallback)
	}
}

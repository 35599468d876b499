package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/yourorg/atlas-directory/internal/model"
	"github.com/yourorg/atlas-directory/internal/service"
	"github.com/yourorg/atlas-directory/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DatasetLoader reloads and reports the published dataset
type DatasetLoader interface {
	Load(ctx context.Context) (*model.Dataset, error)
	Current() (*model.Dataset, error)
}

// AdminHandler handles operator requests
type AdminHandler struct {
	authService *service.AuthService
	datasets    DatasetLoader
	logger      *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authService *service.AuthService, datasets DatasetLoader, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		datasets:    datasets,
		logger:      logger,
	}
}

type tokenRequest struct {
	Password string `json:"password" binding:"required"`
}

// IssueToken handles exchanging the admin password for a token
// POST /api/v1/admin/token
func (h *AdminHandler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "password is required")
		return
	}

	token, err := h.authService.Login(req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			utils.SendErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("Failed to issue admin token", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, token)
}

// ReloadDataset handles reloading the catalog from its source
// POST /api/v1/admin/reload
func (h *AdminHandler) ReloadDataset(c *gin.Context) {
	ds, err := h.datasets.Load(c.Request.Context())
	if err != nil {
		h.logger.Error("Dataset reload failed", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Dataset reload failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ds.Info())
}

// GetDatasetInfo handles describing the published dataset
// GET /api/v1/admin/dataset
func (h *AdminHandler) GetDatasetInfo(c *gin.Context) {
	ds, err := h.datasets.Current()
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch dataset info")
		return
	}

	c.JSON(http.StatusOK, ds.Info())
}

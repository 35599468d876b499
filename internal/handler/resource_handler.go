package handler

import (
	"net/http"
	"strings"

	"github.com/yourorg/atlas-directory/internal/model"
	"github.com/yourorg/atlas-directory/internal/service"
	"github.com/yourorg/atlas-directory/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ResourceHandler handles catalog browsing requests
type ResourceHandler struct {
	resourceService *service.ResourceService
	defaultLimit    int
	maxLimit        int
	logger          *zap.Logger
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(resourceService *service.ResourceService, defaultLimit, maxLimit int, logger *zap.Logger) *ResourceHandler {
	return &ResourceHandler{
		resourceService: resourceService,
		defaultLimit:    defaultLimit,
		maxLimit:        maxLimit,
		logger:          logger,
	}
}

// ListResources handles filtered, sorted and paginated catalog queries
// GET /api/v1/resources
func (h *ResourceHandler) ListResources(c *gin.Context) {
	pagination := utils.ParsePaginationParams(c, h.defaultLimit, h.maxLimit)

	categories, err := h.resourceService.Categories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch resources")
		return
	}

	criteria := parseCriteria(c, categories)

	result, err := h.resourceService.List(c.Request.Context(), criteria, pagination.Page, pagination.Limit)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch resources")
		return
	}

	utils.SendPaginatedResponse(c, http.StatusOK, result.Cards, result.Total, pagination.Page, pagination.Limit, gin.H{
		"focus":           result.Focus,
		"summary":         result.Summary,
		"criteria":        result.Criteria,
		"dataset_version": result.DatasetVersion,
	})
}

// GetResource handles fetching a single resource card
// GET /api/v1/resources/:id
func (h *ResourceHandler) GetResource(c *gin.Context) {
	card, err := h.resourceService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch resource")
		return
	}

	c.JSON(http.StatusOK, card)
}

// GetCategories handles listing categories
// GET /api/v1/categories
func (h *ResourceHandler) GetCategories(c *gin.Context) {
	categories, err := h.resourceService.Categories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, categories)
}

// parseCriteria reads filter criteria from the query string. Values that are
// not recognised fall back to their "no constraint" default.
func parseCriteria(c *gin.Context, categories []model.Category) model.Criteria {
	criteria := model.DefaultCriteria()
	criteria.Query = c.Query("search")

	validCategories := map[string]bool{model.AllFilter: true}
	for _, cat := range categories {
		validCategories[cat.ID] = true
	}
	if category := strings.TrimSpace(c.Query("category")); validCategories[category] {
		criteria.Category = category
	}

	if stage := strings.TrimSpace(c.Query("stage")); model.Stage(stage).Valid() {
		criteria.Stage = stage
	}

	if sortMode, ok := model.ParseSortMode(c.Query("sort")); ok {
		criteria.Sort = sortMode
	}

	// tags may be comma separated or repeated
	for _, raw := range c.QueryArray("tags") {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" && !criteria.HasTag(tag) {
				criteria.Tags = append(criteria.Tags, tag)
			}
		}
	}

	return criteria
}

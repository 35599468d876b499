package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yourorg/atlas-directory/internal/config"
	"github.com/yourorg/atlas-directory/internal/middleware"
	"github.com/yourorg/atlas-directory/internal/model"
	"github.com/yourorg/atlas-directory/internal/repository"
	"github.com/yourorg/atlas-directory/internal/service"
	"github.com/yourorg/atlas-directory/internal/utils"
	"github.com/yourorg/atlas-directory/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testCatalog = `{
  "categories": [
    {"id": "platforms", "name": "Platforms", "tagline": "Full-stack builders", "color": "bg-atlas-teal/10 text-atlas-teal"},
    {"id": "infra", "name": "Infrastructure", "tagline": "Pipes and plumbing"}
  ],
  "resources": [
    {"id": "a", "name": "Atlas", "summary": "Agent runtime", "region": "Lagos", "categoryId": "platforms", "stage": "Research", "tags": ["infra"]},
    {"id": "b", "name": "Basil", "summary": "Vector search", "region": "Berlin", "categoryId": "infra", "stage": "Growth", "tags": ["infra", "search"]},
    {"id": "c", "name": "Cedar", "summary": "Eval harness", "region": "Lagos", "categoryId": "platforms", "stage": "Early", "tags": ["search"]}
  ]
}`

const adminPassword = "correct horse"

type testServer struct {
	router *gin.Engine
	repo   *repository.DatasetRepository
}

func newTestServer(t *testing.T, load bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	repo := repository.NewDatasetRepository(
		&repository.BytesSource{Data: []byte(testCatalog), Format: repository.FormatJSON},
		"", validator.NewDatasetValidator(), logger)
	if load {
		_, err := repo.Load(context.Background())
		require.NoError(t, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	authService := service.NewAuthService(config.AuthConfig{
		JWTSecret:         "test-secret",
		AdminPasswordHash: string(hash),
		TokenDuration:     time.Hour,
	}, logger)

	resourceService := service.NewResourceService(repo, logger)
	signalService := service.NewSignalService(repo, 12, logger)
	sessionService := service.NewSessionService(repo, resourceService, time.Hour, logger)
	repo.OnReload(signalService.Invalidate)

	resources := NewResourceHandler(resourceService, 50, 200, logger)
	signals := NewSignalHandler(signalService, logger)
	sessions := NewSessionHandler(sessionService, 50, 200, logger)
	admin := NewAdminHandler(authService, repo, logger)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/resources", resources.ListResources)
	v1.GET("/resources/:id", resources.GetResource)
	v1.GET("/categories", resources.GetCategories)
	v1.GET("/tags", signals.GetTags)
	v1.GET("/signals", signals.GetSignals)
	v1.POST("/sessions", sessions.CreateSession)
	v1.GET("/sessions/:id", sessions.GetSession)
	v1.PATCH("/sessions/:id", sessions.UpdateSession)
	v1.POST("/sessions/:id/tags/:tag", sessions.ToggleTag)
	v1.POST("/sessions/:id/reset", sessions.ResetSession)
	v1.DELETE("/sessions/:id", sessions.DeleteSession)
	v1.GET("/sessions/:id/results", sessions.GetResults)
	v1.POST("/admin/token", admin.IssueToken)
	protected := v1.Group("/admin")
	protected.Use(middleware.AuthMiddleware(authService, logger))
	protected.POST("/reload", admin.ReloadDataset)
	protected.GET("/dataset", admin.GetDatasetInfo)

	return &testServer{router: router, repo: repo}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type listBody struct {
	Data       []model.Card             `json:"data"`
	Pagination utils.PaginationMetadata `json:"pagination"`
	Focus      model.Focus              `json:"focus"`
	Summary    model.FilterSummary      `json:"summary"`
	Criteria   model.Criteria           `json:"criteria"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func ids(cards []model.Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}

func TestListResources(t *testing.T) {
	srv := newTestServer(t, true)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"no filters sorts by name", "", []string{"a", "b", "c"}},
		{"maturity", "?sort=maturity", []string{"a", "c", "b"}},
		{"search", "?search=CEDAR", []string{"c"}},
		{"category", "?category=platforms", []string{"a", "c"}},
		{"stage", "?stage=Growth", []string{"b"}},
		{"tags are conjunctive", "?tags=infra,search", []string{"b"}},
		{"repeated tags", "?tags=infra&tags=search", []string{"b"}},
		{"unknown stage falls back", "?stage=Seed", []string{"a", "b", "c"}},
		{"unknown category falls back", "?category=nope", []string{"a", "b", "c"}},
		{"unknown sort falls back", "?sort=random", []string{"a", "b", "c"}},
		{"pagination", "?limit=2&page=2", []string{"c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, http.MethodGet, "/api/v1/resources"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			body := decode[listBody](t, w)
			assert.Equal(t, tt.want, ids(body.Data))
		})
	}
}

func TestListResourcesHeader(t *testing.T) {
	srv := newTestServer(t, true)

	t.Run("unfiltered shows viewing line", func(t *testing.T) {
		body := decode[listBody](t, srv.do(t, http.MethodGet, "/api/v1/resources?category=infra", nil))
		assert.Equal(t, "Infrastructure", body.Focus.Title)
		assert.Equal(t, "Viewing 1 of 3 builders", body.Summary.Viewing)
		assert.Empty(t, body.Summary.Chips)
		assert.Equal(t, 1, body.Pagination.TotalItems)
	})

	t.Run("filtered shows chips", func(t *testing.T) {
		body := decode[listBody](t, srv.do(t, http.MethodGet, "/api/v1/resources?search=vector&stage=Growth&tags=search", nil))
		assert.Equal(t, "All categories", body.Focus.Title)
		assert.Empty(t, body.Summary.Viewing)
		assert.Equal(t, []string{"Search: “vector”", "Stage: Growth", "#search"}, body.Summary.Chips)
	})
}

func TestGetResource(t *testing.T) {
	srv := newTestServer(t, true)

	w := srv.do(t, http.MethodGet, "/api/v1/resources/b", nil)
	require.Equal(t, http.StatusOK, w.Code)
	card := decode[model.Card](t, w)
	assert.Equal(t, "Basil", card.Name)
	assert.Equal(t, "Infrastructure", card.CategoryLabel)
	assert.Equal(t, model.DefaultCategoryColor, card.CategoryColor)
	assert.Equal(t, []string{"#infra", "#search"}, card.Tags)

	w = srv.do(t, http.MethodGet, "/api/v1/resources/zzz", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCategoriesTagsSignals(t *testing.T) {
	srv := newTestServer(t, true)

	categories := decode[[]model.Category](t, srv.do(t, http.MethodGet, "/api/v1/categories", nil))
	assert.Len(t, categories, 2)

	tags := decode[[]model.TagCount](t, srv.do(t, http.MethodGet, "/api/v1/tags", nil))
	assert.Equal(t, []model.TagCount{{Tag: "infra", Count: 2}, {Tag: "search", Count: 2}}, tags)

	tags = decode[[]model.TagCount](t, srv.do(t, http.MethodGet, "/api/v1/tags?limit=1", nil))
	assert.Equal(t, []model.TagCount{{Tag: "infra", Count: 2}}, tags)

	signals := decode[model.Signals](t, srv.do(t, http.MethodGet, "/api/v1/signals", nil))
	assert.Equal(t, 3, signals.Total)
	assert.Equal(t, 2, signals.RegionCount)
	assert.Equal(t, []model.CategoryShare{
		{ID: "platforms", Name: "Platforms", Share: 67},
		{ID: "infra", Name: "Infrastructure", Share: 33},
	}, signals.CategorySpread)
}

func TestDatasetNotLoaded(t *testing.T) {
	srv := newTestServer(t, false)

	for _, path := range []string{"/api/v1/resources", "/api/v1/signals", "/api/v1/tags", "/api/v1/categories"} {
		w := srv.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t, true)

	w := srv.do(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	sess := decode[service.Session](t, w)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, model.DefaultCriteria(), sess.Criteria)
	base := "/api/v1/sessions/" + sess.ID

	w = srv.do(t, http.MethodPatch, base, map[string]string{"stage": "Seed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPatch, base, map[string]string{"category": "platforms", "sort": "maturity"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sess = decode[service.Session](t, w)
	assert.Equal(t, "platforms", sess.Criteria.Category)
	assert.Equal(t, model.SortMaturity, sess.Criteria.Sort)

	body := decode[listBody](t, srv.do(t, http.MethodGet, base+"/results", nil))
	assert.Equal(t, []string{"a", "c"}, ids(body.Data))

	w = srv.do(t, http.MethodPost, base+"/tags/search", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sess = decode[service.Session](t, w)
	assert.Equal(t, []string{"search"}, sess.Criteria.Tags)

	body = decode[listBody](t, srv.do(t, http.MethodGet, base+"/results", nil))
	assert.Equal(t, []string{"c"}, ids(body.Data))
	assert.Equal(t, []string{"#search"}, body.Summary.Chips)

	// toggling again removes it
	sess = decode[service.Session](t, srv.do(t, http.MethodPost, base+"/tags/search", nil))
	assert.Empty(t, sess.Criteria.Tags)

	sess = decode[service.Session](t, srv.do(t, http.MethodPost, base+"/reset", nil))
	assert.Equal(t, model.DefaultCriteria(), sess.Criteria)

	w = srv.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = srv.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionNotFound(t *testing.T) {
	srv := newTestServer(t, true)

	w := srv.do(t, http.MethodPatch, "/api/v1/sessions/missing", map[string]string{"query": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(t, http.MethodGet, "/api/v1/sessions/missing/results", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminEndpoints(t *testing.T) {
	srv := newTestServer(t, true)

	w := srv.do(t, http.MethodPost, "/api/v1/admin/token", map[string]string{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = srv.do(t, http.MethodPost, "/api/v1/admin/token", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPost, "/api/v1/admin/reload", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = srv.do(t, http.MethodPost, "/api/v1/admin/reload", nil, "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = srv.do(t, http.MethodPost, "/api/v1/admin/token", map[string]string{"password": adminPassword})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[service.AdminToken](t, w)
	require.NotEmpty(t, token.AccessToken)
	auth := "Bearer " + token.AccessToken

	w = srv.do(t, http.MethodPost, "/api/v1/admin/reload", nil, "Authorization", auth)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	info := decode[model.DatasetInfo](t, w)
	assert.Equal(t, 2, info.Version)
	assert.Equal(t, 3, info.ResourceCount)

	info = decode[model.DatasetInfo](t, srv.do(t, http.MethodGet, "/api/v1/admin/dataset", nil, "Authorization", auth))
	assert.Equal(t, 2, info.Version)
}

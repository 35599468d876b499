package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 20},
		{"?page=3&limit=5", 3, 5},
		{"?page=0&limit=0", 1, 20},
		{"?page=-2&limit=1000", 1, 100},
		{"?page=abc", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)

			params := ParsePaginationParams(c, 20, 100)
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		total, page, limit int
		start, end         int
	}{
		{10, 1, 4, 0, 4},
		{10, 3, 4, 8, 10},
		{10, 4, 4, 10, 10},
		{0, 1, 4, 0, 0},
		{10, 1, 0, 0, 10},
	}
	for _, tt := range tests {
		start, end := PageBounds(tt.total, tt.page, tt.limit)
		assert.Equal(t, tt.start, start)
		assert.Equal(t, tt.end, end)
	}
}

func TestCalculateTotalPages(t *testing.T) {
	assert.Equal(t, 1, CalculateTotalPages(0, 10))
	assert.Equal(t, 3, CalculateTotalPages(21, 10))
	assert.Equal(t, 1, CalculateTotalPages(5, 0))
}

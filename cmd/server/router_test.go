package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"slide-generator/internal/config"
	"slide-generator/internal/handler"
	"slide-generator/internal/mocks"
	"slide-generator/internal/model"
)

func TestNewRouter_RequestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := mocks.NewMockPresentationService(t)
	svc.On("Get", mock.Anything, mock.Anything).Return(nil, model.ErrNotFound)

	cfg := &config.Config{APIPrefix: "/api/v1", CORSAllowedOrigins: "*"}
	passThrough := func(c *gin.Context) { c.Next() }
	router := newRouter(cfg, handler.NewPresentationHandler(svc, zap.NewNop()), passThrough, zap.NewNop())

	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/presentations/"+id, nil))
		require.Equal(t, http.StatusNotFound, w.Code)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)

	var series []string
	for _, line := range strings.Split(string(body), "\n") {
		if strings.HasPrefix(line, "gin_requests_total{") {
			series = append(series, line)
		}
	}
	require.NotEmpty(t, series, "API requests must be counted")

	found := false
	for _, line := range series {
		if strings.Contains(line, `url="/api/v1/presentations/:id"`) && strings.Contains(line, `code="404"`) {
			found = true
			assert.True(t, strings.HasSuffix(line, " 3"), line)
		}
		assert.NotContains(t, line, `url="/api/v1/presentations/a"`, "raw ids must not become labels")
	}
	assert.True(t, found, "no series for the presentation route template: %v", series)
}

package handler

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"slide-generator/internal/model"
	"slide-generator/internal/ratelimit"
	"slide-generator/internal/repository"
	"slide-generator/internal/service"
	"slide-generator/internal/storage"
)

// fakeGenerator returns n slides; every second slide has no citation.
type fakeGenerator struct {
	mu    sync.Mutex
	calls []int
	err   error
}

func (g *fakeGenerator) Generate(_ context.Context, topic string, n int) ([]model.SlideRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, n)
	if g.err != nil {
		return nil, g.err
	}
	out := make([]model.SlideRecord, n)
	for i := range out {
		out[i] = model.SlideRecord{Header: fmt.Sprintf("%s %d", topic, i+1), Content: "Some content. More content."}
		if i%2 == 0 {
			out[i].Citation = "Atlas"
		}
	}
	return out, nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type apiFixture struct {
	router *gin.Engine
	gen    *fakeGenerator
	clock  *testClock
	repo   repository.PresentationRepository
}

func newAPI(t *testing.T, limit int) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	files, err := storage.NewFileStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	f := &apiFixture{
		gen:   &fakeGenerator{},
		clock: &testClock{now: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)},
		repo:  repository.NewMemoryRepository(zap.NewNop()),
	}
	svc := service.NewPresentationService(f.repo, files, f.gen, nil,
		service.Options{MaxSlides: 20, DefaultSlides: 10, Now: f.clock.Now}, zap.NewNop())

	limiter := ratelimit.NewSlidingWindow(limit, time.Hour, ratelimit.WithClock(f.clock.Now))
	f.router = gin.New()
	api := f.router.Group("/api/v1", ratelimit.Middleware(limiter, ratelimit.ScopeClient, zap.NewNop()))
	NewPresentationHandler(svc, zap.NewNop()).RegisterRoutes(api)
	return f
}

func (f *apiFixture) create(t *testing.T, body string) string {
	t.Helper()
	w := perform(f.router, http.MethodPost, "/api/v1/presentations", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp model.CreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func (f *apiFixture) count(t *testing.T) int {
	n, err := f.repo.Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestAPI_CreateGetDownload(t *testing.T) {
	f := newAPI(t, 100)
	id := f.create(t, `{"topic":"Oceans","config":{"num_slides":3,"layout":"content_with_image","theme":{"background":"EEEEEE"}}}`)

	w := perform(f.router, http.MethodGet, "/api/v1/presentations/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var p model.Presentation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, id, p.ID)
	assert.Equal(t, "Oceans", p.Topic)
	assert.Equal(t, 3, p.Config.SlideCount(10))
	assert.Equal(t, model.LayoutContentWithImage, p.Config.LayoutName())
	assert.Equal(t, "EEEEEE", p.Config.Theme["background"])

	w = perform(f.router, http.MethodGet, "/api/v1/presentations/"+id+"/download", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "presentation_"+id+".pptx")

	data := w.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	slides := 0
	for _, zf := range zr.File {
		if strings.HasPrefix(zf.Name, "ppt/slides/slide") && strings.HasSuffix(zf.Name, ".xml") {
			slides++
		}
	}
	assert.Equal(t, 3, slides)
}

func TestAPI_CreateRejectsInvalidInput(t *testing.T) {
	f := newAPI(t, 100)

	w := perform(f.router, http.MethodPost, "/api/v1/presentations", `{"topic":"Oceans","config":{"num_slides":21}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Error, "maximum 20 slides allowed")

	w = perform(f.router, http.MethodPost, "/api/v1/presentations", `{"config":{"num_slides":2}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Topic is required", decodeError(t, w).Error)

	assert.Zero(t, f.count(t))
	assert.Empty(t, f.gen.calls)
}

func TestAPI_UnknownID(t *testing.T) {
	f := newAPI(t, 100)
	for _, path := range []string{"/api/v1/presentations/nope", "/api/v1/presentations/nope/download"} {
		w := perform(f.router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, model.KindNotFound, decodeError(t, w).Code)
	}
	w := perform(f.router, http.MethodPost, "/api/v1/presentations/nope/configure", `{"layout":"title"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_ConfigureMergesKeys(t *testing.T) {
	f := newAPI(t, 100)
	id := f.create(t, `{"topic":"Forests","config":{"num_slides":8}}`)

	w := perform(f.router, http.MethodPost, "/api/v1/presentations/"+id+"/configure", `{"layout":"two_column"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = perform(f.router, http.MethodGet, "/api/v1/presentations/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var p model.Presentation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, model.LayoutTwoColumn, p.Config.LayoutName())
	assert.Equal(t, 8, p.Config.SlideCount(10))
	assert.Equal(t, []int{8, 8}, f.gen.calls)
}

func TestAPI_MalformedReplyLeavesNoRecord(t *testing.T) {
	f := newAPI(t, 100)
	f.gen.err = fmt.Errorf("%w: not json", model.ErrMalformedReply)

	w := perform(f.router, http.MethodPost, "/api/v1/presentations", `{"topic":"Deserts"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, model.KindUpstream, decodeError(t, w).Code)
	assert.Zero(t, f.count(t))
}

func TestAPI_RateLimit(t *testing.T) {
	f := newAPI(t, 3)
	for i := 0; i < 3; i++ {
		f.create(t, `{"topic":"Stars","config":{"num_slides":1}}`)
		f.clock.Advance(time.Minute)
	}

	w := perform(f.router, http.MethodPost, "/api/v1/presentations", `{"topic":"Stars","config":{"num_slides":1}}`)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, model.KindRateLimited, decodeError(t, w).Code)
	assert.Equal(t, 3, f.count(t), "rejected call created nothing")

	// первый вызов выходит из окна через час после него
	f.clock.Advance(58 * time.Minute)
	f.create(t, `{"topic":"Stars","config":{"num_slides":1}}`)
}

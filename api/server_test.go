package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"podcatch/api/types"
	"podcatch/internal/database"
	"podcatch/internal/models"
	episodesvc "podcatch/internal/services/episodes"
	podcastsvc "podcatch/internal/services/podcasts"
	syncsvc "podcatch/internal/services/sync"
	"podcatch/pkg/config"
)

type stubFetcher struct{}

func (stubFetcher) Get(_ context.Context, _ string) ([]byte, error) {
	return []byte(`<rss><channel><title>Show</title></channel></rss>`), nil
}

type stubRunner struct{}

func (stubRunner) Run(_ context.Context) (*syncsvc.RunReport, error) {
	return &syncsvc.RunReport{}, nil
}

func newInitializedServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	server := NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 0})
	server.SetDependencies(&types.Dependencies{
		DB:       &database.DB{DB: gdb},
		Podcasts: podcastsvc.NewService(podcastsvc.NewRepository(gdb), stubFetcher{}, ""),
		Episodes: episodesvc.NewRepository(gdb),
		Sync:     stubRunner{},
		Version:  "test",
	})
	require.NoError(t, server.Initialize())

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	})
	return server
}

func TestServer_HealthRoute(t *testing.T) {
	server := newInitializedServer(t)

	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestServer_UnknownRoute(t *testing.T) {
	server := newInitializedServer(t)

	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "/nope", resp.Details)
}

func TestServer_CORSPreflight(t *testing.T) {
	server := newInitializedServer(t)

	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_SyncRouteIsStrictlyLimited(t *testing.T) {
	server := newInitializedServer(t)

	// Budget is 1 req/s with burst 2; the third immediate call must bounce.
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		server.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/podcasts/sync", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestServer_BrowseRouteSurvivesSyncLimit(t *testing.T) {
	server := newInitializedServer(t)

	// Exhaust the sync budget, then confirm browse still answers: the
	// groups keep separate buckets per client.
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		server.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/podcasts/sync", nil))
	}

	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/podcasts", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

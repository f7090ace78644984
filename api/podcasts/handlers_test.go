package podcasts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"podcatch/api/types"
	"podcatch/internal/database"
	"podcatch/internal/models"
	"podcatch/internal/services/episodes"
	svc "podcatch/internal/services/podcasts"
	syncsvc "podcatch/internal/services/sync"
)

const feedDoc = `<rss><channel><title>Show</title>
<item><title>Ep 1</title><enclosure url="https://example.com/1.mp3" type="audio/mpeg"/></item>
</channel></rss>`

type stubFetcher struct{ err error }

func (s *stubFetcher) Get(_ context.Context, _ string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte(feedDoc), nil
}

type stubSync struct {
	report *syncsvc.RunReport
	err    error
}

func (s *stubSync) Run(_ context.Context) (*syncsvc.RunReport, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

func newTestServer(t *testing.T, fetchErr error, runner types.SyncRunner) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.Podcast{}, &models.Episode{}))

	deps := &types.Dependencies{
		DB:       &database.DB{DB: gdb},
		Podcasts: svc.NewService(svc.NewRepository(gdb), &stubFetcher{err: fetchErr}, "/data/podcasts"),
		Episodes: episodes.NewRepository(gdb),
		Sync:     runner,
	}

	engine := gin.New()
	noLimit := func(c *gin.Context) { c.Next() }
	RegisterRoutes(engine.Group("/podcasts"), deps, noLimit, noLimit)
	return engine, gdb
}

func seedPodcast(t *testing.T, gdb *gorm.DB, name, feedURL string) *models.Podcast {
	t.Helper()
	podcast := &models.Podcast{Name: name, FeedURL: feedURL, Directory: "/data/" + name}
	require.NoError(t, svc.NewRepository(gdb).Create(context.Background(), podcast))
	return podcast
}

func TestGetAll(t *testing.T) {
	engine, gdb := newTestServer(t, nil, nil)
	seedPodcast(t, gdb, "First", "https://example.com/a.xml")
	seedPodcast(t, gdb, "Second", "https://example.com/b.xml")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/podcasts", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp PodcastsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Podcasts, 2)
}

func TestGetPodcast(t *testing.T) {
	engine, gdb := newTestServer(t, nil, nil)
	podcast := seedPodcast(t, gdb, "Show", "https://example.com/feed.xml")

	tests := []struct {
		name     string
		path     string
		wantCode int
	}{
		{"found", "/podcasts/1", http.StatusOK},
		{"missing", "/podcasts/99", http.StatusNotFound},
		{"bad id", "/podcasts/zebra", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantCode, w.Code)

			if tt.wantCode == http.StatusOK {
				var resp PodcastResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, podcast.Name, resp.Podcast.Name)
			}
		})
	}
}

func TestGetEpisodes(t *testing.T) {
	engine, gdb := newTestServer(t, nil, nil)
	podcast := seedPodcast(t, gdb, "Show", "https://example.com/feed.xml")

	repo := episodes.NewRepository(gdb)
	seed := []models.Episode{
		{PodcastID: podcast.ID, Sequence: 2, Title: "Second", URL: "https://example.com/2.mp3"},
		{PodcastID: podcast.ID, Sequence: 1, Title: "First", URL: "https://example.com/1.mp3"},
	}
	for i := range seed {
		require.NoError(t, repo.Insert(context.Background(), &seed[i]))
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/podcasts/1/episodes", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp EpisodesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Episodes, 2)
	assert.Equal(t, "First", resp.Episodes[0].Title, "episodes come back in sequence order")
	assert.Equal(t, "Second", resp.Episodes[1].Title)
}

func TestPostAdd(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		engine, _ := newTestServer(t, nil, nil)

		body := `{"name": "New Show", "feed_url": "https://example.com/new.xml"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/podcasts", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp PodcastResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "New Show", resp.Podcast.Name)
		assert.NotZero(t, resp.Podcast.ID)
	})

	t.Run("duplicate feed conflicts", func(t *testing.T) {
		engine, gdb := newTestServer(t, nil, nil)
		seedPodcast(t, gdb, "Existing", "https://example.com/new.xml")

		body := `{"name": "New Show", "feed_url": "https://example.com/new.xml"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/podcasts", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		engine, _ := newTestServer(t, nil, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/podcasts", strings.NewReader(`{"name": "No URL"}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unreachable feed", func(t *testing.T) {
		engine, _ := newTestServer(t, errors.New("connection refused"), nil)

		body := `{"name": "Dead Show", "feed_url": "https://example.com/dead.xml"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/podcasts", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestPostSync(t *testing.T) {
	t.Run("reports counts", func(t *testing.T) {
		report := &syncsvc.RunReport{Podcasts: []syncsvc.PodcastReport{
			{Podcast: models.Podcast{Model: gorm.Model{ID: 1}, Name: "Show"}, Parsed: 5, Existing: 3, New: 2},
		}}
		engine, _ := newTestServer(t, nil, &stubSync{report: report})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/podcasts/sync", nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var resp SyncResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		require.Len(t, resp.Podcasts, 1)
		assert.Equal(t, "Show", resp.Podcasts[0].Name)
		assert.Equal(t, 2, resp.Podcasts[0].New)
	})

	t.Run("failures flip the status", func(t *testing.T) {
		report := &syncsvc.RunReport{Podcasts: []syncsvc.PodcastReport{
			{Podcast: models.Podcast{Name: "Broken"}, Err: errors.New("boom")},
		}}
		engine, _ := newTestServer(t, nil, &stubSync{report: report})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/podcasts/sync", nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var resp SyncResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "failed", resp.Status)
		assert.Equal(t, "boom", resp.Podcasts[0].Error)
	})

	t.Run("run error is internal", func(t *testing.T) {
		engine, _ := newTestServer(t, nil, &stubSync{err: errors.New("listing failed")})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/podcasts/sync", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

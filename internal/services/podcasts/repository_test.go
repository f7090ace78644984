package podcasts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"podcatch/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Podcast{}, &models.Episode{})
	require.NoError(t, err)

	return db
}

func TestRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	podcast := &models.Podcast{
		Name:      "Example Show",
		FeedURL:   "https://example.com/feed.xml",
		Directory: "/data/podcasts/example",
	}
	require.NoError(t, repo.Create(ctx, podcast))
	assert.NotZero(t, podcast.ID)

	byID, err := repo.GetByID(ctx, podcast.ID)
	require.NoError(t, err)
	assert.Equal(t, "Example Show", byID.Name)

	byURL, err := repo.GetByFeedURL(ctx, "https://example.com/feed.xml")
	require.NoError(t, err)
	assert.Equal(t, podcast.ID, byURL.ID)
}

func TestRepository_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 42)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	_, err = repo.GetByFeedURL(ctx, "https://nowhere.example.com/feed.xml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPodcastNotFound)
}

func TestRepository_DuplicateFeedURL(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Podcast{Name: "One", FeedURL: "https://example.com/feed.xml"}))

	err := repo.Create(ctx, &models.Podcast{Name: "Two", FeedURL: "https://example.com/feed.xml"})
	assert.Error(t, err, "feed_url carries a unique index")
}

func TestRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, repo.Create(ctx, &models.Podcast{Name: "A", FeedURL: "https://example.com/a.xml"}))
	require.NoError(t, repo.Create(ctx, &models.Podcast{Name: "B", FeedURL: "https://example.com/b.xml"}))

	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Name)
	assert.Equal(t, "B", list[1].Name)
}

package podcasts

import (
	"context"

	"podcatch/internal/models"
)

// PodcastRepository defines the data access interface for podcasts
type PodcastRepository interface {
	Create(ctx context.Context, podcast *models.Podcast) error
	GetByID(ctx context.Context, id uint) (*models.Podcast, error)
	GetByFeedURL(ctx context.Context, feedURL string) (*models.Podcast, error)
	List(ctx context.Context) ([]models.Podcast, error)
}

// FeedFetcher is the slice of the network client the service needs to
// validate a feed before tracking it.
type FeedFetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// PodcastService defines the business logic interface for podcast operations
type PodcastService interface {
	List(ctx context.Context) ([]models.Podcast, error)
	Get(ctx context.Context, id uint) (*models.Podcast, error)

	// Add fetches and parses the feed once before persisting, so a typoed
	// URL is rejected at add time instead of on the first sync.
	Add(ctx context.Context, params AddParams) (*models.Podcast, error)
}

// AddParams carries the fields of an add request. Directory is optional; an
// empty value is resolved against the configured download root.
type AddParams struct {
	Name      string
	FeedURL   string
	Directory string
}

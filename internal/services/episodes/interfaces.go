package episodes

import (
	"context"

	"podcatch/internal/models"
)

// EpisodeRepository defines the data access interface for episodes
type EpisodeRepository interface {
	// Read
	ListByPodcast(ctx context.Context, podcastID uint) ([]models.Episode, error)
	GetByURL(ctx context.Context, podcastID uint, url string) (*models.Episode, error)
	GetByGUID(ctx context.Context, guid string) (*models.Episode, error)

	// MaxSequence returns the highest sequence number across all podcasts,
	// zero when no episodes exist.
	MaxSequence(ctx context.Context) (int64, error)

	// Write
	Insert(ctx context.Context, episode *models.Episode) error

	// UpdateBySequence rewrites the mutable columns of the row addressed by
	// the episode's (podcast id, sequence) pair.
	UpdateBySequence(ctx context.Context, episode *models.Episode) error
}

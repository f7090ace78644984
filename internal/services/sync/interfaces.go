package sync

import (
	"context"

	"podcatch/internal/models"
)

// PodcastLister yields the podcasts a run covers.
type PodcastLister interface {
	List(ctx context.Context) ([]models.Podcast, error)
}

// EpisodeStore is the slice of the episode repository the orchestrator needs.
type EpisodeStore interface {
	ListByPodcast(ctx context.Context, podcastID uint) ([]models.Episode, error)
	GetByURL(ctx context.Context, podcastID uint, url string) (*models.Episode, error)
	MaxSequence(ctx context.Context) (int64, error)
	Insert(ctx context.Context, episode *models.Episode) error
	UpdateBySequence(ctx context.Context, episode *models.Episode) error
}

// FeedSource fetches feed documents.
type FeedSource interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Downloader settles episode content on disk and returns the finalized copy.
type Downloader interface {
	Download(ctx context.Context, episode *models.Episode, dir string) (*models.Episode, error)
	Refresh(ctx context.Context, episode *models.Episode, dir string) (*models.Episode, error)
}

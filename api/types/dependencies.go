package types

import (
	"context"

	"podcatch/internal/database"
	"podcatch/internal/services/episodes"
	"podcatch/internal/services/podcasts"
	"podcatch/internal/services/sync"
)

// SyncRunner triggers one full feed cycle and reports what happened.
type SyncRunner interface {
	Run(ctx context.Context) (*sync.RunReport, error)
}

// Dependencies holds everything handlers need
type Dependencies struct {
	DB       *database.DB
	Podcasts podcasts.PodcastService
	Episodes episodes.EpisodeRepository
	Sync     SyncRunner

	// Build identity, reported by the version endpoint.
	Version string
	Commit  string
}

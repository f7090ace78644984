package cmd

import (
	"fmt"

	"podcatch/internal/database"
	"podcatch/internal/models"
	"podcatch/internal/services/download"
	"podcatch/internal/services/episodes"
	"podcatch/internal/services/feed"
	"podcatch/internal/services/podcasts"
	syncer "podcatch/internal/services/sync"
	"podcatch/pkg/config"
	"podcatch/pkg/fetch"
	"podcatch/pkg/hash"
)

// openDatabase connects using the loaded config and brings the schema up
// to date. Callers own the returned handle and must Close it.
func openDatabase() (*database.DB, error) {
	db, err := database.Initialize(appConfig.Database)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func newFetcher(cfg config.FetchConfig) *fetch.Fetcher {
	return fetch.NewFetcher(fetch.Config{
		RequestsPerMinute: cfg.RequestsPerMinute,
		Burst:             cfg.Burst,
		InitialBackoff:    cfg.InitialBackoff,
		BackoffCeiling:    cfg.BackoffCeiling,
		UserAgent:         cfg.UserAgent,
		Timeout:           cfg.Timeout,
	})
}

// newOrchestrator assembles the full sync pipeline over one database
// handle: fetcher, download manager, reconciler and repositories.
func newOrchestrator(db *database.DB) *syncer.Orchestrator {
	fetcher := newFetcher(appConfig.Fetch)
	manager := download.NewManager(fetcher, hash.MD5File,
		download.WithDurationProbe(appConfig.Download.ProbeDuration))

	return syncer.NewOrchestrator(
		podcasts.NewRepository(db.DB),
		episodes.NewRepository(db.DB),
		fetcher,
		manager,
		feed.NewReconciler(appConfig.Sync.SuppressedTitles),
		syncer.WithConcurrency(appConfig.Sync.Concurrency),
	)
}

package podcasts

import (
	"context"
	"fmt"
	"path/filepath"

	log "github.com/go-pkgz/lgr"

	"podcatch/internal/models"
	"podcatch/internal/services/feed"
)

type Service struct {
	repository  PodcastRepository
	fetcher     FeedFetcher
	downloadDir string // root for defaulted podcast directories
}

func NewService(repository PodcastRepository, fetcher FeedFetcher, downloadDir string) PodcastService {
	return &Service{
		repository:  repository,
		fetcher:     fetcher,
		downloadDir: downloadDir,
	}
}

// List returns all tracked podcasts
func (s *Service) List(ctx context.Context) ([]models.Podcast, error) {
	return s.repository.List(ctx)
}

// Get returns one podcast by ID
func (s *Service) Get(ctx context.Context, id uint) (*models.Podcast, error) {
	return s.repository.GetByID(ctx, id)
}

// Add validates the feed end to end (reachable, parseable) and persists the
// podcast. The feed's episodes are picked up by the next sync run.
func (s *Service) Add(ctx context.Context, params AddParams) (*models.Podcast, error) {
	if params.Name == "" {
		return nil, NewValidationError("name", "must not be empty")
	}
	if params.FeedURL == "" {
		return nil, NewValidationError("feed url", "must not be empty")
	}

	existing, err := s.repository.GetByFeedURL(ctx, params.FeedURL)
	if err != nil && !IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s is tracked as %q", ErrPodcastExists, params.FeedURL, existing.Name)
	}

	body, err := s.fetcher.Get(ctx, params.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("validating feed %s: %w", params.FeedURL, err)
	}
	candidates, err := feed.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("validating feed %s: %w", params.FeedURL, err)
	}

	// Without a download root the directory stays empty and sync skips
	// downloading for this podcast.
	directory := params.Directory
	if directory == "" && s.downloadDir != "" {
		directory = filepath.Join(s.downloadDir, params.Name)
	}

	podcast := &models.Podcast{
		Name:      params.Name,
		FeedURL:   params.FeedURL,
		Directory: directory,
	}
	if err := s.repository.Create(ctx, podcast); err != nil {
		return nil, err
	}

	log.Printf("[INFO] added podcast %q (%d feed entries, directory %s)", podcast.Name, len(candidates), podcast.Directory)
	return podcast, nil
}

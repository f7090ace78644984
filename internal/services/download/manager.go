package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/go-pkgz/lgr"

	"podcatch/internal/models"
	"podcatch/pkg/audio"
)

// Fetcher is the slice of the network layer the manager needs: a streaming
// GET that removes any partial file before each attempt.
type Fetcher interface {
	Download(ctx context.Context, url, path string) (int64, error)
}

// HashFunc fingerprints a downloaded file, returning lowercase hex.
type HashFunc func(path string) (string, error)

// Manager fetches episode enclosures into a podcast's directory and
// finalizes their identity with a content hash. Episodes that already carry
// a complete hash are returned untouched, without any network activity.
type Manager struct {
	fetcher        Fetcher
	hash           HashFunc
	probeDurations bool
}

// Option is a functional option for configuring the manager
type Option func(*Manager)

// WithDurationProbe toggles MP3 duration probing on downloaded files.
func WithDurationProbe(enabled bool) Option {
	return func(m *Manager) {
		m.probeDurations = enabled
	}
}

// NewManager creates a Manager around the given fetcher and hash function.
func NewManager(fetcher Fetcher, hash HashFunc, opts ...Option) *Manager {
	m := &Manager{fetcher: fetcher, hash: hash}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TargetPath resolves where the episode's audio lands inside dir.
func (m *Manager) TargetPath(episode *models.Episode, dir string) (string, error) {
	name, err := Basename(episode)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// Download streams the enclosure to its resolved path, fingerprints the
// result and returns a finalized copy of the episode. dir must already
// exist. Any file already sitting at the target path is replaced, never
// appended to.
func (m *Manager) Download(ctx context.Context, episode *models.Episode, dir string) (*models.Episode, error) {
	if episode.Finalized() {
		return episode, nil
	}
	if err := checkDirectory(dir); err != nil {
		return nil, err
	}

	path, err := m.TargetPath(episode, dir)
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] downloading %s to %s", episode.URL, path)
	if _, err := m.fetcher.Download(ctx, episode.URL, path); err != nil {
		return nil, fmt.Errorf("downloading %s: %w", episode.URL, err)
	}

	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return nil, IncompleteError{URL: episode.URL, Path: path}
	}

	return m.finalize(episode, path)
}

// Refresh brings an unfinalized episode back to a hashed state: when its
// file is already on disk the hash is recomputed from it, otherwise the
// enclosure is downloaded again.
func (m *Manager) Refresh(ctx context.Context, episode *models.Episode, dir string) (*models.Episode, error) {
	if episode.Finalized() {
		return episode, nil
	}

	path, err := m.TargetPath(episode, dir)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		log.Printf("[INFO] recomputing hash for %s", path)
		return m.finalize(episode, path)
	}

	return m.Download(ctx, episode, dir)
}

// finalize fingerprints the file at path and returns an updated copy of the
// episode with its identity and status settled.
func (m *Manager) finalize(episode *models.Episode, path string) (*models.Episode, error) {
	sum, err := m.hash(path)
	if err != nil {
		return nil, fmt.Errorf("fingerprinting %s: %w", path, err)
	}

	out := *episode
	out.GUID = sum
	out.Status = models.StatusDownloaded

	if m.probeDurations {
		if seconds, err := audio.Duration(path); err != nil {
			log.Printf("[DEBUG] no duration for %s: %v", path, err)
		} else {
			out.Duration = &seconds
		}
	}
	return &out, nil
}

func checkDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMissingDirectory, dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrMissingDirectory, dir)
	}
	return nil
}

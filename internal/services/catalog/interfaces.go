package catalog

import (
	"context"

	"podcatch/internal/models"
)

// TrackKey identifies a track by the tag fields the catalog considers
// distinguishing.
type TrackKey struct {
	Artist      string
	Album       string
	Title       string
	TrackNumber int
}

// TrackMetadata is one remote catalog entry, or the metadata attached to a
// local file about to become one.
type TrackMetadata struct {
	ID          string
	Title       string
	Album       string
	Artist      string
	AlbumArtist string
	TrackNumber int
	DiscNumber  int
	TotalDiscs  int
	Size        int64
	Duration    int // seconds
}

// Store is the remote side of the catalog.
type Store interface {
	// Upload ships a local file and returns the catalog id it was
	// registered under.
	Upload(ctx context.Context, path string, meta TrackMetadata) (string, error)
	ListUploaded(ctx context.Context) ([]TrackMetadata, error)
}

// TrackRepository persists the local mirror of the catalog.
type TrackRepository interface {
	GetByCatalogID(ctx context.Context, id string) (*models.CatalogTrack, error)
	GetByKey(ctx context.Context, key TrackKey) (*models.CatalogTrack, error)
	ListByTitle(ctx context.Context, title string) ([]models.CatalogTrack, error)
	Insert(ctx context.Context, track *models.CatalogTrack) error

	// SetFilename records which local file a mirrored track lives in.
	SetFilename(ctx context.Context, catalogID, filename string) error

	// ListFilenames returns the set of filenames already linked to a track.
	ListFilenames(ctx context.Context) (map[string]struct{}, error)
}

package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"podcatch/internal/models"
)

type Repository struct {
	db *gorm.DB
}

// Ensure Repository implements TrackRepository interface
var _ TrackRepository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByCatalogID(ctx context.Context, id string) (*models.CatalogTrack, error) {
	var track models.CatalogTrack
	if err := r.db.WithContext(ctx).
		Where("catalog_id = ?", id).
		First(&track).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("catalog_id", id)
		}
		return nil, fmt.Errorf("getting track by catalog id: %w", err)
	}
	return &track, nil
}

func (r *Repository) GetByKey(ctx context.Context, key TrackKey) (*models.CatalogTrack, error) {
	var track models.CatalogTrack
	if err := r.db.WithContext(ctx).
		Where("artist = ? AND album = ? AND title = ? AND track_number = ?",
			key.Artist, key.Album, key.Title, key.TrackNumber).
		First(&track).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("key", key)
		}
		return nil, fmt.Errorf("getting track by key: %w", err)
	}
	return &track, nil
}

func (r *Repository) ListByTitle(ctx context.Context, title string) ([]models.CatalogTrack, error) {
	var tracks []models.CatalogTrack
	if err := r.db.WithContext(ctx).
		Where("title = ?", title).
		Find(&tracks).Error; err != nil {
		return nil, fmt.Errorf("listing tracks by title: %w", err)
	}
	return tracks, nil
}

func (r *Repository) Insert(ctx context.Context, track *models.CatalogTrack) error {
	if track.CatalogID == "" {
		return fmt.Errorf("inserting track: catalog id must not be empty")
	}
	if err := r.db.WithContext(ctx).Create(track).Error; err != nil {
		return fmt.Errorf("inserting track: %w", err)
	}
	return nil
}

func (r *Repository) SetFilename(ctx context.Context, catalogID, filename string) error {
	result := r.db.WithContext(ctx).
		Model(&models.CatalogTrack{}).
		Where("catalog_id = ?", catalogID).
		Update("filename", filename)
	if result.Error != nil {
		return fmt.Errorf("setting track filename: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return NewNotFoundError("catalog_id", catalogID)
	}
	return nil
}

func (r *Repository) ListFilenames(ctx context.Context) (map[string]struct{}, error) {
	var names []string
	if err := r.db.WithContext(ctx).
		Model(&models.CatalogTrack{}).
		Where("filename <> ''").
		Pluck("filename", &names).Error; err != nil {
		return nil, fmt.Errorf("listing track filenames: %w", err)
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set, nil
}

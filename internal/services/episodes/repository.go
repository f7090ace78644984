package episodes

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

// Ensure Repository implements EpisodeRepository interface
var _ EpisodeRepository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListByPodcast(ctx context.Context, podcastID uint) ([]models.Episode, error) {
	var episodes []models.Episode
	if err := r.db.WithContext(ctx).
		Where("podcast_id = ?", podcastID).
		Order("sequence ASC").
		Find(&episodes).Error; err != nil {
		return nil, fmt.Errorf("listing episodes: %w", err)
	}
	return episodes, nil
}

func (r *Repository) GetByURL(ctx context.Context, podcastID uint, url string) (*models.Episode, error) {
	var episode models.Episode
	if err := r.db.WithContext(ctx).
		Where("podcast_id = ? AND url = ?", podcastID, url).
		First(&episode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("url", url)
		}
		return nil, fmt.Errorf("getting episode by url: %w", err)
	}
	return &episode, nil
}

func (r *Repository) GetByGUID(ctx context.Context, guid string) (*models.Episode, error) {
	var episode models.Episode
	if err := r.db.WithContext(ctx).
		Where("guid = ?", guid).
		First(&episode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("guid", guid)
		}
		return nil, fmt.Errorf("getting episode by guid: %w", err)
	}
	return &episode, nil
}

func (r *Repository) MaxSequence(ctx context.Context) (int64, error) {
	var max int64
	if err := r.db.WithContext(ctx).
		Model(&models.Episode{}).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("getting max sequence: %w", err)
	}
	return max, nil
}

func (r *Repository) Insert(ctx context.Context, episode *models.Episode) error {
	if episode.URL == "" {
		return NewValidationError("url", "must not be empty")
	}
	if err := r.db.WithContext(ctx).Create(episode).Error; err != nil {
		return fmt.Errorf("inserting episode: %w", err)
	}
	return nil
}

func (r *Repository) UpdateBySequence(ctx context.Context, episode *models.Episode) error {
	result := r.db.WithContext(ctx).
		Model(&models.Episode{}).
		Where("podcast_id = ? AND sequence = ?", episode.PodcastID, episode.Sequence).
		Updates(map[string]interface{}{
			"title":    episode.Title,
			"url":      episode.URL,
			"enc_type": episode.EncType,
			"status":   episode.Status,
			"guid":     episode.GUID,
			"duration": episode.Duration,
		})
	if result.Error != nil {
		return fmt.Errorf("updating episode: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return NewNotFoundError("sequence", episode.Sequence)
	}
	return nil
}

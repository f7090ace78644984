package podcasts

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

// Ensure Repository implements PodcastRepository interface
var _ PodcastRepository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create creates a new podcast
func (r *Repository) Create(ctx context.Context, podcast *models.Podcast) error {
	if err := r.db.WithContext(ctx).Create(podcast).Error; err != nil {
		return fmt.Errorf("creating podcast: %w", err)
	}
	return nil
}

// GetByID retrieves a podcast by its database ID
func (r *Repository) GetByID(ctx context.Context, id uint) (*models.Podcast, error) {
	var podcast models.Podcast
	if err := r.db.WithContext(ctx).First(&podcast, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("id", id)
		}
		return nil, fmt.Errorf("getting podcast: %w", err)
	}
	return &podcast, nil
}

// GetByFeedURL retrieves a podcast by feed URL
func (r *Repository) GetByFeedURL(ctx context.Context, feedURL string) (*models.Podcast, error) {
	var podcast models.Podcast
	if err := r.db.WithContext(ctx).
		Where("feed_url = ?", feedURL).
		First(&podcast).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("feed url", feedURL)
		}
		return nil, fmt.Errorf("getting podcast by feed url: %w", err)
	}
	return &podcast, nil
}

// List returns all tracked podcasts ordered by ID
func (r *Repository) List(ctx context.Context) ([]models.Podcast, error) {
	var podcasts []models.Podcast
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&podcasts).Error; err != nil {
		return nil, fmt.Errorf("listing podcasts: %w", err)
	}
	return podcasts, nil
}

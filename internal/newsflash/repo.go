package newsflash

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emekaobi/naijamart-backend/pkg/db/models"
)

// FlashRepository is the persistence surface for news flashes.
type FlashRepository interface {
	Create(ctx context.Context, flash *models.NewsFlash) (*models.NewsFlash, error)
	Update(ctx context.Context, flash *models.NewsFlash) (*models.NewsFlash, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.NewsFlash, error)
	ListActive(ctx context.Context, now time.Time) ([]models.NewsFlash, error)
	ListAll(ctx context.Context) ([]models.NewsFlash, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// Repository implements FlashRepository on gorm.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a news flash repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new flash.
func (r *Repository) Create(ctx context.Context, flash *models.NewsFlash) (*models.NewsFlash, error) {
	if err := r.db.WithContext(ctx).Create(flash).Error; err != nil {
		return nil, err
	}
	return flash, nil
}

// Update saves the provided flash row.
func (r *Repository) Update(ctx context.Context, flash *models.NewsFlash) (*models.NewsFlash, error) {
	if err := r.db.WithContext(ctx).Save(flash).Error; err != nil {
		return nil, err
	}
	return flash, nil
}

// Delete removes the flash row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.NewsFlash{}, "id = ?", id).Error
}

// FindByID loads a flash by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.NewsFlash, error) {
	var flash models.NewsFlash
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&flash).Error; err != nil {
		return nil, err
	}
	return &flash, nil
}

// ListActive returns flashes currently showing on the storefront.
func (r *Repository) ListActive(ctx context.Context, now time.Time) ([]models.NewsFlash, error) {
	var rows []models.NewsFlash
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAll returns every flash for the admin view.
func (r *Repository) ListAll(ctx context.Context) ([]models.NewsFlash, error) {
	var rows []models.NewsFlash
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeactivateExpired flips is_active off for flashes past their expiry. Used
// by the housekeeping worker.
func (r *Repository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.NewsFlash{}).
		Where("is_active = ?", true).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

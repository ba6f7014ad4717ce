package contact

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emekaobi/naijamart-backend/pkg/db/models"
	"github.com/emekaobi/naijamart-backend/pkg/enums"
	"github.com/emekaobi/naijamart-backend/pkg/pagination"
)

// MessageRepository is the persistence surface for contact messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error)
	List(ctx context.Context, status *enums.ContactMessageStatus, limit int, cursor *pagination.Cursor) ([]models.ContactMessage, error)
	MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) error
	PurgeResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	PurgeAllBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Repository implements MessageRepository on gorm.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a contact message repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new message.
func (r *Repository) Create(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error) {
	if msg.Status == "" {
		msg.Status = enums.ContactMessageStatusNew
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// FindByID loads a message by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// List returns messages newest-first using keyset pagination.
func (r *Repository) List(ctx context.Context, status *enums.ContactMessageStatus, limit int, cursor *pagination.Cursor) ([]models.ContactMessage, error) {
	query := r.db.WithContext(ctx).Model(&models.ContactMessage{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.ContactMessage
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkResolved stamps the message resolved.
func (r *Repository) MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.ContactMessage{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      enums.ContactMessageStatusResolved,
			"resolved_at": at,
		}).Error
}

// PurgeResolvedBefore deletes resolved messages whose resolution predates the
// cutoff. Used by the housekeeping worker.
func (r *Repository) PurgeResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ?", enums.ContactMessageStatusResolved).
		Where("resolved_at IS NOT NULL AND resolved_at < ?", cutoff).
		Delete(&models.ContactMessage{})
	return result.RowsAffected, result.Error
}

// PurgeAllBefore deletes any message older than the cutoff regardless of
// status. Used as the hard retention cap.
func (r *Repository) PurgeAllBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.ContactMessage{})
	return result.RowsAffected, result.Error
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// NewsFlash is a short-lived storefront banner. Expired flashes are
// deactivated by the housekeeping worker.
type NewsFlash struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Message   string     `gorm:"column:message;not null"`
	LinkURL   string     `gorm:"column:link_url"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/emekaobi/naijamart-backend/pkg/enums"
)

// ContactMessage is an inbound message from the storefront contact form.
// Resolved messages past the retention window are purged by the worker.
type ContactMessage struct {
	ID         uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string                     `gorm:"column:name;not null"`
	Email      string                     `gorm:"column:email;not null"`
	Phone      string                     `gorm:"column:phone"`
	Subject    string                     `gorm:"column:subject"`
	Body       string                     `gorm:"column:body;not null"`
	Status     enums.ContactMessageStatus `gorm:"column:status;type:text;not null;default:'new'"`
	ResolvedAt *time.Time                 `gorm:"column:resolved_at"`
	CreatedAt  time.Time                  `gorm:"column:created_at;autoCreateTime"`
}

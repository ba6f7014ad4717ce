package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/emekaobi/naijamart-backend/pkg/enums"
)

// User is a storefront account. Customers and merchant staff share the table;
// the role column separates the two session kinds.
type User struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email          string         `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash   string         `gorm:"column:password_hash;not null"`
	FullName       string         `gorm:"column:full_name;not null"`
	Phone          string         `gorm:"column:phone"`
	Role           enums.UserRole `gorm:"column:role;type:text;not null;default:'customer'"`
	ContactAddress string         `gorm:"column:contact_address"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt    *time.Time     `gorm:"column:last_login_at"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Price is whole-naira (no minor unit) and is the
// live price; orders snapshot it into OrderItem at submission time.
type Product struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string          `gorm:"column:name;not null"`
	Description   string          `gorm:"column:description"`
	Unit          string          `gorm:"column:unit;not null"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	ImageURL      string          `gorm:"column:image_url"`
	IsLocallyMade bool            `gorm:"column:is_locally_made;not null;default:false"`
	IsActive      bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

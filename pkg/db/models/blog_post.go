package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is merchant-authored storefront content.
type BlogPost struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string     `gorm:"column:title;not null"`
	Slug        string     `gorm:"column:slug;uniqueIndex;not null"`
	Body        string     `gorm:"column:body;not null"`
	CoverImage  string     `gorm:"column:cover_image"`
	AuthorID    uuid.UUID  `gorm:"column:author_id;type:uuid;not null"`
	PublishedAt *time.Time `gorm:"column:published_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

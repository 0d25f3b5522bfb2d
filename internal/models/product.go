package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product mirrors a remote store product. Rows are never hard-deleted;
// IsActive=false marks a product the remote side ignored or removed.
type Product struct {
	ID           string     `json:"id" gorm:"type:uuid;primary_key"`
	RemoteID     string     `json:"remote_id" gorm:"size:64;uniqueIndex;not null"`
	ExternalID   *string    `json:"external_id" gorm:"size:128"`
	Name         string     `json:"name" gorm:"not null"`
	ThumbnailURL string     `json:"thumbnail_url" gorm:"size:1024"`
	IsActive     bool       `json:"is_active" gorm:"not null;index"`
	SyncedAt     *time.Time `json:"synced_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Variants []Variant `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

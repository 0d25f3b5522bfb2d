package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a node of the remote category forest. Parents are linked by
// remote id, so a child may be stored before its parent.
type Category struct {
	ID             string    `json:"id" gorm:"type:uuid;primary_key"`
	RemoteID       int64     `json:"remote_id" gorm:"uniqueIndex;not null"`
	ParentRemoteID *int64    `json:"parent_remote_id" gorm:"index"`
	Name           string    `json:"name" gorm:"not null"`
	ImageURL       string    `json:"image_url" gorm:"size:1024"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// ProductCategory links a product to a category. The pair is unique.
type ProductCategory struct {
	ID         string    `json:"id" gorm:"type:uuid;primary_key"`
	ProductID  string    `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_product_category"`
	CategoryID string    `json:"category_id" gorm:"type:uuid;not null;uniqueIndex:idx_product_category"`
	CreatedAt  time.Time `json:"created_at"`
}

func (pc *ProductCategory) BeforeCreate(tx *gorm.DB) error {
	if pc.ID == "" {
		pc.ID = uuid.New().String()
	}
	return nil
}

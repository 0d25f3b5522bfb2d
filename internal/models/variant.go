package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Variant is exclusively owned by one Product and is only ever added or updated.
type Variant struct {
	ID              string                             `json:"id" gorm:"type:uuid;primary_key"`
	ProductID       string                             `json:"product_id" gorm:"type:uuid;index;not null"`
	RemoteVariantID int64                              `json:"remote_variant_id" gorm:"uniqueIndex;not null"`
	ExternalID      string                             `json:"external_id" gorm:"size:128"`
	Name            string                             `json:"name"`
	Size            *string                            `json:"size" gorm:"size:64"`
	Color           *string                            `json:"color" gorm:"size:64"`
	RetailPrice     float64                            `json:"retail_price" gorm:"type:decimal(10,2)"`
	Currency        string                             `json:"currency" gorm:"size:3"`
	PreviewURL      string                             `json:"preview_url" gorm:"size:1024"`
	Files           datatypes.JSONSlice[VariantFile]   `json:"files"`
	Options         datatypes.JSONSlice[VariantOption] `json:"options"`
	InStock         bool                               `json:"in_stock" gorm:"not null"`
	CreatedAt       time.Time                          `json:"created_at"`
	UpdatedAt       time.Time                          `json:"updated_at"`
}

type VariantFile struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type VariantOption struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (v *Variant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncLog is the audit record of one sync run. It is created pending and
// moved to a terminal status exactly once.
type SyncLog struct {
	ID              string        `json:"id" gorm:"type:uuid;primary_key"`
	Type            SyncType      `json:"type" gorm:"size:16;not null"`
	Status          SyncLogStatus `json:"status" gorm:"size:16;not null;index"`
	ProductsAdded   int           `json:"products_added"`
	ProductsUpdated int           `json:"products_updated"`
	ErrorMessage    *string       `json:"error_message" gorm:"type:text"`
	StartedAt       time.Time     `json:"started_at" gorm:"not null;index"`
	CompletedAt     *time.Time    `json:"completed_at"`
}

type SyncType string

const (
	SyncTypeManual    SyncType = "manual"
	SyncTypeWebhook   SyncType = "webhook"
	SyncTypeScheduled SyncType = "scheduled"
)

func (t SyncType) Valid() bool {
	switch t {
	case SyncTypeManual, SyncTypeWebhook, SyncTypeScheduled:
		return true
	}
	return false
}

type SyncLogStatus string

const (
	SyncStatusPending SyncLogStatus = "pending"
	SyncStatusSuccess SyncLogStatus = "success"
	SyncStatusFailed  SyncLogStatus = "failed"
)

func (l *SyncLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// SyncLease is a store-backed marker held by at most one full sync at a time.
type SyncLease struct {
	Name       string    `json:"name" gorm:"primary_key;size:64"`
	Holder     string    `json:"holder" gorm:"size:64;not null"`
	AcquiredAt time.Time `json:"acquired_at"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"index"`
}

// All lists every model migrated at startup.
func All() []interface{} {
	return []interface{}{
		&Category{},
		&Product{},
		&Variant{},
		&ProductCategory{},
		&SyncLog{},
		&SyncLease{},
	}
}

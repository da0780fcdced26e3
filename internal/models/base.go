package models

import (
	"fmt"
	"time"

	"isave/internal/uuid"

	"gorm.io/gorm"
)

// Base holds the columns shared by every table. IDs are UUIDv7 strings so
// rows sort by insertion time; the ledger relies on that to break created_at ties.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate assigns a fresh ID, or normalizes one supplied by the caller.
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
		return nil
	}
	id, err := uuid.Parse(b.ID)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", b.ID, err)
	}
	b.ID = id
	return nil
}

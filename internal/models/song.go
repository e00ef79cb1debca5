package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SongRecord is a stored song document. Document holds the song as JSON;
// compiled output is never stored.
type SongRecord struct {
	ID        uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	OwnerID   string         `gorm:"index" json:"owner_id,omitempty"` // gateway user id, "anonymous" with AUTH_MODE=none
	Channels  int            `gorm:"not null;default:0" json:"channels"`
	Document  string         `gorm:"type:jsonb;not null" json:"-"`
}

// BeforeCreate assigns a new id when none was set
func (r *SongRecord) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

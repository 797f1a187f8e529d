package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Class holds the authoritative running point total. Supervisors only ever
// adjust Points through atomic increments; admins may overwrite it directly.
type Class struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Teacher   string    `gorm:"size:100" json:"teacher"`
	Points    int       `gorm:"not null;default:0" json:"points"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Class) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

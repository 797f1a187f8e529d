package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PointsEntry is one row of the append-only points history. ClassName and
// SupervisorName are snapshots taken at write time, so entries keep their
// original labels even after renames or class deletion. Entries are never
// updated or deleted.
type PointsEntry struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClassID        uuid.UUID `gorm:"type:uuid;index;not null" json:"class_id"`
	ClassName      string    `gorm:"size:100;not null" json:"class_name"`
	Points         int       `gorm:"not null" json:"points"`
	Reason         string    `gorm:"type:text" json:"reason"`
	SupervisorID   uuid.UUID `gorm:"type:uuid;index;not null" json:"supervisor_id"`
	SupervisorName string    `gorm:"size:100;not null" json:"supervisor_name"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (e *PointsEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

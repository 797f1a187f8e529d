package repository

import (
	"context"

	"classpoints/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PointsRepository interface {
	// Award applies the entry's delta to the class total with a server-side
	// atomic increment and appends the history entry. Both writes commit
	// together or not at all.
	Award(ctx context.Context, classID uuid.UUID, entry *model.PointsEntry) error
	FindRecent(ctx context.Context, limit int) ([]*model.PointsEntry, error)
	FindRecentBySupervisor(ctx context.Context, supervisorID uuid.UUID, limit int) ([]*model.PointsEntry, error)
	SumByClass(ctx context.Context, classID uuid.UUID) (int64, error)
}

type pointsRepository struct {
	db *gorm.DB
}

func NewPointsRepository(db *gorm.DB) PointsRepository {
	return &pointsRepository{db: db}
}

func (r *pointsRepository) Award(ctx context.Context, classID uuid.UUID, entry *model.PointsEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Atomic increment in the database, never read-modify-write, so
		// concurrent supervisors cannot lose updates.
		res := tx.Model(&model.Class{}).
			Where("id = ?", classID).
			UpdateColumn("points", gorm.Expr("points + ?", entry.Points))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Create(entry).Error
	})
}

func (r *pointsRepository) FindRecent(ctx context.Context, limit int) ([]*model.PointsEntry, error) {
	var entries []*model.PointsEntry
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *pointsRepository) FindRecentBySupervisor(ctx context.Context, supervisorID uuid.UUID, limit int) ([]*model.PointsEntry, error) {
	var entries []*model.PointsEntry
	if err := r.db.WithContext(ctx).
		Where("supervisor_id = ?", supervisorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *pointsRepository) SumByClass(ctx context.Context, classID uuid.UUID) (int64, error) {
	var sum int64
	if err := r.db.WithContext(ctx).Model(&model.PointsEntry{}).
		Where("class_id = ?", classID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

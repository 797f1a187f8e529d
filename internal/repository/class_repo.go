package repository

import (
	"context"

	"classpoints/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderByName       = "name"
	OrderByPointsDesc = "points"
)

type ClassRepository interface {
	Create(ctx context.Context, class *model.Class) error
	FindByID(ctx context.Context, id string) (*model.Class, error)
	FindAll(ctx context.Context, order string) ([]*model.Class, error)
	Update(ctx context.Context, id uuid.UUID, name, teacher string, points int) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	SumPoints(ctx context.Context) (int64, error)
}

type classRepository struct {
	db *gorm.DB
}

func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) Create(ctx context.Context, class *model.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classRepository) FindByID(ctx context.Context, id string) (*model.Class, error) {
	var class model.Class
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&class).Error; err != nil {
		return nil, err
	}

	return &class, nil
}

func (r *classRepository) FindAll(ctx context.Context, order string) ([]*model.Class, error) {
	query := r.db.WithContext(ctx)
	switch order {
	case OrderByPointsDesc:
		query = query.Order("points DESC").Order("name ASC")
	default:
		query = query.Order("name ASC")
	}

	var classes []*model.Class
	if err := query.Find(&classes).Error; err != nil {
		return nil, err
	}

	return classes, nil
}

// Update overwrites the three mutable fields, points included. Select forces
// zero values (points=0, empty teacher) to be written as well.
func (r *classRepository) Update(ctx context.Context, id uuid.UUID, name, teacher string, points int) error {
	res := r.db.WithContext(ctx).Model(&model.Class{}).
		Where("id = ?", id).
		Select("name", "teacher", "points").
		Updates(map[string]interface{}{
			"name":    name,
			"teacher": teacher,
			"points":  points,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *classRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Class{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *classRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Class{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *classRepository) SumPoints(ctx context.Context) (int64, error) {
	var sum int64
	if err := r.db.WithContext(ctx).Model(&model.Class{}).
		Select("COALESCE(SUM(points), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

package repository

import (
	"context"

	"classpoints/internal/model"
	"gorm.io/gorm"
)

type IdentityRepository interface {
	Create(ctx context.Context, identity *model.Identity) error
	FindByID(ctx context.Context, id string) (*model.Identity, error)
	FindByEmail(ctx context.Context, email string) (*model.Identity, error)
}

type identityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) IdentityRepository {
	return &identityRepository{db: db}
}

func (r *identityRepository) Create(ctx context.Context, identity *model.Identity) error {
	return r.db.WithContext(ctx).Create(identity).Error
}

func (r *identityRepository) FindByID(ctx context.Context, id string) (*model.Identity, error) {
	var identity model.Identity
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&identity).Error; err != nil {
		return nil, err
	}

	return &identity, nil
}

func (r *identityRepository) FindByEmail(ctx context.Context, email string) (*model.Identity, error) {
	var identity model.Identity
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&identity).Error; err != nil {
		return nil, err
	}

	return &identity, nil
}

package service

import (
	"context"
	"errors"

	"classpoints/internal/dto"
	"classpoints/internal/model"
	"classpoints/internal/realtime"
	"classpoints/internal/repository"
	"classpoints/pkg/apperror"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

type ClassService interface {
	List(ctx context.Context, order string) ([]*model.Class, error)
	Create(ctx context.Context, input dto.CreateClassInput) (*model.Class, error)
	Update(ctx context.Context, id string, input dto.UpdateClassInput) (*model.Class, error)
	Delete(ctx context.Context, id string) error
}

type classService struct {
	classes   repository.ClassRepository
	live      *realtime.Publisher
	sanitizer *bluemonday.Policy
}

func NewClassService(classes repository.ClassRepository, live *realtime.Publisher) ClassService {
	return &classService{
		classes:   classes,
		live:      live,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *classService) List(ctx context.Context, order string) ([]*model.Class, error) {
	return s.classes.FindAll(ctx, order)
}

func (s *classService) Create(ctx context.Context, input dto.CreateClassInput) (*model.Class, error) {
	class := &model.Class{
		Name:    s.sanitizer.Sanitize(input.Name),
		Teacher: s.sanitizer.Sanitize(input.Teacher),
		Points:  0,
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, err
	}

	s.live.CollectionChanged(ctx, realtime.StreamClasses)

	return class, nil
}

// Update overwrites name, teacher and points. Points is written as given,
// deliberately not converted to an increment, so an admin edit can set the
// total independently of the ledger history.
func (s *classService) Update(ctx context.Context, id string, input dto.UpdateClassInput) (*model.Class, error) {
	classID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.ErrBadRequest
	}

	err = s.classes.Update(ctx, classID,
		s.sanitizer.Sanitize(input.Name),
		s.sanitizer.Sanitize(input.Teacher),
		input.Points,
	)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.live.CollectionChanged(ctx, realtime.StreamClasses)

	return class, nil
}

// Delete hard-deletes the class. History entries referencing it are kept with
// their denormalized class name.
func (s *classService) Delete(ctx context.Context, id string) error {
	if err := s.classes.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	s.live.CollectionChanged(ctx, realtime.StreamClasses)

	return nil
}

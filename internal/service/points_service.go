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

const (
	DefaultActivityLimit = 10
	MaxActivityLimit     = 50
)

type PointsService interface {
	Award(ctx context.Context, supervisorID uuid.UUID, input dto.AwardPointsInput) (*model.PointsEntry, error)
	RecentAll(ctx context.Context, limit int) ([]*model.PointsEntry, error)
	RecentBySupervisor(ctx context.Context, supervisorID uuid.UUID, limit int) ([]*model.PointsEntry, error)
}

type pointsService struct {
	points    repository.PointsRepository
	classes   repository.ClassRepository
	users     repository.UserRepository
	live      *realtime.Publisher
	sanitizer *bluemonday.Policy
}

func NewPointsService(points repository.PointsRepository, classes repository.ClassRepository, users repository.UserRepository, live *realtime.Publisher) PointsService {
	return &pointsService{
		points:    points,
		classes:   classes,
		users:     users,
		live:      live,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Award atomically increments the class total by the signed delta and appends
// one immutable history entry carrying the class name and supervisor name as
// snapshots taken now. The acting supervisor's name comes from a fresh
// profile lookup, not from cached session data.
func (s *pointsService) Award(ctx context.Context, supervisorID uuid.UUID, input dto.AwardPointsInput) (*model.PointsEntry, error) {
	if input.ClassID == "" {
		return nil, apperror.ErrNoClassSelected
	}

	classID, err := uuid.Parse(input.ClassID)
	if err != nil {
		return nil, apperror.ErrNoClassSelected
	}

	class, err := s.classes.FindByID(ctx, input.ClassID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	supervisor, err := s.users.FindByID(ctx, supervisorID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrProfileNotFound
		}
		return nil, err
	}

	entry := &model.PointsEntry{
		ClassID:        classID,
		ClassName:      class.Name,
		Points:         input.Points,
		Reason:         s.sanitizer.Sanitize(input.Reason),
		SupervisorID:   supervisor.ID,
		SupervisorName: supervisor.Name,
	}

	if err := s.points.Award(ctx, classID, entry); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	s.live.CollectionChanged(ctx, realtime.StreamClasses)
	s.live.CollectionChanged(ctx, realtime.StreamActivity)

	return entry, nil
}

func (s *pointsService) RecentAll(ctx context.Context, limit int) ([]*model.PointsEntry, error) {
	return s.points.FindRecent(ctx, clampLimit(limit))
}

func (s *pointsService) RecentBySupervisor(ctx context.Context, supervisorID uuid.UUID, limit int) ([]*model.PointsEntry, error) {
	return s.points.FindRecentBySupervisor(ctx, supervisorID, clampLimit(limit))
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		return MaxActivityLimit
	}
	return limit
}

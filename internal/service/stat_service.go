package service

import (
	"context"

	"classpoints/internal/dto"
	"classpoints/internal/model"
	"classpoints/internal/repository"
)

type StatService interface {
	Stats(ctx context.Context) (*dto.StatsResponse, error)
}

type statService struct {
	classes repository.ClassRepository
	users   repository.UserRepository
}

func NewStatService(classes repository.ClassRepository, users repository.UserRepository) StatService {
	return &statService{classes: classes, users: users}
}

func (s *statService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	totalClasses, err := s.classes.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalPoints, err := s.classes.SumPoints(ctx)
	if err != nil {
		return nil, err
	}

	totalSupervisors, err := s.users.CountByRole(ctx, model.RoleSupervisor)
	if err != nil {
		return nil, err
	}

	return &dto.StatsResponse{
		TotalClasses:     totalClasses,
		TotalSupervisors: totalSupervisors,
		TotalPoints:      totalPoints,
	}, nil
}

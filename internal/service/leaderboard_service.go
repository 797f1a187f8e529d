package service

import (
	"context"

	"classpoints/internal/dto"
	"classpoints/internal/repository"
)

type LeaderboardService interface {
	Leaderboard(ctx context.Context) ([]dto.LeaderboardEntry, error)
}

type leaderboardService struct {
	classes repository.ClassRepository
}

func NewLeaderboardService(classes repository.ClassRepository) LeaderboardService {
	return &leaderboardService{classes: classes}
}

// Leaderboard ranks all classes by points, highest first. Rank is 1-based.
func (s *leaderboardService) Leaderboard(ctx context.Context) ([]dto.LeaderboardEntry, error) {
	classes, err := s.classes.FindAll(ctx, repository.OrderByPointsDesc)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(classes))
	for i, class := range classes {
		entries = append(entries, dto.LeaderboardEntry{
			Rank:    i + 1,
			ClassID: class.ID,
			Name:    class.Name,
			Teacher: class.Teacher,
			Points:  class.Points,
		})
	}

	return entries, nil
}

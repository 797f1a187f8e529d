package service

import (
	"context"

	"classpoints/internal/dto"
	"classpoints/internal/repository"
)

// LedgerAuditService compares each class's stored total against the sum of
// its history entries. It only reports: admin edits overwrite the total
// directly, so divergence can be intentional and must not be auto-corrected.
type LedgerAuditService interface {
	Audit(ctx context.Context) ([]dto.LedgerDrift, error)
}

type ledgerAuditService struct {
	classes repository.ClassRepository
	points  repository.PointsRepository
}

func NewLedgerAuditService(classes repository.ClassRepository, points repository.PointsRepository) LedgerAuditService {
	return &ledgerAuditService{classes: classes, points: points}
}

func (s *ledgerAuditService) Audit(ctx context.Context) ([]dto.LedgerDrift, error) {
	classes, err := s.classes.FindAll(ctx, repository.OrderByName)
	if err != nil {
		return nil, err
	}

	var drifts []dto.LedgerDrift
	for _, class := range classes {
		sum, err := s.points.SumByClass(ctx, class.ID)
		if err != nil {
			return nil, err
		}

		if sum != int64(class.Points) {
			drifts = append(drifts, dto.LedgerDrift{
				ClassID:   class.ID,
				ClassName: class.Name,
				Points:    int64(class.Points),
				LedgerSum: sum,
			})
		}
	}

	return drifts, nil
}

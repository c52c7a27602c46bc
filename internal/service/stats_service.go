package service

import (
	"context"
	"fmt"

	"github.com/hdbaza/helpdesk-api/internal/model"
	"github.com/hdbaza/helpdesk-api/internal/repository"
)

// StatsService computes aggregate problem counts.
type StatsService struct {
	problems repository.ProblemRepository
}

// NewStatsService creates a new StatsService.
func NewStatsService(store *repository.Store) *StatsService {
	return &StatsService{problems: store.Problems}
}

// Compute returns the counts of one snapshot of the problem set.
func (s *StatsService) Compute(ctx context.Context) (model.Stats, error) {
	stats, err := s.problems.Stats(ctx)
	if err != nil {
		return model.Stats{}, fmt.Errorf("compute stats: %w", err)
	}
	return stats, nil
}

package service

import (
	"context"

	"github.com/guttosm/dealpulse/internal/domain/models"
	"github.com/guttosm/dealpulse/internal/storage"
)

const (
	DefaultRunsLimit = 20
	MaxRunsLimit     = 100
)

// RunHistoryService exposes the run journal to the HTTP layer.
type RunHistoryService interface {
	ListRuns(ctx context.Context, limit int) ([]models.Run, error)
}

type runHistoryService struct {
	repo storage.RunsRepository
}

func NewRunHistoryService(repo storage.RunsRepository) RunHistoryService {
	return &runHistoryService{repo: repo}
}

// ListRuns returns the most recent runs; limit is clamped to [1, MaxRunsLimit],
// non-positive meaning DefaultRunsLimit.
func (s *runHistoryService) ListRuns(ctx context.Context, limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = DefaultRunsLimit
	}
	if limit > MaxRunsLimit {
		limit = MaxRunsLimit
	}
	return s.repo.ListRecentRuns(ctx, limit)
}

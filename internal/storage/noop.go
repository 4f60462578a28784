package storage

import (
	"context"
	"time"

	"github.com/guttosm/dealpulse/internal/domain/models"
)

// NoopRunsRepository is used when the journal is disabled (POSTGRES_ENABLED=false).
type NoopRunsRepository struct{}

func (NoopRunsRepository) InsertRun(context.Context, models.Run) error { return nil }
func (NoopRunsRepository) CompleteRun(context.Context, string, time.Time, int, int) error {
	return nil
}
func (NoopRunsRepository) FailRun(context.Context, string, time.Time, int, string) error {
	return nil
}
func (NoopRunsRepository) ListRecentRuns(context.Context, int) ([]models.Run, error) {
	return []models.Run{}, nil
}

var _ RunsRepository = NoopRunsRepository{}

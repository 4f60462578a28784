package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/guttosm/dealpulse/internal/domain/models"
)

// RunsRepository defines the contract for the analysis run journal.
// Only run metadata is recorded; deals are never persisted.
type RunsRepository interface {
	InsertRun(ctx context.Context, run models.Run) error
	CompleteRun(ctx context.Context, id string, finishedAt time.Time, dealCount, resultCount int) error
	FailRun(ctx context.Context, id string, finishedAt time.Time, dealCount int, reason string) error
	ListRecentRuns(ctx context.Context, limit int) ([]models.Run, error)
}

type runsRepository struct {
	db *sql.DB
}

func NewRunsRepository(db *sql.DB) RunsRepository {
	return &runsRepository{db: db}
}

// InsertRun records a run entering the Running state.
func (r *runsRepository) InsertRun(ctx context.Context, run models.Run) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (id, started_at, status, days)
		VALUES ($1, $2, $3, $4)
	`, run.ID, run.StartedAt, string(run.Status), run.Days)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// CompleteRun moves a run to Completed.
func (r *runsRepository) CompleteRun(ctx context.Context, id string, finishedAt time.Time, dealCount, resultCount int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE analysis_runs
		SET status = $2, finished_at = $3, deal_count = $4, result_count = $5
		WHERE id = $1
	`, id, string(models.RunCompleted), finishedAt, dealCount, resultCount)
	if err != nil {
		return fmt.Errorf("complete run %s: %w", id, err)
	}
	return nil
}

// FailRun moves a run to Failed and stores the terminal error message.
func (r *runsRepository) FailRun(ctx context.Context, id string, finishedAt time.Time, dealCount int, reason string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE analysis_runs
		SET status = $2, finished_at = $3, deal_count = $4, error_message = $5
		WHERE id = $1
	`, id, string(models.RunFailed), finishedAt, dealCount, reason)
	if err != nil {
		return fmt.Errorf("fail run %s: %w", id, err)
	}
	return nil
}

// ListRecentRuns returns up to limit runs, newest first.
func (r *runsRepository) ListRecentRuns(ctx context.Context, limit int) ([]models.Run, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, status, days, deal_count, result_count, error_message
		FROM analysis_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Run
	for rows.Next() {
		var (
			run      models.Run
			finished sql.NullTime
			status   string
			errMsg   sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.StartedAt, &finished, &status, &run.Days, &run.DealCount, &run.ResultCount, &errMsg); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		run.Status = models.RunStatus(status)
		run.Error = errMsg.String
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return out, nil
}

package dto

import (
	"time"

	"github.com/guttosm/dealpulse/internal/domain/models"
)

// RunResponse is the JSON shape of a journal entry returned by GET /api/v1/runs.
type RunResponse struct {
	ID          string     `json:"id" example:"5b0c2f7e-7c1a-4c8e-9d6f-0a4c3b8f1e22"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	Status      string     `json:"status" example:"completed"`
	Days        int        `json:"days" example:"5"`
	DealCount   int        `json:"deal_count" example:"214"`
	ResultCount int        `json:"result_count" example:"10"`
	Error       string     `json:"error,omitempty"`
}

func NewRunResponses(runs []models.Run) []RunResponse {
	out := make([]RunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, RunResponse{
			ID:          r.ID,
			StartedAt:   r.StartedAt,
			FinishedAt:  r.FinishedAt,
			Status:      string(r.Status),
			Days:        r.Days,
			DealCount:   r.DealCount,
			ResultCount: r.ResultCount,
			Error:       r.Error,
		})
	}
	return out
}

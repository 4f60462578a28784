package models

import "time"

// RunStatus is the journaled state of a run: Running, then Completed or Failed.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is the journal record of a single analysis run. It carries only run
// metadata; deal data is never stored.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  *time.Time
	Status      RunStatus
	Days        int
	DealCount   int
	ResultCount int
	Error       string
}

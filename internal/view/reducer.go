// Package view turns the analysis event stream into renderable state.
package view

import "github.com/guttosm/dealpulse/internal/domain/models"

// Phase is the coarse status a renderer shows.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseDone    Phase = "done"
	PhaseFailed  Phase = "failed"
)

// State is an immutable snapshot; Reduce never mutates its input.
type State struct {
	Phase    Phase
	Progress []string
	Results  []models.StockAccumulation
	Error    string
}

// Initial is the state before any run has been triggered.
func Initial() State {
	return State{Phase: PhaseIdle}
}

// Start clears a previous outcome and enters Loading.
func Start(State) State {
	return State{Phase: PhaseLoading}
}

// Reduce applies one event. Events after a terminal state are ignored.
func Reduce(s State, ev models.ProgressEvent) State {
	if s.Phase == PhaseDone || s.Phase == PhaseFailed {
		return s
	}

	next := State{
		Phase:    PhaseLoading,
		Progress: appendCopy(s.Progress, ev.Message),
		Results:  s.Results,
	}

	switch ev.Type {
	case models.EventProgress:
		return next
	case models.EventResult:
		next.Progress = s.Progress
		next.Phase = PhaseDone
		next.Results = append([]models.StockAccumulation(nil), ev.Ranked...)
		return next
	case models.EventError:
		next.Progress = s.Progress
		next.Phase = PhaseFailed
		next.Error = ev.Message
		return next
	default:
		return s
	}
}

// Fold reduces a whole event sequence starting from Loading.
func Fold(events []models.ProgressEvent) State {
	s := Start(Initial())
	for _, ev := range events {
		s = Reduce(s, ev)
	}
	return s
}

func appendCopy(in []string, v string) []string {
	out := make([]string, len(in), len(in)+1)
	copy(out, in)
	return append(out, v)
}

package models

// EventType tags a ProgressEvent.
type EventType string

const (
	EventProgress EventType = "progress"
	EventResult   EventType = "result"
	EventError    EventType = "error"
)

// ProgressEvent is one element of the ordered event stream produced by an
// analysis run. Exactly one of Message (progress, error) or Ranked (result)
// is meaningful, depending on Type.
type ProgressEvent struct {
	Type    EventType
	Message string
	Ranked  []StockAccumulation
}

func NewProgressEvent(message string) ProgressEvent {
	return ProgressEvent{Type: EventProgress, Message: message}
}

func NewResultEvent(ranked []StockAccumulation) ProgressEvent {
	return ProgressEvent{Type: EventResult, Ranked: ranked}
}

func NewErrorEvent(message string) ProgressEvent {
	return ProgressEvent{Type: EventError, Message: message}
}

// Terminal reports whether no event can follow this one.
func (e ProgressEvent) Terminal() bool {
	return e.Type == EventResult || e.Type == EventError
}

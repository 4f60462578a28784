package dto

import (
	"encoding/json"
	"fmt"

	"github.com/guttosm/dealpulse/internal/domain/models"
)

// ProgressPayload is {"type":"progress","message":"..."}.
type ProgressPayload struct {
	Type    string `json:"type" example:"progress"`
	Message string `json:"message" example:"Fetching data for 16-10-2026..."`
}

// ResultPayload is {"type":"result","data":[...]}.
type ResultPayload struct {
	Type string                 `json:"type" example:"result"`
	Data []AccumulationResponse `json:"data"`
}

// ErrorPayload is {"type":"error","message":"..."}.
type ErrorPayload struct {
	Type    string `json:"type" example:"error"`
	Message string `json:"message" example:"analysis failed"`
}

// NewEventPayload selects the wire shape for ev.
func NewEventPayload(ev models.ProgressEvent) (any, error) {
	switch ev.Type {
	case models.EventProgress:
		return ProgressPayload{Type: string(ev.Type), Message: ev.Message}, nil
	case models.EventResult:
		return ResultPayload{Type: string(ev.Type), Data: NewAccumulationResponses(ev.Ranked)}, nil
	case models.EventError:
		return ErrorPayload{Type: string(ev.Type), Message: ev.Message}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", ev.Type)
	}
}

// MarshalEvent encodes ev as the JSON object carried by one stream frame.
func MarshalEvent(ev models.ProgressEvent) ([]byte, error) {
	payload, err := NewEventPayload(ev)
	if err != nil {
		return nil, err
	}
	return json.Marshal(payload)
}

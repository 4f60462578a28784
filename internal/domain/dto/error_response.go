package dto

import "time"

// ErrorResponse is the standard JSON body for failed non-streaming requests.
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid days parameter"`
	ErrorDetails string    `json:"error,omitempty" example:"days must be between 1 and 30"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewErrorResponse builds an ErrorResponse, copying err's text into ErrorDetails when present.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}

func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

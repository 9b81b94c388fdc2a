// Package dto defines the wire envelope shared by every endpoint.
package dto

// Response statuses. Domain failures ride an HTTP 200 with status
// "failed"; callers branch on the status and message fields.
const (
	StatusSuccessful = "successful"
	StatusFailed     = "failed"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Status  string `json:"status"`
	Action  string `json:"action"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// NewSuccessResponse creates a successful envelope for the action.
func NewSuccessResponse(action string, data any) Response {
	return Response{
		Status: StatusSuccessful,
		Action: action,
		Data:   data,
	}
}

// NewFailedResponse creates a failed envelope carrying a human-readable
// message.
func NewFailedResponse(action, message string) Response {
	return Response{
		Status:  StatusFailed,
		Action:  action,
		Message: message,
	}
}

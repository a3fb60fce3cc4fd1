// Package request defines API request body types.
package request

// CreateSessionRequest is the request body for creating a live session
type CreateSessionRequest struct {
	QuizID string `json:"quiz_id"`
	HostID string `json:"host_id"`
}

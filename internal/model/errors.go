package model

import "errors"

// Common errors used across the application
var (
	// Registry errors
	ErrSessionNotFound    = errors.New("session not found")
	ErrCodeSpaceExhausted = errors.New("session code space exhausted")

	// Session state machine errors
	ErrInvalidState        = errors.New("operation not valid in current session state")
	ErrOutOfOrderAdvance   = errors.New("question advance out of order")
	ErrQuestionClosed      = errors.New("question is no longer open for answers")
	ErrSessionEnded        = errors.New("session has ended")
	ErrNotHost             = errors.New("requester is not the session host")
	ErrDuplicateSubmission = errors.New("answer already submitted for this question")

	// Roster errors
	ErrParticipantNotFound = errors.New("participant not found")

	// Catalog errors
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
)

// ErrorKind maps a coordinator error to its wire-level kind string
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return "NotFound"
	case errors.Is(err, ErrCodeSpaceExhausted):
		return "CodeSpaceExhausted"
	case errors.Is(err, ErrOutOfOrderAdvance):
		return "OutOfOrderAdvance"
	case errors.Is(err, ErrQuestionClosed):
		return "QuestionClosed"
	case errors.Is(err, ErrSessionEnded):
		return "SessionEnded"
	case errors.Is(err, ErrDuplicateSubmission):
		return "DuplicateSubmission"
	case errors.Is(err, ErrParticipantNotFound):
		return "ParticipantNotFound"
	case errors.Is(err, ErrNotHost):
		return "NotHost"
	case errors.Is(err, ErrInvalidState):
		return "InvalidState"
	case errors.Is(err, ErrQuizNotFound):
		return "NotFound"
	case errors.Is(err, ErrQuestionNotFound):
		return "NotFound"
	default:
		return "Internal"
	}
}

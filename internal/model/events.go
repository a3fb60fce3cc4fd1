package model

import "time"

// EventType identifies the type of an outbound event
type EventType string

const (
	// To the joining participant
	EventJoined EventType = "joined"
	// To the host room when a participant joins
	EventParticipantJoined EventType = "participant_joined"
	// To the participant room on session transitions
	EventSessionStarted EventType = "session_started"
	EventQuestionOpened EventType = "question_opened"
	EventSessionEnded   EventType = "session_ended"
	// To the host room on every accepted submission
	EventAnswerResult EventType = "answer_result"
	// To the submitter only
	EventAnswerAck EventType = "answer_ack"
	// Leaderboard pushes (host room and, on request, participant room)
	EventLeaderboard EventType = "leaderboard"
	// Host attach response carrying the full quiz snapshot
	EventQuizData EventType = "quiz_data"
	// Structured error to a single connection
	EventError EventType = "error"
)

// JoinedPayload contains data for joined and participant_joined events
type JoinedPayload struct {
	ParticipantID ParticipantID `json:"participant_id"`
	Nickname      string        `json:"nickname"`
}

// QuestionOpenedPayload announces a newly opened question to participants
type QuestionOpenedPayload struct {
	Index    int          `json:"index"`
	Question QuestionView `json:"question"`
}

// AnswerResultPayload reports a graded submission to the host
type AnswerResultPayload struct {
	ParticipantID ParticipantID `json:"participant_id"`
	Correct       bool          `json:"correct"`
	Elapsed       time.Duration `json:"elapsed"`
}

// AnswerAckPayload acknowledges a submission to its sender
type AnswerAckPayload struct {
	Accepted     bool   `json:"accepted"`
	Correct      bool   `json:"correct"`
	PointsEarned int    `json:"points_earned"`
	Reason       string `json:"reason,omitempty"`
}

// LeaderboardPayload carries a computed leaderboard
type LeaderboardPayload struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// SessionEndedPayload carries the final leaderboard
type SessionEndedPayload struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// QuizDataPayload carries the full quiz snapshot to the host room.
// Unlike QuestionOpenedPayload this includes correctness flags.
type QuizDataPayload struct {
	Quiz Quiz `json:"quiz"`
}

// ErrorPayload is a structured error event for a single connection
type ErrorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

package model

import "time"

// SessionCode is the human-shareable join code for a live session
type SessionCode string

// SessionState represents the lifecycle phase of a session
type SessionState string

const (
	SessionStateWaiting   SessionState = "waiting"   // Accepting joins, not yet started
	SessionStateActive    SessionState = "active"    // Host is driving questions
	SessionStateCompleted SessionState = "completed" // Ended, final scores fixed
)

// NoQuestion is the cursor value before the first question is opened
const NoQuestion = -1

// ParticipantID is a session-scoped sequential identifier
type ParticipantID int

// RosterEntry is a point-in-time view of one participant
type RosterEntry struct {
	ParticipantID ParticipantID `json:"participant_id"`
	Nickname      string        `json:"nickname"`
	Score         int           `json:"score"`
	JoinOrder     int           `json:"join_order"`
	Connected     bool          `json:"connected"`
}

// LeaderboardEntry is one ranked row of a computed leaderboard
type LeaderboardEntry struct {
	ParticipantID ParticipantID `json:"participant_id"`
	Nickname      string        `json:"nickname"`
	Score         int           `json:"score"`
}

// AnswerRecord is the durable trace of one graded submission
type AnswerRecord struct {
	ParticipantID     ParticipantID `json:"participant_id"`
	QuestionID        int           `json:"question_id"`
	SelectedOptionIDs []int         `json:"selected_option_ids"`
	Correct           bool          `json:"correct"`
	PointsEarned      int           `json:"points_earned"`
	Elapsed           time.Duration `json:"elapsed"`
	SubmittedAt       time.Time     `json:"submitted_at"`
}

// SessionRecord is the archival artifact handed to the durable store
// exactly once when a session completes
type SessionRecord struct {
	Code        SessionCode        `json:"code"`
	QuizID      QuizID             `json:"quiz_id"`
	HostID      string             `json:"host_id"`
	StartedAt   time.Time          `json:"started_at"`
	EndedAt     time.Time          `json:"ended_at"`
	FinalRoster []RosterEntry      `json:"final_roster"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Answers     []AnswerRecord     `json:"answers"`
}

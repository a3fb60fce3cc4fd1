// Package response defines API response body types and helpers for
// writing them.
package response

import (
	"github.com/quizwire/quizwire/internal/coordinator"
	"github.com/quizwire/quizwire/internal/model"
)

// CreatedSession is the response to a successful session create
type CreatedSession struct {
	Code   string `json:"code"`
	QuizID string `json:"quiz_id"`
	HostID string `json:"host_id"`
}

// SessionStatus mirrors the coordinator's session summary
type SessionStatus struct {
	Code          string `json:"code"`
	State         string `json:"state"`
	QuizID        string `json:"quiz_id"`
	QuizTitle     string `json:"quiz_title"`
	QuestionCount int    `json:"question_count"`
	CurrentIndex  int    `json:"current_index"`
	Participants  int    `json:"participants"`
}

// SessionStatusFromCoordinator converts a coordinator status summary
func SessionStatusFromCoordinator(s coordinator.SessionStatus) SessionStatus {
	return SessionStatus{
		Code:          string(s.Code),
		State:         string(s.State),
		QuizID:        string(s.QuizID),
		QuizTitle:     s.QuizTitle,
		QuestionCount: s.QuestionCount,
		CurrentIndex:  s.CurrentIndex,
		Participants:  s.Participants,
	}
}

// Leaderboard is the response body for leaderboard reads
type Leaderboard struct {
	Entries []model.LeaderboardEntry `json:"entries"`
}

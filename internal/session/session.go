// Package session implements the live session coordinator core: the
// per-game state machine, the participant roster, and the process-wide
// registry of active sessions.
package session

import (
	"sync"
	"time"

	"github.com/quizwire/quizwire/internal/dependencies/clock"
	"github.com/quizwire/quizwire/internal/grading"
	"github.com/quizwire/quizwire/internal/leaderboard"
	"github.com/quizwire/quizwire/internal/model"
)

// gradeKey identifies one (participant, question) grading slot
type gradeKey struct {
	participant model.ParticipantID
	question    int
}

// Session is the in-memory authoritative state of one live game.
//
// The mutex guards lifecycle state, the question cursor, the graded set,
// and the answer log; those checks and mutations must be atomic as a unit
// so that an advance and a submission racing at question-close resolve
// consistently. Score totals live in the roster behind per-participant
// atomics and are deliberately outside this lock.
type Session struct {
	code     model.SessionCode
	hostID   string
	quiz     model.Quiz
	strategy grading.Strategy
	clock    clock.Clock

	roster *Roster

	mu           sync.Mutex
	state        model.SessionState
	cursor       int
	startedAt    time.Time
	endedAt      time.Time
	lastActivity time.Time
	graded       map[gradeKey]struct{}
	answers      []model.AnswerRecord
}

func newSession(code model.SessionCode, hostID string, quiz model.Quiz, strategy grading.Strategy, clk clock.Clock) *Session {
	return &Session{
		code:         code,
		hostID:       hostID,
		quiz:         quiz,
		strategy:     strategy,
		clock:        clk,
		roster:       NewRoster(),
		state:        model.SessionStateWaiting,
		cursor:       model.NoQuestion,
		lastActivity: clk.Now(),
		graded:       make(map[gradeKey]struct{}),
	}
}

// Code returns the session's join code
func (s *Session) Code() model.SessionCode {
	return s.code
}

// HostID returns the owning host identity
func (s *Session) HostID() string {
	return s.hostID
}

// Quiz returns the immutable quiz snapshot
func (s *Session) Quiz() model.Quiz {
	return s.quiz
}

// Roster returns the session's participant roster
func (s *Session) Roster() *Roster {
	return s.roster
}

// State returns the current lifecycle state
func (s *Session) State() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cursor returns the current question index (NoQuestion before start)
func (s *Session) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// IdleSince returns the time of the last accepted event
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Join admits a participant with zero score. Joins are accepted while
// Waiting and while Active (late joiners are fully eligible for
// subsequent questions); a Completed session rejects them. The state
// check and the roster insert hold the session lock together, so a join
// racing End either lands before the final roster snapshot or is
// rejected, never confirmed and then lost.
func (s *Session) Join(nickname string) (model.ParticipantID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == model.SessionStateCompleted {
		return 0, model.ErrSessionEnded
	}
	s.lastActivity = s.clock.Now()
	return s.roster.Join(nickname), nil
}

// Start transitions Waiting → Active. Only the owning host may start.
func (s *Session) Start(hostID string) error {
	if hostID != s.hostID {
		return model.ErrNotHost
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != model.SessionStateWaiting {
		if s.state == model.SessionStateCompleted {
			return model.ErrSessionEnded
		}
		return model.ErrInvalidState
	}

	now := s.clock.Now()
	s.state = model.SessionStateActive
	s.startedAt = now
	s.lastActivity = now
	return nil
}

// Advance opens question index, which must be exactly cursor+1. Advancing
// closes the previous question: submissions against it fail from the
// moment the cursor moves. The opened question is returned for broadcast.
func (s *Session) Advance(hostID string, index int) (*model.Question, error) {
	if hostID != s.hostID {
		return nil, model.ErrNotHost
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case model.SessionStateActive:
	case model.SessionStateCompleted:
		return nil, model.ErrSessionEnded
	default:
		return nil, model.ErrInvalidState
	}

	if index != s.cursor+1 || index >= len(s.quiz.Questions) {
		return nil, model.ErrOutOfOrderAdvance
	}

	s.cursor = index
	s.lastActivity = s.clock.Now()
	return &s.quiz.Questions[index], nil
}

// Submit grades one participant's answer to the currently open question.
// Validation, the duplicate check, and claiming the grading slot happen
// atomically with the open-question check; the score increment itself
// goes through the roster's per-participant counter so submissions from
// different participants do not serialize on the session lock.
func (s *Session) Submit(participantID model.ParticipantID, questionID int, selected []int, elapsed time.Duration) (grading.Result, error) {
	s.mu.Lock()

	switch s.state {
	case model.SessionStateActive:
	case model.SessionStateCompleted:
		s.mu.Unlock()
		return grading.Result{}, model.ErrSessionEnded
	default:
		s.mu.Unlock()
		return grading.Result{}, model.ErrInvalidState
	}

	if s.cursor == model.NoQuestion || s.quiz.Questions[s.cursor].ID != questionID {
		s.mu.Unlock()
		return grading.Result{}, model.ErrQuestionClosed
	}

	if !s.roster.Contains(participantID) {
		s.mu.Unlock()
		return grading.Result{}, model.ErrParticipantNotFound
	}

	key := gradeKey{participant: participantID, question: questionID}
	if _, dup := s.graded[key]; dup {
		s.mu.Unlock()
		return grading.Result{}, model.ErrDuplicateSubmission
	}
	s.graded[key] = struct{}{}
	question := s.quiz.Questions[s.cursor]
	now := s.clock.Now()
	s.mu.Unlock()

	result := grading.Grade(&question, grading.Submission{
		SelectedOptionIDs: selected,
		Elapsed:           elapsed,
	}, s.strategy)

	if result.Points > 0 {
		if err := s.roster.AddScore(participantID, result.Points); err != nil {
			return grading.Result{}, err
		}
	}

	s.mu.Lock()
	s.answers = append(s.answers, model.AnswerRecord{
		ParticipantID:     participantID,
		QuestionID:        questionID,
		SelectedOptionIDs: selected,
		Correct:           result.Correct,
		PointsEarned:      result.Points,
		Elapsed:           elapsed,
		SubmittedAt:       now,
	})
	s.lastActivity = now
	s.mu.Unlock()

	return result, nil
}

// Leaderboard computes the current ranking from a roster snapshot
func (s *Session) Leaderboard() []model.LeaderboardEntry {
	return leaderboard.Compute(s.roster.Snapshot())
}

// End transitions Active → Completed and returns the archival record.
// The transition guard makes the record handoff exactly-once: a second
// End fails with ErrSessionEnded.
func (s *Session) End(hostID string) (model.SessionRecord, error) {
	if hostID != s.hostID {
		return model.SessionRecord{}, model.ErrNotHost
	}

	s.mu.Lock()
	switch s.state {
	case model.SessionStateActive:
	case model.SessionStateCompleted:
		s.mu.Unlock()
		return model.SessionRecord{}, model.ErrSessionEnded
	default:
		s.mu.Unlock()
		return model.SessionRecord{}, model.ErrInvalidState
	}

	now := s.clock.Now()
	s.state = model.SessionStateCompleted
	s.endedAt = now
	s.lastActivity = now

	answers := make([]model.AnswerRecord, len(s.answers))
	copy(answers, s.answers)
	startedAt := s.startedAt
	s.mu.Unlock()

	roster := s.roster.Snapshot()
	return model.SessionRecord{
		Code:        s.code,
		QuizID:      s.quiz.ID,
		HostID:      s.hostID,
		StartedAt:   startedAt,
		EndedAt:     now,
		FinalRoster: roster,
		Leaderboard: leaderboard.Compute(roster),
		Answers:     answers,
	}, nil
}

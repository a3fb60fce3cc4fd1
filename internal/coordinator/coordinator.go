// Package coordinator drives live quiz sessions: it validates inbound
// events against the session state machine, commits state, and then
// broadcasts the resulting events to the session's rooms. Broadcasts
// always happen after the state change is committed, so a slow
// subscriber can never stall a transition.
package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/quizwire/quizwire/internal/archive"
	"github.com/quizwire/quizwire/internal/catalog"
	"github.com/quizwire/quizwire/internal/grading"
	"github.com/quizwire/quizwire/internal/hub"
	"github.com/quizwire/quizwire/internal/model"
	"github.com/quizwire/quizwire/internal/session"
)

// Coordinator exposes one method per inbound event of the live protocol
type Coordinator struct {
	registry *session.Registry
	hub      *hub.Hub
	catalog  catalog.Repository
	archiver archive.Archiver
	strategy grading.Strategy
	logger   *slog.Logger
}

// New creates a coordinator
func New(
	registry *session.Registry,
	h *hub.Hub,
	cat catalog.Repository,
	archiver archive.Archiver,
	strategy grading.Strategy,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		registry: registry,
		hub:      h,
		catalog:  cat,
		archiver: archiver,
		strategy: strategy,
		logger:   logger.With(slog.String("component", "coordinator")),
	}
}

// Hub returns the broadcast hub, for transports to subscribe members
func (c *Coordinator) Hub() *hub.Hub {
	return c.hub
}

// CreateSession snapshots the quiz and mints a Waiting session for it
func (c *Coordinator) CreateSession(ctx context.Context, quizID model.QuizID, hostID string) (model.SessionCode, error) {
	quiz, err := c.catalog.GetQuiz(ctx, quizID)
	if err != nil {
		return "", err
	}

	s, err := c.registry.Create(quiz, hostID, c.strategy)
	if err != nil {
		return "", err
	}
	return s.Code(), nil
}

// Join admits a participant and notifies the host room
func (c *Coordinator) Join(code model.SessionCode, nickname string) (model.JoinedPayload, error) {
	s, err := c.registry.Lookup(code)
	if err != nil {
		return model.JoinedPayload{}, err
	}

	id, err := s.Join(nickname)
	if err != nil {
		return model.JoinedPayload{}, err
	}

	payload := model.JoinedPayload{ParticipantID: id, Nickname: nickname}
	c.hub.Publish(hub.HostRoom(code), model.EventParticipantJoined, payload)
	return payload, nil
}

// Start transitions the session to Active and announces it
func (c *Coordinator) Start(code model.SessionCode, hostID string) error {
	s, err := c.registry.Lookup(code)
	if err != nil {
		return err
	}

	if err := s.Start(hostID); err != nil {
		return err
	}

	c.hub.Publish(hub.ParticipantRoom(code), model.EventSessionStarted, nil)
	c.hub.Publish(hub.HostRoom(code), model.EventSessionStarted, nil)
	c.logger.Info("session started", slog.String("code", string(code)))
	return nil
}

// Advance opens the next question and broadcasts it. Participants get
// the scrubbed view; correctness flags never leave the host room.
func (c *Coordinator) Advance(code model.SessionCode, hostID string, index int) error {
	s, err := c.registry.Lookup(code)
	if err != nil {
		return err
	}

	question, err := s.Advance(hostID, index)
	if err != nil {
		return err
	}

	payload := model.QuestionOpenedPayload{Index: index, Question: question.View()}
	c.hub.Publish(hub.ParticipantRoom(code), model.EventQuestionOpened, payload)
	c.hub.Publish(hub.HostRoom(code), model.EventQuestionOpened, payload)
	return nil
}

// Submit grades a participant's answer. Late and duplicate submissions
// come back as a not-accepted ack rather than an error, so a client's
// retries never disturb the rest of the session.
func (c *Coordinator) Submit(
	code model.SessionCode,
	participantID model.ParticipantID,
	questionID int,
	selected []int,
	elapsed time.Duration,
) (model.AnswerAckPayload, error) {
	s, err := c.registry.Lookup(code)
	if err != nil {
		return model.AnswerAckPayload{}, err
	}

	result, err := s.Submit(participantID, questionID, selected, elapsed)
	if err != nil {
		if errors.Is(err, model.ErrQuestionClosed) || errors.Is(err, model.ErrDuplicateSubmission) {
			return model.AnswerAckPayload{Accepted: false, Reason: model.ErrorKind(err)}, nil
		}
		return model.AnswerAckPayload{}, err
	}

	c.hub.Publish(hub.HostRoom(code), model.EventAnswerResult, model.AnswerResultPayload{
		ParticipantID: participantID,
		Correct:       result.Correct,
		Elapsed:       elapsed,
	})

	return model.AnswerAckPayload{
		Accepted:     true,
		Correct:      result.Correct,
		PointsEarned: result.Points,
	}, nil
}

// SessionStatus is a point-in-time summary of a session for the REST API
type SessionStatus struct {
	Code          model.SessionCode  `json:"code"`
	State         model.SessionState `json:"state"`
	QuizID        model.QuizID       `json:"quiz_id"`
	QuizTitle     string             `json:"quiz_title"`
	QuestionCount int                `json:"question_count"`
	CurrentIndex  int                `json:"current_index"`
	Participants  int                `json:"participants"`
}

// Status summarizes a session without touching its state
func (c *Coordinator) Status(code model.SessionCode) (SessionStatus, error) {
	s, err := c.registry.Lookup(code)
	if err != nil {
		return SessionStatus{}, err
	}

	quiz := s.Quiz()
	return SessionStatus{
		Code:          s.Code(),
		State:         s.State(),
		QuizID:        quiz.ID,
		QuizTitle:     quiz.Title,
		QuestionCount: len(quiz.Questions),
		CurrentIndex:  s.Cursor(),
		Participants:  s.Roster().Len(),
	}, nil
}

// Leaderboard returns the current ranking without broadcasting it
func (c *Coordinator) Leaderboard(code model.SessionCode) ([]model.LeaderboardEntry, error) {
	s, err := c.registry.Lookup(code)
	if err != nil {
		return nil, err
	}
	return s.Leaderboard(), nil
}

// RequestLeaderboard recomputes the ranking and pushes it to both rooms
func (c *Coordinator) RequestLeaderboard(code model.SessionCode) ([]model.LeaderboardEntry, error) {
	s, err := c.registry.Lookup(code)
	if err != nil {
		return nil, err
	}

	entries := s.Leaderboard()
	payload := model.LeaderboardPayload{Entries: entries}
	c.hub.Publish(hub.ParticipantRoom(code), model.EventLeaderboard, payload)
	c.hub.Publish(hub.HostRoom(code), model.EventLeaderboard, payload)
	return entries, nil
}

// End completes the session: final leaderboard broadcast, one archive
// attempt, then both rooms close. An archive failure is logged but does
// not undo the end. The Completed session stays in the registry so late
// joins and submissions on the code are rejected as session-ended
// rather than unknown; the idle sweep reclaims the entry later.
func (c *Coordinator) End(ctx context.Context, code model.SessionCode, hostID string) error {
	s, err := c.registry.Lookup(code)
	if err != nil {
		return err
	}

	record, err := s.End(hostID)
	if err != nil {
		return err
	}

	payload := model.SessionEndedPayload{Entries: record.Leaderboard}
	c.hub.Publish(hub.ParticipantRoom(code), model.EventSessionEnded, payload)
	c.hub.Publish(hub.HostRoom(code), model.EventSessionEnded, payload)

	if err := c.archiver.Store(ctx, record); err != nil {
		c.logger.Error("session record archive failed",
			slog.String("code", string(code)),
			slog.String("error", err.Error()))
	}

	c.hub.CloseRoom(hub.ParticipantRoom(code))
	c.hub.CloseRoom(hub.HostRoom(code))
	c.logger.Info("session ended",
		slog.String("code", string(code)),
		slog.Int("participants", len(record.FinalRoster)))
	return nil
}

// QuizData returns the full quiz snapshot for a host attaching to the
// session. This is the explicit pull that replaces event replay for
// late host-room subscribers.
func (c *Coordinator) QuizData(code model.SessionCode) (model.Quiz, error) {
	s, err := c.registry.Lookup(code)
	if err != nil {
		return model.Quiz{}, err
	}
	return s.Quiz(), nil
}

// MarkDisconnected flags a participant as inactive. The participant
// stays in the roster and on the leaderboard; only future delivery to
// them stops (the transport unsubscribes the member).
func (c *Coordinator) MarkDisconnected(code model.SessionCode, participantID model.ParticipantID) {
	s, err := c.registry.Lookup(code)
	if err != nil {
		// Session already torn down; nothing to mark.
		return
	}
	if err := s.Roster().SetConnected(participantID, false); err != nil {
		c.logger.Warn("disconnect for unknown participant",
			slog.String("code", string(code)),
			slog.Int("participant_id", int(participantID)))
	}
}

// SweepIdleSessions runs one registry idle sweep
func (c *Coordinator) SweepIdleSessions(maxIdle time.Duration) int {
	return c.registry.SweepIdle(maxIdle)
}

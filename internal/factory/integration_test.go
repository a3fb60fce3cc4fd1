package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quizwire/quizwire/internal/archive"
	"github.com/quizwire/quizwire/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
	s.app.LoadTestQuizzes()
}

// Test: Complete session flow from creation to archived record
func (s *IntegrationSuite) TestCompleteSessionFlow() {
	s.app.MockRandom.QueueString("AB12C3")
	coord := s.app.Coordinator

	// Step 1: Host creates a session for the quiz
	code, err := coord.CreateSession(s.ctx, "capitals", "host-1")
	s.Require().NoError(err)
	s.Equal(model.SessionCode("AB12C3"), code)

	// Step 2: Two participants join while Waiting
	ada, err := coord.Join(code, "Ada")
	s.Require().NoError(err)
	bob, err := coord.Join(code, "Bob")
	s.Require().NoError(err)

	// Step 3: Host starts and opens the first question
	s.Require().NoError(coord.Start(code, "host-1"))
	s.Require().NoError(coord.Advance(code, "host-1", 0))

	// Step 4: Ada answers correctly, Bob incorrectly
	ack, err := coord.Submit(code, ada.ParticipantID, 1, []int{2}, 3*time.Second)
	s.Require().NoError(err)
	s.True(ack.Correct)
	s.Equal(100, ack.PointsEarned)

	ack, err = coord.Submit(code, bob.ParticipantID, 1, []int{1}, 2*time.Second)
	s.Require().NoError(err)
	s.False(ack.Correct)

	// Step 5: Second question, both correct
	s.Require().NoError(coord.Advance(code, "host-1", 1))
	_, err = coord.Submit(code, ada.ParticipantID, 2, []int{5}, time.Second)
	s.Require().NoError(err)
	_, err = coord.Submit(code, bob.ParticipantID, 2, []int{5}, time.Second)
	s.Require().NoError(err)

	// Step 6: Multi-select question, only Bob gets the full set
	s.Require().NoError(coord.Advance(code, "host-1", 2))
	ack, err = coord.Submit(code, ada.ParticipantID, 3, []int{7}, time.Second)
	s.Require().NoError(err)
	s.False(ack.Correct)
	ack, err = coord.Submit(code, bob.ParticipantID, 3, []int{9, 7}, time.Second)
	s.Require().NoError(err)
	s.True(ack.Correct)

	// Step 7: Host ends the session; Bob wins 300 to 200
	s.Require().NoError(coord.End(s.ctx, code, "host-1"))

	records := s.app.Archiver.(*archive.MemoryArchiver).Records()
	s.Require().Len(records, 1)
	record := records[0]
	s.Equal(code, record.Code)
	s.Equal(model.QuizID("capitals"), record.QuizID)
	s.Len(record.Answers, 6)

	s.Require().Len(record.Leaderboard, 2)
	s.Equal("Bob", record.Leaderboard[0].Nickname)
	s.Equal(300, record.Leaderboard[0].Score)
	s.Equal("Ada", record.Leaderboard[1].Nickname)
	s.Equal(200, record.Leaderboard[1].Score)

	// Step 8: Late traffic on the code sees the session ended
	_, err = coord.Join(code, "Late")
	s.ErrorIs(err, model.ErrSessionEnded)

	// Step 9: The idle sweep eventually releases the code
	s.app.MockClock.Advance(time.Hour)
	s.Equal(1, coord.SweepIdleSessions(30*time.Minute))
	_, err = coord.Join(code, "Late")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Test: Idle Waiting sessions are reclaimed, fresh ones are kept
func (s *IntegrationSuite) TestIdleSweepReclaimsWaitingSessions() {
	s.app.MockRandom.QueueString("IDLE01", "FRESH1")
	coord := s.app.Coordinator

	idle, err := coord.CreateSession(s.ctx, "capitals", "host-1")
	s.Require().NoError(err)

	s.app.MockClock.Advance(45 * time.Minute)

	fresh, err := coord.CreateSession(s.ctx, "capitals", "host-2")
	s.Require().NoError(err)

	s.Equal(1, coord.SweepIdleSessions(30*time.Minute))

	_, err = coord.Status(idle)
	s.ErrorIs(err, model.ErrSessionNotFound)
	_, err = coord.Status(fresh)
	s.NoError(err)
}

package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quizwire/quizwire/internal/dependencies/mocks"
	"github.com/quizwire/quizwire/internal/grading"
	"github.com/quizwire/quizwire/internal/model"
)

func testQuiz() model.Quiz {
	return model.Quiz{
		ID:    "quiz-1",
		Title: "General knowledge",
		Questions: []model.Question{
			{
				ID: 101, Text: "2 + 2?", TimeLimit: 30, Points: 100,
				Options: []model.Option{
					{ID: 1, Text: "3"},
					{ID: 2, Text: "4", Correct: true},
					{ID: 3, Text: "5"},
				},
			},
			{
				ID: 102, Text: "Which are even?", TimeLimit: 20, Points: 200,
				Options: []model.Option{
					{ID: 4, Text: "2", Correct: true},
					{ID: 5, Text: "3"},
					{ID: 6, Text: "6", Correct: true},
				},
			},
		},
	}
}

type SessionSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	session *Session
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC))
	s.session = newSession("AB12C3", "host-1", testQuiz(), grading.FullCredit{}, s.clock)
}

func (s *SessionSuite) startAndOpenFirstQuestion() model.ParticipantID {
	id, err := s.session.Join("Ada")
	s.Require().NoError(err)
	s.Require().NoError(s.session.Start("host-1"))
	_, err = s.session.Advance("host-1", 0)
	s.Require().NoError(err)
	return id
}

// Lifecycle

func (s *SessionSuite) TestNewSessionIsWaiting() {
	s.Equal(model.SessionStateWaiting, s.session.State())
	s.Equal(model.NoQuestion, s.session.Cursor())
}

func (s *SessionSuite) TestStartTransitionsToActive() {
	err := s.session.Start("host-1")
	s.Require().NoError(err)
	s.Equal(model.SessionStateActive, s.session.State())
}

func (s *SessionSuite) TestStartRejectsNonHost() {
	s.ErrorIs(s.session.Start("intruder"), model.ErrNotHost)
	s.Equal(model.SessionStateWaiting, s.session.State())
}

func (s *SessionSuite) TestStartTwiceFails() {
	s.Require().NoError(s.session.Start("host-1"))
	s.ErrorIs(s.session.Start("host-1"), model.ErrInvalidState)
}

func (s *SessionSuite) TestEndRequiresActive() {
	_, err := s.session.End("host-1")
	s.ErrorIs(err, model.ErrInvalidState)
}

func (s *SessionSuite) TestEndTwiceFails() {
	s.Require().NoError(s.session.Start("host-1"))
	_, err := s.session.End("host-1")
	s.Require().NoError(err)
	_, err = s.session.End("host-1")
	s.ErrorIs(err, model.ErrSessionEnded)
}

// Joins

func (s *SessionSuite) TestJoinWhileWaiting() {
	id, err := s.session.Join("Ada")
	s.Require().NoError(err)
	s.Equal(model.ParticipantID(1), id)
}

func (s *SessionSuite) TestSameNicknameCreatesDistinctParticipants() {
	first, err := s.session.Join("Ada")
	s.Require().NoError(err)
	second, err := s.session.Join("Ada")
	s.Require().NoError(err)
	s.NotEqual(first, second)
	s.Equal(2, s.session.Roster().Len())
}

func (s *SessionSuite) TestLateJoinDuringActiveAllowedWithZeroScore() {
	s.startAndOpenFirstQuestion()

	late, err := s.session.Join("Late")
	s.Require().NoError(err)

	score, err := s.session.Roster().Score(late)
	s.Require().NoError(err)
	s.Zero(score)

	// Late joiners are fully eligible for the open question.
	result, err := s.session.Submit(late, 101, []int{2}, 5*time.Second)
	s.Require().NoError(err)
	s.True(result.Correct)
}

func (s *SessionSuite) TestJoinAfterEndRejected() {
	s.Require().NoError(s.session.Start("host-1"))
	_, err := s.session.End("host-1")
	s.Require().NoError(err)

	_, err = s.session.Join("Tardy")
	s.ErrorIs(err, model.ErrSessionEnded)
}

// Advancing

func (s *SessionSuite) TestAdvanceRejectedWhileWaiting() {
	_, err := s.session.Advance("host-1", 0)
	s.ErrorIs(err, model.ErrInvalidState)
	s.Equal(model.NoQuestion, s.session.Cursor())
}

func (s *SessionSuite) TestAdvanceMustBeSequential() {
	s.Require().NoError(s.session.Start("host-1"))

	_, err := s.session.Advance("host-1", 1)
	s.ErrorIs(err, model.ErrOutOfOrderAdvance)
	s.Equal(model.NoQuestion, s.session.Cursor())

	q, err := s.session.Advance("host-1", 0)
	s.Require().NoError(err)
	s.Equal(101, q.ID)

	// Repeating the current index or skipping is rejected, state unchanged.
	_, err = s.session.Advance("host-1", 0)
	s.ErrorIs(err, model.ErrOutOfOrderAdvance)
	s.Equal(0, s.session.Cursor())

	q, err = s.session.Advance("host-1", 1)
	s.Require().NoError(err)
	s.Equal(102, q.ID)
}

func (s *SessionSuite) TestAdvancePastLastQuestionRejected() {
	s.Require().NoError(s.session.Start("host-1"))
	_, err := s.session.Advance("host-1", 0)
	s.Require().NoError(err)
	_, err = s.session.Advance("host-1", 1)
	s.Require().NoError(err)

	_, err = s.session.Advance("host-1", 2)
	s.ErrorIs(err, model.ErrOutOfOrderAdvance)
	s.Equal(1, s.session.Cursor())
}

// Submissions

func (s *SessionSuite) TestSubmitCorrectAnswerScores() {
	id := s.startAndOpenFirstQuestion()

	result, err := s.session.Submit(id, 101, []int{2}, 3*time.Second)
	s.Require().NoError(err)
	s.True(result.Correct)
	s.Equal(100, result.Points)

	score, err := s.session.Roster().Score(id)
	s.Require().NoError(err)
	s.Equal(100, score)
}

func (s *SessionSuite) TestSubmitIncorrectAnswerScoresZero() {
	id := s.startAndOpenFirstQuestion()

	result, err := s.session.Submit(id, 101, []int{1}, 3*time.Second)
	s.Require().NoError(err)
	s.False(result.Correct)

	score, err := s.session.Roster().Score(id)
	s.Require().NoError(err)
	s.Zero(score)
}

func (s *SessionSuite) TestSubmitWhileWaitingRejected() {
	id, err := s.session.Join("Ada")
	s.Require().NoError(err)

	_, err = s.session.Submit(id, 101, []int{2}, time.Second)
	s.ErrorIs(err, model.ErrInvalidState)
}

func (s *SessionSuite) TestDuplicateSubmissionRejected() {
	id := s.startAndOpenFirstQuestion()

	_, err := s.session.Submit(id, 101, []int{2}, time.Second)
	s.Require().NoError(err)

	_, err = s.session.Submit(id, 101, []int{2}, 2*time.Second)
	s.ErrorIs(err, model.ErrDuplicateSubmission)

	score, err := s.session.Roster().Score(id)
	s.Require().NoError(err)
	s.Equal(100, score)
}

func (s *SessionSuite) TestLateSubmissionAfterAdvanceRejected() {
	id := s.startAndOpenFirstQuestion()
	_, err := s.session.Advance("host-1", 1)
	s.Require().NoError(err)

	_, err = s.session.Submit(id, 101, []int{2}, 25*time.Second)
	s.ErrorIs(err, model.ErrQuestionClosed)

	score, scoreErr := s.session.Roster().Score(id)
	s.Require().NoError(scoreErr)
	s.Zero(score)
}

func (s *SessionSuite) TestSubmitUnknownParticipantRejected() {
	s.startAndOpenFirstQuestion()

	_, err := s.session.Submit(999, 101, []int{2}, time.Second)
	s.ErrorIs(err, model.ErrParticipantNotFound)
}

func (s *SessionSuite) TestScoreIsSumOfAcceptedSubmissions() {
	id := s.startAndOpenFirstQuestion()

	_, err := s.session.Submit(id, 101, []int{2}, time.Second)
	s.Require().NoError(err)

	_, err = s.session.Advance("host-1", 1)
	s.Require().NoError(err)
	_, err = s.session.Submit(id, 102, []int{4, 6}, time.Second)
	s.Require().NoError(err)

	score, err := s.session.Roster().Score(id)
	s.Require().NoError(err)
	s.Equal(300, score)
}

// Concurrency

func (s *SessionSuite) TestConcurrentSubmissionsEachGradedExactlyOnce() {
	s.Require().NoError(s.session.Start("host-1"))

	const n = 50
	ids := make([]model.ParticipantID, n)
	for i := range ids {
		id, err := s.session.Join("player")
		s.Require().NoError(err)
		ids[i] = id
	}

	_, err := s.session.Advance("host-1", 0)
	s.Require().NoError(err)

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id model.ParticipantID) {
			defer wg.Done()
			// Each participant retries to exercise the duplicate guard.
			_, _ = s.session.Submit(id, 101, []int{2}, time.Second)
			_, _ = s.session.Submit(id, 101, []int{2}, time.Second)
		}(id)
	}
	wg.Wait()

	total := 0
	for _, entry := range s.session.Roster().Snapshot() {
		s.Equal(100, entry.Score)
		total += entry.Score
	}
	s.Equal(n*100, total)
}

func (s *SessionSuite) TestConcurrentJoinsRacingEndNeverConfirmedThenLost() {
	s.Require().NoError(s.session.Start("host-1"))

	const n = 50
	ids := make([]model.ParticipantID, n)
	errs := make([]error, n)
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			ids[i], errs[i] = s.session.Join("player")
		}(i)
	}

	var record model.SessionRecord
	var endErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		record, endErr = s.session.End("host-1")
	}()

	close(start)
	wg.Wait()
	s.Require().NoError(endErr)

	// Every join confirmed to the caller made the final roster; every
	// join the end beat was rejected, never silently dropped.
	final := make(map[model.ParticipantID]struct{}, len(record.FinalRoster))
	for _, entry := range record.FinalRoster {
		final[entry.ParticipantID] = struct{}{}
	}
	for i := range ids {
		if errs[i] == nil {
			_, ok := final[ids[i]]
			s.True(ok, "confirmed participant %d missing from final roster", ids[i])
		} else {
			s.ErrorIs(errs[i], model.ErrSessionEnded)
		}
	}
	s.Len(record.FinalRoster, len(final))
}

func (s *SessionSuite) TestConcurrentAdvanceOnlyOneSucceeds() {
	s.Require().NoError(s.session.Start("host-1"))

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.session.Advance("host-1", 0)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, model.ErrOutOfOrderAdvance)
		}
	}
	s.Equal(1, succeeded)
	s.Equal(0, s.session.Cursor())
}

// End record

func (s *SessionSuite) TestEndProducesCompleteRecord() {
	ada := s.startAndOpenFirstQuestion()
	grace, err := s.session.Join("Grace")
	s.Require().NoError(err)

	_, err = s.session.Submit(ada, 101, []int{2}, 2*time.Second)
	s.Require().NoError(err)
	_, err = s.session.Submit(grace, 101, []int{1}, 3*time.Second)
	s.Require().NoError(err)

	s.clock.Advance(time.Minute)
	record, err := s.session.End("host-1")
	s.Require().NoError(err)

	s.Equal(model.SessionCode("AB12C3"), record.Code)
	s.Equal(model.QuizID("quiz-1"), record.QuizID)
	s.Equal("host-1", record.HostID)
	s.True(record.EndedAt.After(record.StartedAt))
	s.Len(record.FinalRoster, 2)
	s.Len(record.Answers, 2)

	s.Require().Len(record.Leaderboard, 2)
	s.Equal(ada, record.Leaderboard[0].ParticipantID)
	s.Equal(100, record.Leaderboard[0].Score)
	s.Equal(grace, record.Leaderboard[1].ParticipantID)
	s.Zero(record.Leaderboard[1].Score)
}

func (s *SessionSuite) TestLeaderboardIdempotent() {
	id := s.startAndOpenFirstQuestion()
	_, err := s.session.Submit(id, 101, []int{2}, time.Second)
	s.Require().NoError(err)

	first := s.session.Leaderboard()
	second := s.session.Leaderboard()
	s.Equal(first, second)
}

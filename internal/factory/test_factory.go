package factory

import (
	"time"

	"github.com/quizwire/quizwire/internal/archive"
	"github.com/quizwire/quizwire/internal/catalog"
	"github.com/quizwire/quizwire/internal/dependencies/mocks"
	"github.com/quizwire/quizwire/internal/grading"
	"github.com/quizwire/quizwire/internal/model"
	"github.com/quizwire/quizwire/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	quizzes := catalog.NewMemoryRepository()
	app := newWithDependencies(
		quizzes, quizzes, archive.NewMemoryArchiver(),
		grading.FullCredit{}, mockClock, mockRandom, testutil.NopLogger(),
	)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// LoadTestQuizzes seeds a small quiz set for testing
func (t *TestApp) LoadTestQuizzes() {
	t.Quizzes.Add(model.Quiz{
		ID:    "capitals",
		Title: "World Capitals",
		Questions: []model.Question{
			{
				ID:        1,
				Text:      "Capital of France?",
				TimeLimit: 30,
				Points:    100,
				Options: []model.Option{
					{ID: 1, Text: "Lyon"},
					{ID: 2, Text: "Paris", Correct: true},
					{ID: 3, Text: "Marseille"},
				},
			},
			{
				ID:        2,
				Text:      "Capital of Australia?",
				TimeLimit: 30,
				Points:    100,
				Options: []model.Option{
					{ID: 4, Text: "Sydney"},
					{ID: 5, Text: "Canberra", Correct: true},
					{ID: 6, Text: "Melbourne"},
				},
			},
			{
				ID:        3,
				Text:      "Which are capitals?",
				TimeLimit: 30,
				Points:    200,
				Options: []model.Option{
					{ID: 7, Text: "Ottawa", Correct: true},
					{ID: 8, Text: "Toronto"},
					{ID: 9, Text: "Wellington", Correct: true},
				},
			},
		},
	})
}

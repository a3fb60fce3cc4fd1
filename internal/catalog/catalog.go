// Package catalog provides read-only access to quiz content. The live
// core consumes one immutable snapshot per session at creation time;
// authoring and editing happen elsewhere and never propagate mid-game.
package catalog

import (
	"context"
	"sync"

	"github.com/quizwire/quizwire/internal/model"
)

// Repository loads quiz snapshots for session creation
type Repository interface {
	GetQuiz(ctx context.Context, id model.QuizID) (model.Quiz, error)
}

// MemoryRepository is an in-memory quiz catalog
type MemoryRepository struct {
	mu      sync.RWMutex
	quizzes map[model.QuizID]model.Quiz
}

// NewMemoryRepository creates an empty in-memory catalog
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		quizzes: make(map[model.QuizID]model.Quiz),
	}
}

// Ensure MemoryRepository implements the interface
var _ Repository = (*MemoryRepository)(nil)

// Add registers a quiz in the catalog, replacing any previous version
func (r *MemoryRepository) Add(quiz model.Quiz) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quizzes[quiz.ID] = quiz
}

// GetQuiz returns the quiz with the given ID
func (r *MemoryRepository) GetQuiz(_ context.Context, id model.QuizID) (model.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	quiz, ok := r.quizzes[id]
	if !ok {
		return model.Quiz{}, model.ErrQuizNotFound
	}
	return quiz, nil
}

// Len returns the number of quizzes in the catalog
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.quizzes)
}

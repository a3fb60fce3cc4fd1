package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/quizwire/quizwire/internal/dependencies/clock"
	"github.com/quizwire/quizwire/internal/dependencies/random"
	"github.com/quizwire/quizwire/internal/grading"
	"github.com/quizwire/quizwire/internal/model"
)

const (
	// CodeLength is the length of generated session codes
	CodeLength = 6
	// CodeAlphabet is the characters used in session codes
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// maxMintAttempts bounds code generation retries on collision
	maxMintAttempts = 10
)

// Registry is the process-wide lookup from join code to active session.
// It is initialized empty at process start; entries leave it only through
// Remove or the idle sweep. Sessions are fully independent once created,
// so the registry lock covers only the map itself.
type Registry struct {
	clock  clock.Clock
	random random.Random
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[model.SessionCode]*Session
}

// NewRegistry creates an empty session registry
func NewRegistry(clk clock.Clock, rnd random.Random, logger *slog.Logger) *Registry {
	return &Registry{
		clock:    clk,
		random:   rnd,
		logger:   logger.With(slog.String("component", "registry")),
		sessions: make(map[model.SessionCode]*Session),
	}
}

// Create mints a fresh unique code and binds a Waiting session to it.
// The check-and-insert is atomic under the registry lock, so concurrent
// creates can never both claim the same code. Minting retries a bounded
// number of times and fails with ErrCodeSpaceExhausted if every attempt
// collides.
func (r *Registry) Create(quiz model.Quiz, hostID string, strategy grading.Strategy) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		code := model.SessionCode(r.random.String(CodeLength, CodeAlphabet))
		if _, taken := r.sessions[code]; taken {
			continue
		}

		s := newSession(code, hostID, quiz, strategy, r.clock)
		r.sessions[code] = s
		r.logger.Info("session created",
			slog.String("code", string(code)),
			slog.String("quiz_id", string(quiz.ID)),
			slog.String("host_id", hostID))
		return s, nil
	}

	return nil, model.ErrCodeSpaceExhausted
}

// Lookup returns the session bound to a code
func (r *Registry) Lookup(code model.SessionCode) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[code]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return s, nil
}

// Remove tears down a session and releases its code for reuse
func (r *Registry) Remove(code model.SessionCode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[code]; ok {
		delete(r.sessions, code)
		r.logger.Info("session removed", slog.String("code", string(code)))
	}
}

// Len returns the number of active sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// SweepIdle removes Waiting sessions nobody started and Completed
// sessions past their post-end lingering window, in both cases after at
// least maxIdle without activity. Completed sessions stay registered
// until swept so that late traffic on the code sees the session-ended
// rejection rather than an unknown code. Active sessions are never
// swept: only the host's explicit end terminates a running game.
// Returns the number of sessions removed.
func (r *Registry) SweepIdle(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.clock.Now().Add(-maxIdle)
	removed := 0
	for code, s := range r.sessions {
		if s.State() == model.SessionStateActive {
			continue
		}
		if s.IdleSince().Before(cutoff) {
			delete(r.sessions, code)
			removed++
			r.logger.Info("idle session swept",
				slog.String("code", string(code)),
				slog.String("state", string(s.State())))
		}
	}
	return removed
}

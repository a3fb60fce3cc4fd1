package session

import (
	"sync"
	"sync/atomic"

	"github.com/quizwire/quizwire/internal/model"
)

// participant is the roster's internal participant state. Score and
// liveness use atomics so concurrent updates for different participants
// never contend on the roster lock.
type participant struct {
	id        model.ParticipantID
	nickname  string
	joinOrder int
	score     atomic.Int64
	connected atomic.Bool
}

// Roster is the live set of participants attached to one session.
// Nicknames are display-only and not identity: two joins with the same
// nickname create two distinct participants.
type Roster struct {
	mu           sync.RWMutex
	participants map[model.ParticipantID]*participant
	order        []model.ParticipantID
	nextID       model.ParticipantID
}

// NewRoster creates an empty roster
func NewRoster() *Roster {
	return &Roster{
		participants: make(map[model.ParticipantID]*participant),
	}
}

// Join adds a participant and returns its session-scoped sequential ID
func (r *Roster) Join(nickname string) model.ParticipantID {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	p := &participant{
		id:        r.nextID,
		nickname:  nickname,
		joinOrder: len(r.order),
	}
	p.connected.Store(true)
	r.participants[p.id] = p
	r.order = append(r.order, p.id)
	return p.id
}

// Contains reports whether the participant is in the roster
func (r *Roster) Contains(id model.ParticipantID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.participants[id]
	return ok
}

// AddScore atomically increments a participant's score. Increments for
// different participants proceed independently; increments for the same
// participant serialize on its atomic counter.
func (r *Roster) AddScore(id model.ParticipantID, delta int) error {
	r.mu.RLock()
	p, ok := r.participants[id]
	r.mu.RUnlock()
	if !ok {
		return model.ErrParticipantNotFound
	}
	p.score.Add(int64(delta))
	return nil
}

// Score returns a participant's current score
func (r *Roster) Score(id model.ParticipantID) (int, error) {
	r.mu.RLock()
	p, ok := r.participants[id]
	r.mu.RUnlock()
	if !ok {
		return 0, model.ErrParticipantNotFound
	}
	return int(p.score.Load()), nil
}

// SetConnected flags a participant's connection liveness. Disconnected
// participants stay in the roster so prior grading and the final record
// remain intact.
func (r *Roster) SetConnected(id model.ParticipantID, connected bool) error {
	r.mu.RLock()
	p, ok := r.participants[id]
	r.mu.RUnlock()
	if !ok {
		return model.ErrParticipantNotFound
	}
	p.connected.Store(connected)
	return nil
}

// Len returns the number of participants
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}

// Snapshot returns all participants in join order
func (r *Roster) Snapshot() []model.RosterEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]model.RosterEntry, 0, len(r.order))
	for _, id := range r.order {
		p := r.participants[id]
		entries = append(entries, model.RosterEntry{
			ParticipantID: p.id,
			Nickname:      p.nickname,
			Score:         int(p.score.Load()),
			JoinOrder:     p.joinOrder,
			Connected:     p.connected.Load(),
		})
	}
	return entries
}

// Package archive hands completed session records to the durable store.
// The core makes exactly one store attempt per session; a failure is
// reported, never retried and never fatal to the session.
package archive

import (
	"context"
	"sync"

	"github.com/quizwire/quizwire/internal/model"
)

// Archiver persists one completed session record
type Archiver interface {
	Store(ctx context.Context, record model.SessionRecord) error
}

// MemoryArchiver keeps records in memory, for tests and single-process use
type MemoryArchiver struct {
	mu      sync.Mutex
	records []model.SessionRecord
}

// NewMemoryArchiver creates an empty in-memory archiver
func NewMemoryArchiver() *MemoryArchiver {
	return &MemoryArchiver{}
}

// Ensure MemoryArchiver implements the interface
var _ Archiver = (*MemoryArchiver)(nil)

// Store appends the record
func (a *MemoryArchiver) Store(_ context.Context, record model.SessionRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, record)
	return nil
}

// Records returns a copy of everything stored so far
func (a *MemoryArchiver) Records() []model.SessionRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.SessionRecord, len(a.records))
	copy(out, a.records)
	return out
}

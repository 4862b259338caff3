// Package recents keeps a small in-memory ring of the latest resolved
// searches, exposed read-only for operators. Nothing here persists.
package recents

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultSize = 50

// Entry records one completed place search.
type Entry struct {
	ID            uuid.UUID `json:"id"`
	Query         string    `json:"query"`
	ResolvedQuery string    `json:"resolved_query"`
	Category      *string   `json:"category,omitempty"`
	Results       int       `json:"results"`
	SearchedAt    time.Time `json:"searched_at"`
}

// Tracker holds the most recent entries, newest first. A nil Tracker is
// valid and records nothing, so services can run without one.
type Tracker struct {
	mu      sync.Mutex
	size    int
	entries []Entry
}

func NewTracker(size int) *Tracker {
	if size <= 0 {
		size = defaultSize
	}
	return &Tracker{size: size}
}

// Record prepends one search, dropping the oldest entry when full.
func (t *Tracker) Record(query, resolvedQuery string, category *string, results int) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := Entry{
		ID:            uuid.New(),
		Query:         query,
		ResolvedQuery: resolvedQuery,
		Category:      category,
		Results:       results,
		SearchedAt:    time.Now().UTC(),
	}
	t.entries = append([]Entry{entry}, t.entries...)
	if len(t.entries) > t.size {
		t.entries = t.entries[:t.size]
	}
}

// List returns a copy of the recorded entries, newest first.
func (t *Tracker) List() []Entry {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Package session keeps the per-session log of questions and answers.
package session

import (
	"sync"
	"time"

	"github.com/j-veylop/material-forecast-tui/internal/query"
)

// Entry is one answered query.
type Entry struct {
	At     time.Time
	Query  string
	Answer query.Answer
}

// Transcript is an append-only ordered log of entries. It is safe for
// concurrent use.
type Transcript struct {
	mu      sync.RWMutex
	entries []Entry
}

// New creates an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// Append records an answered query and returns the stored entry.
func (t *Transcript) Append(q string, a query.Answer) Entry {
	e := Entry{At: time.Now(), Query: q, Answer: a}

	t.mu.Lock()
	t.entries = append(t.entries, e)
	t.mu.Unlock()

	return e
}

// Entries returns a copy of all entries in insertion order.
func (t *Transcript) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Last returns the most recent entry.
func (t *Transcript) Last() (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.entries) == 0 {
		return Entry{}, false
	}
	return t.entries[len(t.entries)-1], true
}

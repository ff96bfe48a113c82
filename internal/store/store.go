package store

import (
	"sync"
	"time"

	"github.com/netlogs/netincident/internal/analyze"
)

// Entry is a report together with the time it was stored.
type Entry struct {
	// Seq increases by one on every Put, starting at 1.
	Seq       uint64
	Report    *analyze.Report
	UpdatedAt time.Time
}

// Store is a thread-safe in-memory report store. It keeps the latest entry
// and up to limit entries in total, oldest dropped first.
type Store struct {
	mu      sync.RWMutex
	entries []*Entry // oldest first
	limit   int
	seq     uint64
	subs    map[chan struct{}]struct{}
	now     func() time.Time // injectable for deterministic tests
}

// New creates a Store that retains at most limit entries. A limit below one
// is treated as one.
func New(limit int) *Store {
	if limit < 1 {
		limit = 1
	}
	return &Store{
		limit: limit,
		subs:  make(map[chan struct{}]struct{}),
		now:   time.Now,
	}
}

// Put records rep as the latest report and wakes every subscriber.
// Callers must not modify rep after calling Put.
func (s *Store) Put(rep *analyze.Report) *Entry {
	s.mu.Lock()
	s.seq++
	e := &Entry{Seq: s.seq, Report: rep, UpdatedAt: s.now()}
	s.entries = append(s.entries, e)
	if over := len(s.entries) - s.limit; over > 0 {
		// Copy so the backing array does not keep dropped reports alive.
		s.entries = append([]*Entry(nil), s.entries[over:]...)
	}
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
			// A signal is already pending; the subscriber will read Latest.
		}
	}
	s.mu.Unlock()
	return e
}

// Latest returns the most recent entry and whether one exists.
func (s *Store) Latest() (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.entries) == 0 {
		return nil, false
	}
	return s.entries[len(s.entries)-1], true
}

// LatestReport returns the most recent report, or nil before the first Put.
func (s *Store) LatestReport() *analyze.Report {
	if e, ok := s.Latest(); ok {
		return e.Report
	}
	return nil
}

// History returns the retained entries, newest first.
func (s *Store) History() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Entry, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		out = append(out, s.entries[i])
	}
	return out
}

// Count returns the number of retained entries.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Subscribe returns a channel that receives a value after every Put, and a
// cancel func that removes the subscription. Signals coalesce: a slow reader
// sees at least one signal per burst of Puts, not one per Put.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
		})
	}
}

// Package session holds uploaded datasets in memory for the lifetime of
// a user session. Nothing is persisted: abandoning a session discards
// all state, and the store sweeps idle sessions on a TTL.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"spendlens/pkg/contracts/domain"
)

// Session is one uploaded dataset plus the user's filter selection and
// any hand edits. Records is the full normalized dataset; Edited, when
// non-nil, replaces the filtered subset as the working row set. Filter
// changes clear Edited because the edit surface is always the filtered
// view.
type Session struct {
	ID         string
	SourceName string
	Records    []domain.Record
	Filters    domain.FilterState
	Edited     []domain.Record
	CreatedAt  time.Time
	LastAccess time.Time
}

// WorkingSet returns the rows every downstream stage operates on: the
// edited replacement set when one exists, else the filtered subset.
func (s *Session) WorkingSet(apply func([]domain.Record, domain.FilterState) []domain.Record) []domain.Record {
	if s.Edited != nil {
		return s.Edited
	}
	return apply(s.Records, s.Filters)
}

// Store is a mutex-guarded in-memory session registry with TTL
// eviction.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewStore creates a session store. Sessions idle longer than ttl are
// removed by Sweep.
func NewStore(ttl time.Duration, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   logger.With(slog.String("component", "session_store")),
		now:      time.Now,
	}
}

// Create registers a new session for a normalized dataset and returns
// it with a fresh UUID.
func (st *Store) Create(sourceName string, records []domain.Record, filters domain.FilterState) *Session {
	now := st.now()
	s := &Session{
		ID:         uuid.New().String(),
		SourceName: sourceName,
		Records:    records,
		Filters:    filters,
		CreatedAt:  now,
		LastAccess: now,
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	st.logger.Info("session created",
		slog.String("session_id", s.ID),
		slog.String("source", sourceName),
		slog.Int("records", len(records)))
	return s
}

// Get returns a snapshot of the session with the given ID and refreshes
// its idle timer, or ok=false when the session does not exist (or was
// evicted). The snapshot is a shallow copy taken under the lock: record
// slices are only ever replaced wholesale by Update, never mutated in
// place, so readers of a snapshot never race with writers.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	s.LastAccess = st.now()
	snapshot := *s
	return &snapshot, true
}

// Update runs fn against the session under the store lock so filter and
// edit mutations never race with concurrent readers of the same
// session.
func (st *Store) Update(id string, fn func(*Session)) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return false
	}
	s.LastAccess = st.now()
	fn(s)
	return true
}

// Delete discards a session. Deleting an unknown ID is a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes sessions idle longer than the TTL and returns how many
// were evicted.
func (st *Store) Sweep() int {
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	evicted := 0
	for id, s := range st.sessions {
		if s.LastAccess.Before(cutoff) {
			delete(st.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		st.logger.Info("swept idle sessions", slog.Int("evicted", evicted))
	}
	return evicted
}

// Run sweeps on the given interval until the context is cancelled.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep()
		}
	}
}

// Package memory implements the store contract entirely in process
// memory. It exists for tests and credential-free local development and
// must stay behaviorally identical to the sqlite driver as seen through
// the store interfaces.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/domain"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/store"
)

type Store struct {
	state *state
}

// state is the whole database. Transactions snapshot it wholesale; the
// entity counts here are small enough that copying is cheaper than
// per-row bookkeeping.
type state struct {
	mu sync.RWMutex

	users    map[string]domain.User
	options  []domain.StatusOption // insertion order preserved for the sort tie rule
	history  []domain.StatusHistory
	syncRuns []domain.SyncRun
	seeded   bool
}

// accessor mediates locking for the repositories. Repos reached through
// the root store take the state lock per call; repos reached through a
// transaction skip it because the transaction already holds it.
type accessor struct {
	st   *state
	held bool
}

func (a accessor) lock() func() {
	if a.held {
		return func() {}
	}
	a.st.mu.Lock()
	return a.st.mu.Unlock
}

func (a accessor) rlock() func() {
	if a.held {
		return func() {}
	}
	a.st.mu.RLock()
	return a.st.mu.RUnlock
}

func NewStore() *Store {
	return &Store{state: &state{
		users: make(map[string]domain.User),
	}}
}

func (s *Store) Close() error                   { return nil }
func (s *Store) Ping(ctx context.Context) error { return nil }

// ApplyMigrations seeds the default status-option catalog, mirroring
// the sqlite seed migration.
func (s *Store) ApplyMigrations() error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if s.state.seeded {
		return nil
	}
	seed := []struct {
		name, color, order string
	}{
		{"Available", "green", "0"},
		{"In Meeting", "amber", "1"},
		{"Out", "red", "2"},
		{"Do Not Disturb", "purple", "3"},
		{"Be Right Back", "blue", "4"},
	}
	now := time.Now().UTC()
	for _, o := range seed {
		s.state.options = append(s.state.options, domain.StatusOption{
			ID:        "memseed-" + o.order,
			Name:      o.name,
			Color:     o.color,
			SortOrder: o.order,
			CreatedAt: now,
		})
	}
	s.state.seeded = true
	return nil
}

func (s *Store) access() accessor { return accessor{st: s.state} }

func (s *Store) Users() store.Users                 { return &usersRepo{a: s.access()} }
func (s *Store) StatusOptions() store.StatusOptions { return &statusOptionsRepo{a: s.access()} }
func (s *Store) StatusHistory() store.StatusHistory { return &statusHistoryRepo{a: s.access()} }
func (s *Store) SyncRuns() store.SyncRuns           { return &syncRunsRepo{a: s.access()} }

// Tx locks the store for the duration of the transaction and keeps a
// snapshot for rollback. This gives the same atomicity the sqlite
// driver gets from BEGIN/COMMIT, at the cost of serializing writers,
// which is acceptable for this backend's intended use.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	s.state.mu.Lock()
	return &txStore{
		state:    s.state,
		snapshot: s.state.clone(),
	}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// clone deep-copies the mutable state. Caller holds the lock.
func (st *state) clone() *state {
	users := make(map[string]domain.User, len(st.users))
	for k, v := range st.users {
		users[k] = v
	}
	return &state{
		users:    users,
		options:  append([]domain.StatusOption(nil), st.options...),
		history:  append([]domain.StatusHistory(nil), st.history...),
		syncRuns: append([]domain.SyncRun(nil), st.syncRuns...),
		seeded:   st.seeded,
	}
}

// restore copies snapshot data back. Caller holds the lock.
func (st *state) restore(snap *state) {
	st.users = snap.users
	st.options = snap.options
	st.history = snap.history
	st.syncRuns = snap.syncRuns
	st.seeded = snap.seeded
}

func sortedUsers(users map[string]domain.User) []domain.User {
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

package memory

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/store"
)

type txStore struct {
	state    *state
	snapshot *state
	done     bool
}

func (t *txStore) Commit() error {
	if t.done {
		return sql.ErrTxDone
	}
	t.done = true
	t.state.mu.Unlock()
	return nil
}

func (t *txStore) Rollback() error {
	if t.done {
		return sql.ErrTxDone
	}
	t.done = true
	t.state.restore(t.snapshot)
	t.state.mu.Unlock()
	return nil
}

func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }
func (t *txStore) ApplyMigrations() error         { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported, matching the sqlite driver.
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) access() accessor { return accessor{st: t.state, held: true} }

func (t *txStore) Users() store.Users                 { return &usersRepo{a: t.access()} }
func (t *txStore) StatusOptions() store.StatusOptions { return &statusOptionsRepo{a: t.access()} }
func (t *txStore) StatusHistory() store.StatusHistory { return &statusHistoryRepo{a: t.access()} }
func (t *txStore) SyncRuns() store.SyncRuns           { return &syncRunsRepo{a: t.access()} }

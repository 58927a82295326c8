package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// memory) implement this with identical externally observable behavior;
// the service layer never sees which backend it is talking to. It
// exposes sub-repositories to keep concerns tidy and testable.
type Store interface {
	Users() Users
	StatusOptions() StatusOptions
	StatusHistory() StatusHistory
	SyncRuns() SyncRuns

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back if fn
	// returns an error and committing otherwise. This is the
	// recommended entry point for multi-step atomic operations.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backend is still reachable.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetByID returns a user by id.
	GetByID(ctx context.Context, id string) (domain.User, error)

	// GetByUsername is used during credential verification.
	GetByUsername(ctx context.Context, username string) (domain.User, error)

	// List returns all users ordered by username.
	List(ctx context.Context) ([]domain.User, error)

	// Create inserts a new user (id is provided by the app via ULID).
	// A username collision surfaces as ErrAlreadyExists.
	Create(ctx context.Context, u domain.User) error

	// Update replaces the mutable profile and credential fields of an
	// existing user. Status fields are not touched; use UpdateStatus.
	Update(ctx context.Context, u domain.User) error

	// UpdateStatus atomically sets current_status, custom_status_text
	// and last_updated in one write.
	UpdateStatus(ctx context.Context, userID, status, customText string) error

	// Delete removes a user. History rows cascade (per schema).
	Delete(ctx context.Context, userID string) error

	// IsEmpty reports whether there are no users (bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)
}

type StatusOptions interface {
	// List returns all options sorted by numeric sort order, with
	// unparsable orders last and ties broken by insertion order.
	List(ctx context.Context) ([]domain.StatusOption, error)

	Get(ctx context.Context, id string) (domain.StatusOption, error)

	// Create inserts a new option. A name collision surfaces as
	// ErrAlreadyExists.
	Create(ctx context.Context, o domain.StatusOption) error

	Update(ctx context.Context, o domain.StatusOption) error
	Delete(ctx context.Context, id string) error
}

type StatusHistory interface {
	// Create appends one immutable history entry.
	Create(ctx context.Context, h domain.StatusHistory) error

	// ListForUser returns up to limit entries for a user, newest first.
	// limit <= 0 means no limit.
	ListForUser(ctx context.Context, userID string, limit int) ([]domain.StatusHistory, error)
}

type SyncRuns interface {
	// Create appends one ledger entry.
	Create(ctx context.Context, run domain.SyncRun) error

	// Latest returns the most recent ledger entry, or ErrNotFound when
	// no sync has ever run.
	Latest(ctx context.Context) (domain.SyncRun, error)
}

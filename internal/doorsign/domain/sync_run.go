package domain

import "time"

// SyncRun records one bulk reconciliation attempt against the e-paper
// provider. The ledger is append-only; the most recent entry is the
// canonical sync health indicator.
type SyncRun struct {
	ID           string
	Success      bool
	ErrorMessage string
	UpdatedCount int
	CreatedAt    time.Time
}

package domain

import "time"

// StatusHistory is one immutable audit entry for a status change.
// Entries are never updated or deleted except by cascading deletion of
// the owning user.
type StatusHistory struct {
	ID         string
	UserID     string
	Status     string
	CustomText string
	ChangedBy  string // actor user id; empty when unknown
	CreatedAt  time.Time
}

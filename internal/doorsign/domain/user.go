package domain

import "time"

// Roles a user can hold. There is no scope system; the two roles cover
// the whole authorization surface.
const (
	RoleAdmin   = "admin"
	RoleRegular = "regular"
)

// DefaultStatus is assigned to newly created users.
const DefaultStatus = "Available"

// MaxStatusLen bounds both the status value and the custom status text.
const MaxStatusLen = 50

// User unifies the authenticated account and the door-sign subject.
type User struct {
	ID           string
	Username     string
	PasswordHash string // argon2 encoded
	Role         string // RoleAdmin or RoleRegular
	FirstName    string
	LastName     string
	Email        string
	AvatarURL    string

	// E-paper integration. EpaperID is the stable identifier used to key
	// this user on the external display; the URL/key pairs are the
	// per-user provider credentials. All optional: a user without them
	// simply does not participate in external sync.
	EpaperID        string
	EpaperImportURL string
	EpaperImportKey string
	EpaperExportURL string
	EpaperExportKey string

	CurrentStatus    string
	CustomStatusText string
	LastUpdated      time.Time
	CreatedAt        time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// CanPush reports whether the user carries enough configuration for an
// outbound e-paper update.
func (u User) CanPush() bool {
	return u.EpaperID != "" && u.EpaperImportURL != "" && u.EpaperImportKey != ""
}

// CanPull reports whether the user carries enough configuration for an
// inbound e-paper fetch.
func (u User) CanPull() bool {
	return u.EpaperID != "" && u.EpaperExportURL != "" && u.EpaperExportKey != ""
}

// StatusKey is the key under which the provider reports this user's
// status, derived from the explicit EpaperID and nothing else.
func (u User) StatusKey() string { return u.EpaperID + "_status" }

// EffectiveStatus is the value shown on the physical sign: the custom
// text when present, otherwise the named status.
func (u User) EffectiveStatus() string {
	if u.CustomStatusText != "" {
		return u.CustomStatusText
	}
	return u.CurrentStatus
}

package service

import "errors"

// Error taxonomy surfaced to the HTTP layer. Errors that prevent a
// local commit propagate to the caller; errors occurring after a commit
// (history logging, e-paper push) are logged and swallowed here.
var (
	// ErrValidation covers bad input shape. Maps to 400.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials is deliberately indistinguishable between an
	// unknown username and a wrong password. Maps to 401.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUnauthenticated means no usable session. Maps to 401.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden means authenticated but not authorized for this
	// resource. Maps to 403.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the target entity is absent. Maps to 404.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is a uniqueness violation the caller can fix. Maps
	// to 400.
	ErrDuplicate = errors.New("already exists")
)

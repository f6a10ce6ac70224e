package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced ghost name or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when records changed between read and write.
	ErrConflict = errors.New("concurrency conflict")
	// ErrStoreUnavailable wraps failures of the underlying store.
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrIdentityRequired = errors.New("identity required")
	ErrInvalidProfile   = errors.New("invalid profile")
)

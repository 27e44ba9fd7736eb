package domain

import "errors"

// Sentinel errors for errors.Is() checking. Store adapters wrap these with
// backend detail; inbound adapters map them to HTTP status codes.
var (
	// ErrNotFound means the addressed entity does not exist in the store.
	ErrNotFound = errors.New("not found")

	// ErrConflict means the store rejected a write: the entity's concurrency
	// token no longer matches, or an insert hit an existing key.
	ErrConflict = errors.New("conflict")

	// ErrUnavailable means the store could not be reached or refused the
	// request for transport or authorization reasons.
	ErrUnavailable = errors.New("unavailable")
)

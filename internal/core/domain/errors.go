package domain

import "errors"

// Domain errors represent business logic failures.
// Transport and server failures are not listed here; they reach callers
// unmodified from the driven adapters.
var (
	// ErrNotFound indicates a requested entity does not exist in the store.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates a required service or setting is missing.
	ErrNotConfigured = errors.New("not configured")

	// ErrUnsupportedFormat indicates an unknown upload or export format.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrNoCurrentDocument indicates an annotation or connection operation
	// was dispatched without a current document, or the current document
	// is no longer on the loaded page.
	ErrNoCurrentDocument = errors.New("no current document")

	// ErrDanglingConnection indicates a connection endpoint does not exist
	// in the owning document's annotations.
	ErrDanglingConnection = errors.New("connection endpoint does not exist")
)

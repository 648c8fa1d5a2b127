package repositories

import "errors"

// Sentinel errors returned by the repositories. Services translate these
// into HTTP-facing errors.
var (
	// ErrNotFound means the requested document does not exist (including
	// malformed ObjectIDs, which can never match a document).
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey means a unique index rejected the write.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInsufficientStock means a conditional stock decrement found fewer
	// units than requested.
	ErrInsufficientStock = errors.New("insufficient stock")
)

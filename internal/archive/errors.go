package archive

import "errors"

var (
	// ErrValidation indicates malformed input to a create or update call.
	// The call is rejected before any state change.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound indicates an operation on a nonexistent id.
	ErrNotFound = errors.New("not found")

	// ErrImmutableField indicates an update attempted to change a field
	// that is fixed at creation (memory type, creation timestamp).
	ErrImmutableField = errors.New("immutable field")

	// ErrDanglingReference indicates an album mutation referenced a memory
	// that does not exist.
	ErrDanglingReference = errors.New("memory does not exist")

	// ErrNotReady indicates a mutation was attempted before the initial
	// load from storage completed. Writing before load would clobber the
	// persisted archive with empty state.
	ErrNotReady = errors.New("archive not ready")
)

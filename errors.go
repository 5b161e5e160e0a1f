package storebridge

import (
	"errors"
	"fmt"
)

var (
	// ErrNoReactiveScope is returned when a reactive cell is constructed
	// outside a host-managed reactive scope.
	ErrNoReactiveScope = errors.New("reactive cell requires a reactive scope in the context")

	// ErrScopeClosed is returned when a cell is constructed in a scope that
	// has already been closed.
	ErrScopeClosed = errors.New("reactive scope is closed")
)

// ContextViolationError reports an operation invoked outside the context it
// requires. It names the violated precondition.
type ContextViolationError struct {
	Op           string // operation that was attempted, e.g. "accessor.NewCell"
	Precondition string // what the caller had to provide
	Err          error  // ErrNoReactiveScope or ErrScopeClosed
}

// Error returns a diagnostic naming the operation and the precondition.
func (e *ContextViolationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Precondition, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *ContextViolationError) Unwrap() error {
	return e.Err
}

// SnapshotError reports a snapshot read that ended before the projection
// produced a value.
type SnapshotError struct {
	Projection string // projection path
	Err        error  // context error that ended the wait
}

// Error returns a formatted message describing the unresolved snapshot.
func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot of %s unresolved: %v", e.Projection, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *SnapshotError) Unwrap() error {
	return e.Err
}

// IsContextViolation reports whether err is a ContextViolationError.
func IsContextViolation(err error) bool {
	var cv *ContextViolationError
	return errors.As(err, &cv)
}

package accessor

import (
	"context"
	"sync"

	"github.com/spetersoncode/storebridge"
	"github.com/spetersoncode/storebridge/lens"
	"github.com/spetersoncode/storebridge/store"
)

// scopeKey is the context key for the reactive scope.
type scopeKey struct{}

// Scope is the registration window reactive cells live in. The host opens
// one per view (or request), attaches it with WithScope, and closes it when
// the view goes away, which releases every cell created in it.
type Scope struct {
	mu       sync.Mutex
	closed   bool
	releases []func()
}

// NewScope creates an open scope.
func NewScope() *Scope {
	return &Scope{}
}

// WithScope returns a new context with the scope attached.
func WithScope(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFromContext retrieves the scope from the context.
// Returns nil if no scope is attached.
func ScopeFromContext(ctx context.Context) *Scope {
	if ctx == nil {
		return nil
	}
	if s, ok := ctx.Value(scopeKey{}).(*Scope); ok {
		return s
	}
	return nil
}

// Close releases every cell of the scope. Later cell construction in the
// scope fails with storebridge.ErrScopeClosed.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	releases := s.releases
	s.releases = nil
	s.mu.Unlock()

	for i := len(releases) - 1; i >= 0; i-- {
		releases[i]()
	}
}

// Closed reports whether Close has been called.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Len returns the number of live registrations.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.releases)
}

func (s *Scope) add(release func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.releases = append(s.releases, release)
	return true
}

// Cell is a synchronously readable, always current projected value.
type Cell[T any] struct {
	mu    sync.RWMutex
	value T
	seq   uint64
}

// NewCell creates a cell of p over r that holds initial until the store
// publishes a value. ctx must carry an open Scope; otherwise NewCell fails
// immediately with a *storebridge.ContextViolationError.
func NewCell[T any](ctx context.Context, r store.Reader, p lens.StateProjection[T], initial T) (*Cell[T], error) {
	return newCell(ctx, "accessor.NewCell", NewStream(r, p), initial)
}

func newCell[T any](ctx context.Context, op string, s *Stream[T], initial T) (*Cell[T], error) {
	scope := ScopeFromContext(ctx)
	if scope == nil {
		return nil, &storebridge.ContextViolationError{
			Op:           op,
			Precondition: "context must carry a reactive scope (accessor.WithScope)",
			Err:          storebridge.ErrNoReactiveScope,
		}
	}
	if scope.Closed() {
		return nil, scopeClosed(op)
	}

	c := &Cell[T]{value: initial}
	cancel := s.observe(c.set)
	if !scope.add(cancel) {
		cancel()
		return nil, scopeClosed(op)
	}
	return c, nil
}

func scopeClosed(op string) error {
	return &storebridge.ContextViolationError{
		Op:           op,
		Precondition: "reactive scope must be open",
		Err:          storebridge.ErrScopeClosed,
	}
}

// Get returns the latest value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

func (c *Cell[T]) set(seq uint64, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.seq {
		return
	}
	c.seq = seq
	c.value = v
}

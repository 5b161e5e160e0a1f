package accessor

import (
	"context"
	"sync"

	"github.com/spetersoncode/storebridge/lens"
	"github.com/spetersoncode/storebridge/store"
)

// Source is the type-erased view of a Selector, for surfaces that list
// selectors without knowing their value types.
type Source interface {
	Name() string
	Path() string
	DefaultValue() any
	Value(ctx context.Context) (any, error)
	Watch(fn func(any)) (cancel func())
}

// Selector binds one projection to a reader and exposes every access mode.
type Selector[T any] struct {
	reader store.Reader
	proj   lens.StateProjection[T]
	opts   []SnapshotOption

	once   sync.Once
	stream *Stream[T]
}

var _ Source = (*Selector[int])(nil)

// NewSelector creates a selector of p over r. opts apply to every snapshot.
func NewSelector[T any](r store.Reader, p lens.StateProjection[T], opts ...SnapshotOption) *Selector[T] {
	return &Selector[T]{reader: r, proj: p, opts: opts}
}

// Stream returns the shared stream of the selector.
func (s *Selector[T]) Stream() *Stream[T] {
	s.once.Do(func() {
		s.stream = NewStream(s.reader, s.proj)
	})
	return s.stream
}

// Snapshot returns the current value, waiting for the store to be ready.
func (s *Selector[T]) Snapshot(ctx context.Context, opts ...SnapshotOption) (T, error) {
	return Snapshot(ctx, s.reader, s.proj, append(append([]SnapshotOption(nil), s.opts...), opts...)...)
}

// Cell returns a cell starting at the projection default.
// ctx must carry an open Scope.
func (s *Selector[T]) Cell(ctx context.Context) (*Cell[T], error) {
	return newCell(ctx, "accessor.Selector.Cell("+s.proj.Name()+")", s.Stream(), s.proj.Default())
}

// Projection returns the selector's projection.
func (s *Selector[T]) Projection() lens.StateProjection[T] {
	return s.proj
}

// Name returns the selector name.
func (s *Selector[T]) Name() string {
	return s.proj.Name()
}

// Path returns the traversal from the slice root.
func (s *Selector[T]) Path() string {
	return s.proj.Path()
}

// Default returns the value read while the source is absent.
func (s *Selector[T]) Default() T {
	return s.proj.Default()
}

// DefaultValue returns Default as any.
func (s *Selector[T]) DefaultValue() any {
	return s.proj.Default()
}

// Value returns Snapshot as any.
func (s *Selector[T]) Value(ctx context.Context) (any, error) {
	v, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Watch observes the selector's stream with an untyped callback.
func (s *Selector[T]) Watch(fn func(any)) func() {
	return s.Stream().Observe(func(v T) { fn(v) })
}

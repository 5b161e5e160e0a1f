package lens

import "github.com/spetersoncode/storebridge/store"

// Projection is a total, side-effect-free function from S to T with a
// documented default. It never reports absence.
type Projection[S, T any] struct {
	name string
	path string
	def  T
	get  func(S) (T, bool)
}

// StateProjection is a projection over store state.
type StateProjection[T any] = Projection[store.State, T]

// Or closes a lens with def, returned whenever any step is absent.
func Or[S, T any](name string, l Lens[S, T], def T) Projection[S, T] {
	return Projection[S, T]{name: name, path: l.Path(), def: def, get: l.get}
}

// Map derives a projection by applying fn to the value of p.
// The result shares p's path and its default is fn(p.Default()), so fn is
// evaluated the same way whether the source is present or not.
func Map[S, T, U any](name string, p Projection[S, T], fn func(T) U) Projection[S, U] {
	return Projection[S, U]{
		name: name,
		path: p.path,
		def:  fn(p.def),
		get: func(s S) (U, bool) {
			return fn(p.Get(s)), true
		},
	}
}

// Get evaluates the projection against s.
func (p Projection[S, T]) Get(s S) T {
	if p.get == nil {
		return p.def
	}
	v, ok := p.get(s)
	if !ok {
		return p.def
	}
	return v
}

// Name returns the stable name of the projection, e.g. "AllDocuments".
func (p Projection[S, T]) Name() string {
	return p.name
}

// Path returns the traversal from the slice root.
func (p Projection[S, T]) Path() string {
	return p.path
}

// Default returns the value produced while the source is absent.
func (p Projection[S, T]) Default() T {
	return p.def
}

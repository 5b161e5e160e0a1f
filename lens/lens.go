// Package lens provides typed paths into store state.
//
// A [Lens] focuses from a source value to an optional target value; any step
// may report the target absent. A [Projection] closes a lens with a declared
// default, producing a total function that never reports absence:
//
//	var group = lens.Or("UserGroup",
//	    lens.Compose(userSlice, lens.Compose(decodedJWT, userGroup)),
//	    "GUEST")
//
//	group.Get(st) // "GUEST" while the user slice or its JWT is absent
package lens

import (
	"strings"

	"github.com/spetersoncode/storebridge/store"
)

// Lens is a typed, read-only path from A to B.
type Lens[A, B any] struct {
	path []string
	get  func(A) (B, bool)
}

// New creates a single-step lens named step.
// get reports false when the target is absent.
func New[A, B any](step string, get func(A) (B, bool)) Lens[A, B] {
	return Lens[A, B]{path: []string{step}, get: get}
}

// Prop creates a lens over a field that is always present.
func Prop[A, B any](step string, get func(A) B) Lens[A, B] {
	return New(step, func(a A) (B, bool) { return get(a), true })
}

// Ptr creates a lens over an optional pointer field; nil is absent.
func Ptr[A, B any](step string, get func(A) *B) Lens[A, *B] {
	return New(step, func(a A) (*B, bool) {
		p := get(a)
		return p, p != nil
	})
}

// Deref creates a lens from a pointer to one of its fields.
// A nil pointer is absent.
func Deref[A, B any](step string, get func(*A) (B, bool)) Lens[*A, B] {
	return New(step, func(a *A) (B, bool) {
		if a == nil {
			var zero B
			return zero, false
		}
		return get(a)
	})
}

// Slice creates a lens from store state to the slice registered under key.
// The slice is absent until the host registers and seeds it, or when it
// holds a value of another type.
func Slice[T any](key string) Lens[store.State, T] {
	return New(key, func(st store.State) (T, bool) {
		return store.SliceAs[T](st, key)
	})
}

// Compose chains two lenses. The result is absent when either step is.
func Compose[A, B, C any](ab Lens[A, B], bc Lens[B, C]) Lens[A, C] {
	path := make([]string, 0, len(ab.path)+len(bc.path))
	path = append(path, ab.path...)
	path = append(path, bc.path...)
	return Lens[A, C]{
		path: path,
		get: func(a A) (C, bool) {
			b, ok := ab.Get(a)
			if !ok {
				var zero C
				return zero, false
			}
			return bc.Get(b)
		},
	}
}

// Get returns the focused value and whether every step was present.
func (l Lens[A, B]) Get(a A) (B, bool) {
	if l.get == nil {
		var zero B
		return zero, false
	}
	return l.get(a)
}

// Path returns the dotted traversal from the source root, e.g.
// "user.decodedJwt.userGroup".
func (l Lens[A, B]) Path() string {
	return strings.Join(l.path, ".")
}

// Steps returns the traversal steps.
func (l Lens[A, B]) Steps() []string {
	return append([]string(nil), l.path...)
}

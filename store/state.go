package store

import "sort"

// State is one immutable version of the store's slice tree.
// The zero State is not ready and holds no slices.
type State struct {
	version uint64
	ready   bool
	slices  map[string]any
}

// NewState returns a ready state with the given version and slices.
// It is meant for hosts and tests that provide their own Reader.
func NewState(version uint64, slices map[string]any) State {
	data := make(map[string]any, len(slices))
	for k, v := range slices {
		data[k] = v
	}
	return State{version: version, ready: true, slices: data}
}

// Version returns the state version. It increases with every published change.
func (s State) Version() uint64 {
	return s.version
}

// Ready reports whether the host has initialized the store.
func (s State) Ready() bool {
	return s.ready
}

// Slice returns the value of a slice. Returns nil, false if the slice is absent.
func (s State) Slice(key string) (any, bool) {
	v, ok := s.slices[key]
	return v, ok
}

// Has returns true if the slice is present.
func (s State) Has(key string) bool {
	_, ok := s.slices[key]
	return ok
}

// Keys returns the present slice keys in sorted order.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s.slices))
	for k := range s.slices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of present slices.
func (s State) Len() int {
	return len(s.slices)
}

// Data returns a shallow copy of the slice map.
func (s State) Data() map[string]any {
	data := make(map[string]any, len(s.slices))
	for k, v := range s.slices {
		data[k] = v
	}
	return data
}

// with returns a copy of s with the given slices replaced.
func (s State) with(changes map[string]any) State {
	next := State{
		version: s.version,
		ready:   s.ready,
		slices:  make(map[string]any, len(s.slices)+len(changes)),
	}
	for k, v := range s.slices {
		next.slices[k] = v
	}
	for k, v := range changes {
		next.slices[k] = v
	}
	return next
}

// SliceAs returns a slice value asserted to T.
// Returns the zero value and false if the slice is absent or has another type.
func SliceAs[T any](s State, key string) (T, bool) {
	var zero T
	v, ok := s.Slice(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spetersoncode/storebridge"
)

// Reducer computes the next value of one slice. It must be pure and must not
// call back into the store.
type Reducer func(state any, a storebridge.Action) any

type slice struct {
	key     string
	initial any
	reduce  Reducer
	decode  func([]byte) (any, error)
}

// Register adds a slice with its initial value and reducer.
//
// A slice registered before Init is seeded by Init. A slice registered after
// Init is seeded immediately and published as a new version; until then it
// is absent and projections over it read their defaults.
func Register[T any](s *Store, key string, initial T, reduce func(T, storebridge.Action) T) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrSliceKeyRequired
	}
	if reduce == nil {
		return fmt.Errorf("store: reducer is required for slice %q", key)
	}
	return s.register(&slice{
		key:     key,
		initial: initial,
		reduce: func(state any, a storebridge.Action) any {
			cur, ok := state.(T)
			if !ok {
				cur = initial
			}
			return reduce(cur, a)
		},
		decode: func(raw []byte) (any, error) {
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
			return v, nil
		},
	})
}

func (s *Store) register(d *slice) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if _, exists := s.slices[d.key]; exists {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrSliceExists, d.key)
	}
	s.slices[d.key] = d
	s.order = append(s.order, d.key)
	s.mu.Unlock()

	s.Dispatch(storebridge.Action{Type: ActionRegister, Payload: d.key})
	return nil
}

// Slices returns the registered slice keys in registration order.
func (s *Store) Slices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// seed returns the first value of a slice: a pending hydrated value if one
// decodes, otherwise the initial value.
func (s *Store) seed(d *slice) any {
	s.mu.Lock()
	raw, ok := s.pending[d.key]
	delete(s.pending, d.key)
	s.mu.Unlock()

	if !ok {
		return d.initial
	}
	v, err := d.decode(raw)
	if err != nil {
		s.logger.Warn("discarding hydrated slice",
			zap.String("slice", d.key),
			zap.Error(&SerializationError{Key: d.key, Err: err}))
		return d.initial
	}
	return v
}

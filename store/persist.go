package store

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spetersoncode/storebridge"
)

// Sync persists every present slice of the current version to the adapter,
// replacing what the adapter held.
func (s *Store) Sync(ctx context.Context, adapter Adapter) error {
	st := s.State()
	data := make(map[string]json.RawMessage, st.Len())
	for _, key := range st.Keys() {
		v, _ := st.Slice(key)
		raw, err := json.Marshal(v)
		if err != nil {
			return &SerializationError{Key: key, Err: err}
		}
		data[key] = raw
	}
	if err := adapter.Save(ctx, data); err != nil {
		return err
	}
	s.logger.Debug("store synced", zap.Int("slices", len(data)), zap.Uint64("version", st.Version()))
	return nil
}

// SyncSlice persists one slice of the current version.
// Returns ErrKeyNotFound if the slice is absent.
func (s *Store) SyncSlice(ctx context.Context, adapter Adapter, key string) error {
	v, ok := s.State().Slice(key)
	if !ok {
		return ErrKeyNotFound
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return &SerializationError{Key: key, Err: err}
	}
	return adapter.Put(ctx, key, raw)
}

// Hydrate restores slice values from the adapter.
//
// Values for registered slices replace their current values through the
// dispatch queue. Values for slices not registered yet are kept and used as
// their first value when they register. Nothing is applied if any registered
// slice fails to decode.
func (s *Store) Hydrate(ctx context.Context, adapter Adapter) error {
	data, err := adapter.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defs := make(map[string]*slice, len(s.slices))
	for k, d := range s.slices {
		defs[k] = d
	}
	s.mu.Unlock()

	values := make(map[string]any)
	later := make(map[string][]byte)
	for key, raw := range data {
		d, ok := defs[key]
		if !ok {
			later[key] = raw
			continue
		}
		v, err := d.decode(raw)
		if err != nil {
			return &SerializationError{Key: key, Err: err}
		}
		values[key] = v
	}

	s.mu.Lock()
	for k, raw := range later {
		s.pending[k] = raw
	}
	s.mu.Unlock()

	if len(values) > 0 {
		s.Dispatch(storebridge.Action{Type: ActionHydrate, Payload: values})
	}
	s.logger.Debug("store hydrated", zap.Int("slices", len(values)), zap.Int("deferred", len(later)))
	return nil
}

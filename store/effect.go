package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spetersoncode/storebridge"
)

// Effect reacts to a processed action. It runs on the draining goroutine
// after reducers and subscribers, so it must hand slow work to Runtime.Go.
type Effect func(rt *Runtime, a storebridge.Action)

// AddEffect registers a host effect.
func (s *Store) AddEffect(e Effect) {
	if e == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.effects = append(s.effects, e)
}

// Runtime is what an effect may use while handling one action.
type Runtime struct {
	store *Store
	state State
}

// State returns the version produced by the action being handled.
func (r *Runtime) State() State {
	return r.state
}

// Dispatch queues a follow-up action.
func (r *Runtime) Dispatch(a storebridge.Action) {
	r.store.Dispatch(a)
}

// Logger returns the store logger.
func (r *Runtime) Logger() *zap.Logger {
	return r.store.logger
}

// Go runs fn on its own goroutine. The context is cancelled by Store.Close,
// which waits for fn to return. Returns false if the store is closed.
func (r *Runtime) Go(fn func(ctx context.Context)) bool {
	s := r.store
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic in effect goroutine", zap.String("panic", fmt.Sprint(rec)))
			}
		}()
		fn(s.ctx)
	}()
	return true
}

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spetersoncode/storebridge"
	"github.com/spetersoncode/storebridge/event"
	"github.com/spetersoncode/storebridge/internal/equal"
	"github.com/spetersoncode/storebridge/internal/logging"
)

// Reader is the read-only view of a store handed to bridge clients.
type Reader interface {
	// State returns the current version. Two calls may observe different
	// versions.
	State() State

	// Subscribe registers fn to be called with every new published version.
	// fn is not called for the version current at subscription time.
	// The returned function releases the registration.
	Subscribe(fn func(State)) (cancel func())
}

// Dispatcher is the mutation entry point of a store.
type Dispatcher interface {
	// Dispatch queues an action. It never blocks on host work and reports
	// nothing back; effects become visible as later state versions.
	Dispatch(a storebridge.Action)
}

// Handle is the full host-side view of a store.
type Handle interface {
	Reader
	Dispatcher
}

type readOnly struct {
	r Reader
}

func (v readOnly) State() State { return v.r.State() }
func (v readOnly) Subscribe(fn func(State)) func() { return v.r.Subscribe(fn) }

// ReadOnly returns a view of r that exposes only State and Subscribe.
// The result cannot be asserted back to a Dispatcher, so code holding it
// has no path to the mutation entry point.
func ReadOnly(r Reader) Reader {
	if v, ok := r.(readOnly); ok {
		return v
	}
	return readOnly{r: r}
}

// Reserved action types processed by the store itself.
const (
	// ActionInit marks the store ready and seeds every registered slice.
	ActionInit storebridge.Type = "@storebridge/init"

	// ActionRegister seeds a slice registered after Init.
	ActionRegister storebridge.Type = "@storebridge/register"

	// ActionHydrate replaces slice values restored from an Adapter.
	ActionHydrate storebridge.Type = "@storebridge/hydrate"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger. Defaults to the module logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEvents sets a channel that receives store events. Sends never block;
// events are dropped when the channel is full.
func WithEvents(ch chan<- event.Event) Option {
	return func(s *Store) {
		s.events = ch
	}
}

// WithContext sets the parent context of effect goroutines.
// Defaults to context.Background.
func WithContext(ctx context.Context) Option {
	return func(s *Store) {
		if ctx != nil {
			s.parent = ctx
		}
	}
}

type listener struct {
	id string
	fn func(State)
}

type observer struct {
	id string
	fn func(storebridge.Action, State)
}

// Store is the single host-owned state container.
// It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	state     State
	slices    map[string]*slice
	order     []string
	pending   map[string][]byte
	queue     []storebridge.Action
	draining  bool
	listeners []listener
	observers []observer
	effects   []Effect
	closed    bool

	events chan<- event.Event
	logger *zap.Logger

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ Handle = (*Store)(nil)

// New creates an uninitialized store. It publishes nothing until Init.
func New(opts ...Option) *Store {
	s := &Store{
		slices:  make(map[string]*slice),
		pending: make(map[string][]byte),
		logger:  logging.Named("store"),
		parent:  context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(s.parent)
	return s
}

// Init marks the store ready. Every slice registered so far is seeded with
// its initial value and subscribers receive the first version.
// Calling Init again has no effect.
func (s *Store) Init() {
	s.Dispatch(storebridge.Action{Type: ActionInit})
}

// State returns the current version.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn for every new published version.
func (s *Store) Subscribe(fn func(State)) func() {
	id := uuid.NewString()
	s.mu.Lock()
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// ObserveActions registers fn for every processed action, including actions
// no reducer handles. Observers see actions after reduction together with
// the resulting state. They cannot alter or re-dispatch what they observe.
func (s *Store) ObserveActions(fn func(storebridge.Action, State)) func() {
	id := uuid.NewString()
	s.mu.Lock()
	s.observers = append(s.observers, observer{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, o := range s.observers {
				if o.id == id {
					s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// Dispatch queues an action and drains the queue if no other goroutine is
// draining it. Actions dispatched after Close are dropped.
func (s *Store) Dispatch(a storebridge.Action) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Debug("dispatch after close dropped", zap.String("type", string(a.Type)))
		return
	}
	s.queue = append(s.queue, a)
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	s.drain()
}

// Close cancels the effect context and waits for effect goroutines to
// return. Later dispatches are dropped.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.queue = nil
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	return nil
}

func (s *Store) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}
		a := s.queue[0]
		s.queue[0] = storebridge.Action{}
		s.queue = s.queue[1:]
		cur := s.state
		defs := s.orderedLocked()
		s.mu.Unlock()

		next, changed := s.apply(cur, defs, a)

		s.mu.Lock()
		s.state = next
		listeners := append([]listener(nil), s.listeners...)
		observers := append([]observer(nil), s.observers...)
		effects := append([]Effect(nil), s.effects...)
		s.mu.Unlock()

		s.publish(a, cur, next, changed, listeners)

		for _, o := range observers {
			s.guard("observer", a, func() { o.fn(a, next) })
		}
		rt := &Runtime{store: s, state: next}
		for _, e := range effects {
			s.guard("effect", a, func() { e(rt, a) })
		}
	}
}

// apply computes the next state for one action. It runs without the lock;
// only the draining goroutine writes state.
func (s *Store) apply(cur State, defs []*slice, a storebridge.Action) (State, []string) {
	changes := make(map[string]any)

	switch a.Type {
	case ActionInit:
		if cur.ready {
			return cur, nil
		}
		for _, d := range defs {
			if !cur.Has(d.key) {
				changes[d.key] = s.seed(d)
			}
		}
		next := cur.with(changes)
		next.ready = true
		next.version = cur.version + 1
		return next, sortedKeys(changes)

	case ActionRegister:
		key, _ := a.Payload.(string)
		if !cur.ready || cur.Has(key) {
			return cur, nil
		}
		for _, d := range defs {
			if d.key == key {
				changes[key] = s.seed(d)
			}
		}

	case ActionHydrate:
		values, _ := a.Payload.(map[string]any)
		for _, d := range defs {
			v, ok := values[d.key]
			if !ok {
				continue
			}
			if old, present := cur.Slice(d.key); present && equal.Values(old, v) {
				continue
			}
			changes[d.key] = v
		}

	default:
		for _, d := range defs {
			old, ok := cur.Slice(d.key)
			if !ok {
				continue
			}
			var next any
			s.guard("reducer "+d.key, a, func() { next = d.reduce(old, a) })
			if next == nil {
				continue
			}
			if !equal.Values(old, next) {
				changes[d.key] = next
			}
		}
	}

	if len(changes) == 0 {
		return cur, nil
	}
	next := cur.with(changes)
	next.version = cur.version + 1
	return next, sortedKeys(changes)
}

func (s *Store) publish(a storebridge.Action, prev, next State, changed []string, listeners []listener) {
	switch a.Type {
	case ActionInit:
		if next.ready && !prev.ready {
			s.logger.Debug("store ready", zap.Strings("slices", next.Keys()), zap.Uint64("version", next.version))
			event.Emit(s.events, event.Event{Type: event.StoreReady, Version: next.version, Slices: next.Keys()})
		}
	case ActionRegister:
		// Before Init the slice is only recorded; it is seeded by Init.
		if next.version == prev.version {
			break
		}
		key, _ := a.Payload.(string)
		event.Emit(s.events, event.Event{Type: event.SliceRegistered, Version: next.version, Slices: []string{key}})
	case ActionHydrate:
	default:
		event.Emit(s.events, event.Event{Type: event.ActionDispatched, Action: a, Version: next.version, Slices: changed})
	}

	if !next.ready || next.version == prev.version {
		return
	}

	values := make(map[string]any, len(changed))
	patches := make([]event.JSONPatch, 0, len(changed))
	for _, key := range changed {
		v, _ := next.Slice(key)
		values[key] = v
		if prev.ready && prev.Has(key) {
			patches = append(patches, event.Replace(event.SlicePath(key), v))
		} else {
			patches = append(patches, event.Add(event.SlicePath(key), v))
		}
	}
	event.Emit(s.events, event.Event{
		Type:    event.StateChanged,
		Action:  a,
		Version: next.version,
		Slices:  changed,
		State:   values,
		Patches: patches,
	})

	for _, l := range listeners {
		s.guard("subscriber", a, func() { l.fn(next) })
	}
}

// guard runs fn and logs a panic instead of letting it stop the dispatch loop.
func (s *Store) guard(what string, a storebridge.Action, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while processing action",
				zap.String("in", what),
				zap.String("type", string(a.Type)),
				zap.String("panic", fmt.Sprint(r)))
		}
	}()
	fn()
}

func (s *Store) orderedLocked() []*slice {
	defs := make([]*slice, 0, len(s.order))
	for _, key := range s.order {
		defs = append(defs, s.slices[key])
	}
	return defs
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package accessor

import (
	"sync"
	"sync/atomic"

	"github.com/spetersoncode/storebridge/internal/equal"
	"github.com/spetersoncode/storebridge/lens"
	"github.com/spetersoncode/storebridge/store"
)

// Stream is a hot, multicast sequence of projected values.
//
// All subscribers share one upstream store subscription, taken on the first
// subscriber and released after the last. A stream never completes on its own.
type Stream[T any] struct {
	reader store.Reader
	proj   lens.StateProjection[T]

	upMu    sync.Mutex
	refs    int
	release func()

	mu       sync.Mutex
	subs     map[uint64]*Subscription[T]
	watchers map[uint64]func(uint64, T)
	nextID   uint64
	seq      uint64
	version  uint64
	seen     bool
	latest   T
}

// NewStream creates a stream of p over r. Nothing is subscribed upstream
// until the first call to Subscribe or Observe.
func NewStream[T any](r store.Reader, p lens.StateProjection[T]) *Stream[T] {
	return &Stream[T]{
		reader:   r,
		proj:     p,
		subs:     make(map[uint64]*Subscription[T]),
		watchers: make(map[uint64]func(uint64, T)),
	}
}

// Projection returns the projection the stream evaluates.
func (s *Stream[T]) Projection() lens.StateProjection[T] {
	return s.proj
}

// Subscribe registers a consumer. When the store is ready the current value
// is available on the subscription immediately.
func (s *Stream[T]) Subscribe() *Subscription[T] {
	sub := &Subscription[T]{stream: s, ch: make(chan T, 1)}

	s.acquire()
	st, v := s.current()

	s.mu.Lock()
	fns := s.updateLocked(st, v)
	s.nextID++
	sub.id = s.nextID
	s.subs[sub.id] = sub
	if s.seen {
		sub.offer(s.latest)
	}
	seq := s.seq
	s.mu.Unlock()

	notify(fns, seq, v)
	return sub
}

// Observe calls fn with the current value, when the store is ready, and
// then with every change. fn runs on the goroutine that published the
// change; it must not block. The returned function stops delivery.
func (s *Stream[T]) Observe(fn func(T)) (cancel func()) {
	var last atomic.Uint64
	return s.observe(func(seq uint64, v T) {
		for {
			prev := last.Load()
			if seq <= prev {
				return
			}
			if last.CompareAndSwap(prev, seq) {
				fn(v)
				return
			}
		}
	})
}

// observe registers fn and replays the latest value to it. fn receives a
// sequence number that increases with every distinct value.
func (s *Stream[T]) observe(fn func(uint64, T)) func() {
	s.acquire()
	st, v := s.current()

	s.mu.Lock()
	fns := s.updateLocked(st, v)
	s.nextID++
	id := s.nextID
	s.watchers[id] = fn
	seen, seq, latest := s.seen, s.seq, s.latest
	s.mu.Unlock()

	notify(fns, seq, v)
	if seen {
		fn(seq, latest)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
			s.releaseRef()
		})
	}
}

// Latest returns the value the stream holds for the current store version.
// Returns the projection default and false while the store is not ready.
func (s *Stream[T]) Latest() (T, bool) {
	st := s.reader.State()
	if !st.Ready() {
		return s.proj.Default(), false
	}
	return s.proj.Get(st), true
}

// Subscribers returns the number of live subscriptions and observers.
func (s *Stream[T]) Subscribers() int {
	s.upMu.Lock()
	defer s.upMu.Unlock()
	return s.refs
}

func (s *Stream[T]) current() (store.State, T) {
	st := s.reader.State()
	if !st.Ready() {
		var zero T
		return st, zero
	}
	return st, s.proj.Get(st)
}

func (s *Stream[T]) onState(st store.State) {
	if !st.Ready() {
		return
	}
	v := s.proj.Get(st)

	s.mu.Lock()
	fns := s.updateLocked(st, v)
	seq := s.seq
	s.mu.Unlock()

	notify(fns, seq, v)
}

// updateLocked records v as the value of st. It delivers v to mailboxes and
// returns the observers to notify when v differs from the previous value.
func (s *Stream[T]) updateLocked(st store.State, v T) []func(uint64, T) {
	if !st.Ready() {
		return nil
	}
	if s.seen && st.Version() <= s.version {
		return nil
	}
	s.version = st.Version()
	if s.seen && equal.Of(s.latest, v) {
		return nil
	}
	s.latest = v
	s.seen = true
	s.seq++
	for _, sub := range s.subs {
		sub.offer(v)
	}
	fns := make([]func(uint64, T), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	return fns
}

func notify[T any](fns []func(uint64, T), seq uint64, v T) {
	for _, fn := range fns {
		fn(seq, v)
	}
}

func (s *Stream[T]) acquire() {
	s.upMu.Lock()
	defer s.upMu.Unlock()
	s.refs++
	if s.refs == 1 {
		s.release = s.reader.Subscribe(s.onState)
	}
}

func (s *Stream[T]) releaseRef() {
	s.upMu.Lock()
	defer s.upMu.Unlock()
	s.refs--
	if s.refs == 0 && s.release != nil {
		s.release()
		s.release = nil
	}
}

// Subscription is one consumer of a [Stream]. It holds at most one pending
// value; a newer value replaces an unread one.
type Subscription[T any] struct {
	id     uint64
	stream *Stream[T]
	ch     chan T
	closed bool // guarded by stream.mu
	once   sync.Once
}

// C returns the channel values are delivered on. It is closed by Unsubscribe.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Unsubscribe releases the subscription and closes its channel.
// It is safe to call more than once.
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(func() {
		st := s.stream
		st.mu.Lock()
		delete(st.subs, s.id)
		s.closed = true
		close(s.ch)
		st.mu.Unlock()
		st.releaseRef()
	})
}

// offer replaces the pending value with v. The caller holds stream.mu.
func (s *Subscription[T]) offer(v T) {
	if s.closed {
		return
	}
	select {
	case s.ch <- v:
		return
	default:
	}
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- v:
	default:
	}
}

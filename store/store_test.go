package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/spetersoncode/storebridge"
	"github.com/spetersoncode/storebridge/event"
)

type counter struct {
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

func reduceCounter(c counter, a storebridge.Action) counter {
	switch a.Type {
	case "Increment":
		c.Count++
	case "Tag":
		tag, _ := storebridge.PayloadAs[string](a)
		c.Tags = append(append([]string(nil), c.Tags...), tag)
	case "Set":
		n, _ := storebridge.PayloadAs[int](a)
		c.Count = n
	}
	return c
}

func newCounterStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s := New(opts...)
	require.NoError(t, Register(s, "counter", counter{}, reduceCounter))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_NotReadyUntilInit(t *testing.T) {
	s := newCounterStore(t)

	var got []State
	s.Subscribe(func(st State) { got = append(got, st) })

	st := s.State()
	assert.False(t, st.Ready())
	assert.False(t, st.Has("counter"))
	assert.Empty(t, got)

	s.Init()

	require.Len(t, got, 1)
	assert.True(t, got[0].Ready())
	c, ok := SliceAs[counter](got[0], "counter")
	require.True(t, ok)
	assert.Equal(t, 0, c.Count)

	// Second Init is a no-op
	s.Init()
	assert.Len(t, got, 1)
}

func TestStore_Dispatch(t *testing.T) {
	s := newCounterStore(t)
	s.Init()
	v0 := s.State().Version()

	s.Dispatch(storebridge.NewAction("Increment", nil))
	s.Dispatch(storebridge.NewAction("Increment", nil))

	c, ok := SliceAs[counter](s.State(), "counter")
	require.True(t, ok)
	assert.Equal(t, 2, c.Count)
	assert.Equal(t, v0+2, s.State().Version())
}

func TestStore_UnknownActionIgnored(t *testing.T) {
	s := newCounterStore(t)
	s.Init()

	calls := 0
	s.Subscribe(func(State) { calls++ })
	before := s.State().Version()

	s.Dispatch(storebridge.NewAction("Not handled", nil))

	assert.Equal(t, before, s.State().Version())
	assert.Zero(t, calls)
}

func TestStore_SameValueNotPublished(t *testing.T) {
	s := newCounterStore(t)
	s.Init()
	s.Dispatch(storebridge.NewAction("Set", 5))

	calls := 0
	s.Subscribe(func(State) { calls++ })
	before := s.State().Version()

	s.Dispatch(storebridge.NewAction("Set", 5))
	s.Dispatch(storebridge.NewAction("Set", 5))

	assert.Equal(t, before, s.State().Version())
	assert.Zero(t, calls)
}

func TestStore_DispatchBeforeInit(t *testing.T) {
	s := newCounterStore(t)

	// No slice exists yet: accepted silently, nothing reduced
	s.Dispatch(storebridge.NewAction("Increment", nil))
	s.Init()

	c, _ := SliceAs[counter](s.State(), "counter")
	assert.Equal(t, 0, c.Count)
}

func TestStore_Register(t *testing.T) {
	t.Run("after init publishes a new version", func(t *testing.T) {
		s := newCounterStore(t)
		s.Init()
		assert.False(t, s.State().Has("late"))

		var seen []string
		s.Subscribe(func(st State) { seen = append(seen, st.Keys()...) })

		require.NoError(t, Register(s, "late", "hello", func(v string, _ storebridge.Action) string { return v }))

		v, ok := SliceAs[string](s.State(), "late")
		require.True(t, ok)
		assert.Equal(t, "hello", v)
		assert.Equal(t, []string{"counter", "late"}, seen)
		assert.Equal(t, []string{"counter", "late"}, s.Slices())
	})

	t.Run("duplicate key", func(t *testing.T) {
		s := newCounterStore(t)
		err := Register(s, "counter", counter{}, reduceCounter)
		assert.True(t, errors.Is(err, ErrSliceExists))
	})

	t.Run("empty key", func(t *testing.T) {
		s := New()
		err := Register(s, "  ", 0, func(n int, _ storebridge.Action) int { return n })
		assert.ErrorIs(t, err, ErrSliceKeyRequired)
	})

	t.Run("nil reducer", func(t *testing.T) {
		s := New()
		err := Register[int](s, "n", 0, nil)
		assert.Error(t, err)
	})

	t.Run("after close", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Close())
		err := Register(s, "n", 0, func(n int, _ storebridge.Action) int { return n })
		assert.ErrorIs(t, err, ErrClosed)
	})
}

func TestStore_ReentrantDispatchIsQueued(t *testing.T) {
	s := newCounterStore(t)
	s.Init()

	var counts []int
	s.Subscribe(func(st State) {
		c, _ := SliceAs[counter](st, "counter")
		counts = append(counts, c.Count)
		if c.Count == 1 {
			s.Dispatch(storebridge.NewAction("Increment", nil))
			// Not re-entered: the state is still the one being published
			inner, _ := SliceAs[counter](s.State(), "counter")
			assert.Equal(t, 1, inner.Count)
		}
	})

	s.Dispatch(storebridge.NewAction("Increment", nil))

	assert.Equal(t, []int{1, 2}, counts)
}

func TestStore_Unsubscribe(t *testing.T) {
	s := newCounterStore(t)
	s.Init()

	calls := 0
	cancel := s.Subscribe(func(State) { calls++ })
	s.Dispatch(storebridge.NewAction("Increment", nil))
	cancel()
	cancel()
	s.Dispatch(storebridge.NewAction("Increment", nil))

	assert.Equal(t, 1, calls)
}

func TestStore_ObserveActions(t *testing.T) {
	s := newCounterStore(t)
	s.Init()

	var types []storebridge.Type
	cancel := s.ObserveActions(func(a storebridge.Action, _ State) { types = append(types, a.Type) })

	s.Dispatch(storebridge.NewAction("Increment", nil))
	s.Dispatch(storebridge.NewAction("Search loaded", nil))
	cancel()
	s.Dispatch(storebridge.NewAction("Increment", nil))

	assert.Equal(t, []storebridge.Type{"Increment", "Search loaded"}, types)
}

func TestStore_Effects(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New()
	require.NoError(t, Register(s, "counter", counter{}, reduceCounter))
	s.Init()

	done := make(chan struct{})
	s.AddEffect(func(rt *Runtime, a storebridge.Action) {
		if a.Type != "Tag" {
			return
		}
		rt.Go(func(ctx context.Context) {
			rt.Dispatch(a.Caused("Increment", nil))
			close(done)
		})
	})

	s.Dispatch(storebridge.NewAction("Tag", "x"))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("effect did not run")
	}

	require.Eventually(t, func() bool {
		c, _ := SliceAs[counter](s.State(), "counter")
		return c.Count == 1
	}, 2*time.Second, 5*time.Millisecond)
	c, _ := SliceAs[counter](s.State(), "counter")
	assert.Equal(t, []string{"x"}, c.Tags)

	require.NoError(t, s.Close())
}

func TestStore_CloseCancelsEffects(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New()
	s.Init()

	started := make(chan struct{})
	s.AddEffect(func(rt *Runtime, a storebridge.Action) {
		rt.Go(func(ctx context.Context) {
			close(started)
			<-ctx.Done()
		})
	})
	s.Dispatch(storebridge.NewAction("Anything", nil))
	<-started

	require.NoError(t, s.Close())

	rt := &Runtime{store: s}
	assert.False(t, rt.Go(func(context.Context) {}))

	// Dropped silently
	s.Dispatch(storebridge.NewAction("Anything", nil))
}

func TestStore_PanicsDoNotStopTheLoop(t *testing.T) {
	s := New()
	require.NoError(t, Register(s, "fragile", 0, func(n int, a storebridge.Action) int {
		if a.Type == "Explode" {
			panic("boom")
		}
		return n + 1
	}))
	s.Init()
	s.Subscribe(func(State) { panic("subscriber boom") })

	s.Dispatch(storebridge.NewAction("Explode", nil))
	s.Dispatch(storebridge.NewAction("Bump", nil))

	n, _ := SliceAs[int](s.State(), "fragile")
	assert.Equal(t, 1, n)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	s := newCounterStore(t)
	s.Init()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(storebridge.NewAction("Increment", nil))
		}()
	}
	wg.Wait()

	// The last dispatcher may still be draining; wait for the queue to empty
	require.Eventually(t, func() bool {
		c, _ := SliceAs[counter](s.State(), "counter")
		return c.Count == 50
	}, 2*time.Second, 5*time.Millisecond)
}

func TestStore_Events(t *testing.T) {
	ch := event.NewChannel()
	s := newCounterStore(t, WithEvents(ch))
	s.Init()
	s.Dispatch(storebridge.NewAction("Increment", nil))
	s.Dispatch(storebridge.NewAction("Unknown", nil))

	var got []event.Event
	for len(ch) > 0 {
		got = append(got, <-ch)
	}

	require.Len(t, got, 5)
	assert.Equal(t, event.StoreReady, got[0].Type)
	assert.Equal(t, []string{"counter"}, got[0].Slices)

	assert.Equal(t, event.StateChanged, got[1].Type)
	require.Len(t, got[1].Patches, 1)
	assert.Equal(t, event.PatchAdd, got[1].Patches[0].Op)

	assert.Equal(t, event.ActionDispatched, got[2].Type)
	assert.Equal(t, storebridge.Type("Increment"), got[2].Action.Type)

	assert.Equal(t, event.StateChanged, got[3].Type)
	require.Len(t, got[3].Patches, 1)
	assert.Equal(t, event.PatchReplace, got[3].Patches[0].Op)
	assert.Equal(t, "/counter", got[3].Patches[0].Path)
	assert.Equal(t, counter{Count: 1}, got[3].State["counter"])

	assert.Equal(t, event.ActionDispatched, got[4].Type)
	assert.Empty(t, got[4].Slices)
}

func TestStore_SliceRegisteredEvent(t *testing.T) {
	t.Run("before init emits nothing", func(t *testing.T) {
		ch := event.NewChannel()
		s := New(WithEvents(ch))
		t.Cleanup(func() { s.Close() })
		require.NoError(t, Register(s, "counter", counter{}, reduceCounter))

		assert.Zero(t, len(ch))
		assert.Equal(t, uint64(0), s.State().Version())
	})

	t.Run("after init carries the seeded version", func(t *testing.T) {
		ch := event.NewChannel()
		s := newCounterStore(t, WithEvents(ch))
		s.Init()
		for len(ch) > 0 {
			<-ch
		}

		require.NoError(t, Register(s, "late", "hello", func(v string, _ storebridge.Action) string { return v }))

		var registered []event.Event
		for len(ch) > 0 {
			if e := <-ch; e.Type == event.SliceRegistered {
				registered = append(registered, e)
			}
		}
		require.Len(t, registered, 1)
		assert.Equal(t, []string{"late"}, registered[0].Slices)
		assert.Equal(t, s.State().Version(), registered[0].Version)
		assert.NotZero(t, registered[0].Version)
	})
}

func TestReadOnly(t *testing.T) {
	s := newCounterStore(t)
	s.Init()

	r := ReadOnly(s)
	_, ok := r.(Dispatcher)
	assert.False(t, ok, "read-only view must not expose Dispatch")
	_, ok = r.(*Store)
	assert.False(t, ok)
	assert.Equal(t, r, ReadOnly(r))

	var seen []int
	cancel := r.Subscribe(func(st State) {
		c, _ := SliceAs[counter](st, "counter")
		seen = append(seen, c.Count)
	})
	defer cancel()
	s.Dispatch(storebridge.NewAction("Increment", nil))

	assert.Equal(t, s.State().Version(), r.State().Version())
	assert.Equal(t, []int{1}, seen)
}

func TestState(t *testing.T) {
	var zero State
	assert.False(t, zero.Ready())
	assert.Zero(t, zero.Len())
	_, ok := zero.Slice("search")
	assert.False(t, ok)

	src := map[string]any{"b": 2, "a": 1}
	st := NewState(7, src)
	src["c"] = 3

	assert.True(t, st.Ready())
	assert.Equal(t, uint64(7), st.Version())
	assert.Equal(t, []string{"a", "b"}, st.Keys())

	n, ok := SliceAs[int](st, "a")
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok = SliceAs[string](st, "a")
	assert.False(t, ok)

	data := st.Data()
	data["a"] = 100
	n, _ = SliceAs[int](st, "a")
	assert.Equal(t, 1, n)
}

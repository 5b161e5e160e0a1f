// Package store provides the host-owned state container shared with bridge
// clients.
//
// A [Store] holds a tree of named slices. Only the host mutates it: slices are
// added with [Register] and change only when a dispatched action runs through
// their reducers. Clients receive the same instance as a [Reader], which can
// read the current [State] and subscribe to new versions but cannot dispatch.
//
// # Basic Usage
//
//	s := store.New(store.WithLogger(logger))
//
//	err := store.Register(s, "counter", 0, func(n int, a storebridge.Action) int {
//	    if a.Type == "Increment" {
//	        return n + 1
//	    }
//	    return n
//	})
//
//	s.Init()
//	s.Dispatch(storebridge.NewAction("Increment", nil))
//
//	n, ok := store.SliceAs[int](s.State(), "counter") // 1, true
//
// # Dispatch Model
//
// Dispatches are queued and drained in order by a single goroutine at a time.
// Reducers, subscribers, action observers and effects all run on the draining
// goroutine. A dispatch issued from inside one of them is queued behind the
// current action rather than re-entering the loop.
//
// Unknown action types are ignored: every reducer returns its slice
// unchanged and no new version is published.
//
// # Persistence
//
// Slice values can be saved to and restored from an [Adapter]:
//
//	if err := s.Sync(ctx, adapter); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Later, before Init
//	if err := s.Hydrate(ctx, adapter); err != nil {
//	    log.Fatal(err)
//	}
package store

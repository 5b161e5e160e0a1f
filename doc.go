// Package storebridge lets an independently deployed client observe and
// selectively mutate the state of a host application it does not own.
//
// The host owns a single [github.com/spetersoncode/storebridge/store.Store].
// The client never constructs one; it receives a read-only
// [github.com/spetersoncode/storebridge/store.Reader] for the same instance and
// a [github.com/spetersoncode/storebridge/gateway.Gateway] bound to the host's
// dispatcher. Everything the client reads goes through typed projections and
// everything it writes goes through the gateway's closed allow-list.
//
// # Packages
//
//   - store: the host-owned state container, slices, reducers and effects
//   - lens: typed paths into slices, each with a declared default
//   - accessor: stream, snapshot and reactive-cell access over one projection
//   - gateway: classification policy and the closed set of dispatchable commands
//   - feature/search, feature/user, feature/filter: one bridge service per slice
//   - bridge: wires the feature services onto one handle
//
// # Basic Usage
//
// The host builds and initializes the store, then hands the bridge out:
//
//	s := store.New()
//	store.Register(s, model.SearchSlice, initialSearch, reduceSearch)
//	s.Init()
//
//	b := bridge.New(s, gateway.New(s))
//
//	docs, err := b.Search.AllDocuments().Snapshot(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b.Search.LoadSearch(search.Query{Q: "angular", Scope: model.ScopeEverything})
//
// # Messages
//
// The only protocol is the in-memory [Action]: a [Type] discriminator and a
// payload. Discriminators must match the host's handlers byte for byte.
package storebridge

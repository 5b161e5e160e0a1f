// Package accessor exposes one projection of store state through three
// access modes with identical values:
//
//   - [Stream]: hot, multicast push sequence with replay of the latest value.
//   - [Snapshot]: one value, resolved as soon as the store is ready.
//   - [Cell]: a synchronously readable value kept current inside a [Scope].
//
// Mutations never go through this package; the read side only sees a
// store.Reader.
//
// Values are compared with go-cmp before emission, so a stream emits only
// when the projected value changes, not on every store version.
package accessor

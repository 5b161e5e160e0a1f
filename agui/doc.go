// Package agui maps store changes onto the AG-UI protocol's state events.
//
// AG-UI (Agent-User Interface) is an event-based protocol for connecting
// agents to user-facing applications. Its shared-state events let a frontend
// mirror a host store without owning it: one STATE_SNAPSHOT carries every
// slice, then each STATE_DELTA carries JSON patch operations for the slices
// that changed.
//
// # Overview
//
// This package provides:
//   - [Mapper]: converts store [event.Event] values and states to AG-UI events
//   - [Stream]: follows a store reader and writes a snapshot followed by deltas
//
// The package does NOT provide HTTP handlers or transport implementations.
// Callers write the events with the AG-UI SDK's SSE writer or their own
// transport.
//
// # Usage
//
//	mapper := agui.NewMapper(threadID, runID)
//	err := agui.Stream(ctx, s, mapper, func(ev events.Event) error {
//	    return writer.WriteEvent(ctx, w, ev)
//	})
//
// # Event Mapping
//
//   - store ready or first observed state → STATE_SNAPSHOT
//   - event.StateChanged → STATE_DELTA (add or replace per changed slice)
//   - event.CommandRejected → CUSTOM "command_rejected"
//   - other store events → nothing
//
// # Thread Safety
//
// The Mapper is safe for concurrent use; it holds no mutable state.
package agui

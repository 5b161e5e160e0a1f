// Package event provides the observation events a store emits while it
// processes actions. Collaborators use them to watch every dispatched action,
// including ones the gateway never exports, without any path to re-dispatch.
package event

import (
	"time"

	"github.com/spetersoncode/storebridge"
)

// Type identifies the kind of event.
type Type string

// Store lifecycle events
const (
	// StoreReady fires once, when the host initializes the store.
	StoreReady Type = "store_ready"

	// SliceRegistered fires when a slice added after Init is seeded.
	SliceRegistered Type = "slice_registered"
)

// Dispatch events
const (
	// ActionDispatched fires after an action has been reduced.
	ActionDispatched Type = "action_dispatched"

	// StateChanged fires when reducing an action produced a new state version.
	StateChanged Type = "state_changed"
)

// Gateway events
const (
	// CommandRejected fires when the gateway refuses a descriptor.
	CommandRejected Type = "command_rejected"
)

// Event represents an observable occurrence inside the store or gateway.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// Action is the action being processed, for dispatch and gateway events.
	Action storebridge.Action

	// Version is the state version after the event.
	Version uint64

	// Slices lists the slice keys affected by the event.
	Slices []string

	// State holds the values of the affected slices keyed by slice key.
	State map[string]any

	// Patches describes the change as JSON patch operations.
	Patches []JSONPatch

	// Error contains the rejection reason for CommandRejected events.
	Error error

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Emit sends an event with timestamp to the channel (non-blocking).
// A nil channel is ignored.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
		// Channel full - don't block the dispatch loop
	}
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}

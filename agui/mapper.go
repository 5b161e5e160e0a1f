package agui

import (
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/storebridge/event"
	"github.com/spetersoncode/storebridge/internal/equal"
	"github.com/spetersoncode/storebridge/store"
)

// CommandRejectedEvent names the CUSTOM event emitted for gateway rejections.
const CommandRejectedEvent = "command_rejected"

// Mapper converts store events to AG-UI events.
//
// Create a Mapper per run using NewMapper.
type Mapper struct {
	threadID string
	runID    string
}

// NewMapper creates a new Mapper for a single run.
// The threadID and runID are used in lifecycle events (RUN_STARTED, RUN_FINISHED).
func NewMapper(threadID, runID string) *Mapper {
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	if runID == "" {
		runID = events.GenerateRunID()
	}
	return &Mapper{
		threadID: threadID,
		runID:    runID,
	}
}

// ThreadID returns the thread ID for this mapper.
func (m *Mapper) ThreadID() string {
	return m.threadID
}

// RunID returns the run ID for this mapper.
func (m *Mapper) RunID() string {
	return m.runID
}

// RunStarted returns a RUN_STARTED event.
func (m *Mapper) RunStarted() events.Event {
	return events.NewRunStartedEvent(m.threadID, m.runID)
}

// RunFinished returns a RUN_FINISHED event.
func (m *Mapper) RunFinished() events.Event {
	return events.NewRunFinishedEvent(m.threadID, m.runID)
}

// RunError returns a RUN_ERROR event.
func (m *Mapper) RunError(err error) events.Event {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return events.NewRunErrorEvent(msg)
}

// StateSnapshot returns a STATE_SNAPSHOT event holding every slice of st.
func (m *Mapper) StateSnapshot(st store.State) events.Event {
	return events.NewStateSnapshotEvent(st.Data())
}

// StateDelta returns a STATE_DELTA event from JSON patch operations.
func (m *Mapper) StateDelta(patches ...event.JSONPatch) events.Event {
	ops := make([]events.JSONPatchOperation, len(patches))
	for i, p := range patches {
		ops[i] = events.JSONPatchOperation{
			Op:    string(p.Op),
			Path:  p.Path,
			Value: p.Value,
		}
	}
	return events.NewStateDeltaEvent(ops)
}

// Diff returns the patches that turn prev into next: add for new slices,
// replace for changed ones. Unchanged slices produce nothing.
func Diff(prev, next store.State) []event.JSONPatch {
	var patches []event.JSONPatch
	for _, key := range next.Keys() {
		v, _ := next.Slice(key)
		old, ok := prev.Slice(key)
		switch {
		case !ok:
			patches = append(patches, event.Add(event.SlicePath(key), v))
		case !equal.Values(old, v):
			patches = append(patches, event.Replace(event.SlicePath(key), v))
		}
	}
	return patches
}

// MapEvent converts a store event to an AG-UI event.
// Returns nil for events that have no AG-UI equivalent.
func (m *Mapper) MapEvent(e event.Event) events.Event {
	switch e.Type {
	case event.StateChanged:
		return m.StateDelta(e.Patches...)

	case event.CommandRejected:
		value := map[string]any{"type": string(e.Action.Type)}
		if e.Error != nil {
			value["error"] = e.Error.Error()
		}
		return events.NewCustomEvent(CommandRejectedEvent, events.WithValue(value))

	// Lifecycle and dispatch notices carry no state of their own.
	case event.StoreReady, event.SliceRegistered, event.ActionDispatched:
		return nil

	default:
		return nil
	}
}

package storebridge

import "github.com/google/uuid"

// Type is the wire-level discriminator of an [Action]. It must match the
// host's handler identifier byte for byte.
type Type string

// String returns the discriminator text.
func (t Type) String() string {
	return string(t)
}

// Action is the message shared with the host's reducer and effect pipeline.
type Action struct {
	// Type identifies the handler that should process the action.
	Type Type

	// Payload carries the action's inputs. Its shape is fixed per Type.
	Payload any

	// CorrelationID links results produced by host effects back to the
	// action that started them.
	CorrelationID string
}

// NewAction creates an action with a fresh correlation ID.
func NewAction(t Type, payload any) Action {
	return Action{
		Type:          t,
		Payload:       payload,
		CorrelationID: uuid.New().String(),
	}
}

// Caused returns a follow-up action that keeps the correlation ID of a.
func (a Action) Caused(t Type, payload any) Action {
	return Action{
		Type:          t,
		Payload:       payload,
		CorrelationID: a.CorrelationID,
	}
}

// PayloadAs returns the action payload asserted to T.
// Returns the zero value and false if the payload has a different type.
func PayloadAs[T any](a Action) (T, bool) {
	var zero T
	if a.Payload == nil {
		return zero, false
	}
	v, ok := a.Payload.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

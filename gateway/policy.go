package gateway

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spetersoncode/storebridge"
)

// Category is the classification of a mutation.
type Category string

const (
	// CategoryCommand starts a well-defined host operation with caller
	// supplied inputs.
	CategoryCommand Category = "COMMAND"

	// CategoryPureStateWrite is a deterministic local write confined to one
	// slice.
	CategoryPureStateWrite Category = "PURE_STATE_WRITE"

	// CategoryEffectResult carries the outcome of a host-internal operation.
	CategoryEffectResult Category = "EFFECT_RESULT"

	// CategoryIdentityFlowTrigger starts or ends a host-owned
	// authentication or authorization sequence.
	CategoryIdentityFlowTrigger Category = "IDENTITY_FLOW_TRIGGER"
)

// Includable reports whether mutations of c may be allowed at all.
func (c Category) Includable() bool {
	return c == CategoryCommand || c == CategoryPureStateWrite
}

// Traits are the observable properties a mutation is classified by.
type Traits struct {
	StartsOperation bool // triggers a host effect with caller inputs
	LocalWrite      bool // writes a scalar or flag of one slice
	EffectResult    bool // payload is produced by a host pipeline
	IdentityFlow    bool // part of login, logout or token handling
}

func (t Traits) empty() bool {
	return t == Traits{}
}

// Mutation declares one message the host's reducers or effects accept.
type Mutation struct {
	Type      storebridge.Type
	Slice     string
	Payload   any // zero value of the payload type; nil when there is none
	Traits    Traits
	Rationale string // why a client may send it; required for inclusion
}

// PayloadShape returns the Go type name of the payload, or "none".
func (m Mutation) PayloadShape() string {
	if m.Payload == nil {
		return "none"
	}
	return reflect.TypeOf(m.Payload).String()
}

// Decision is the result of classifying one mutation.
type Decision struct {
	Category Category
	Allowed  bool
	Reason   string
}

// Policy assigns each mutation exactly one category.
type Policy struct{}

// DefaultPolicy returns the policy the allow-list is computed with.
func DefaultPolicy() Policy {
	return Policy{}
}

// Classify assigns m a category and decides whether it is allowed.
//
// Excludable traits win any tie, identity flows before effect results.
// Inclusion needs a stated rationale; exclusion needs none. A mutation
// declaring no traits is an error.
func (Policy) Classify(m Mutation) (Decision, error) {
	if strings.TrimSpace(string(m.Type)) == "" {
		return Decision{}, ErrTypeRequired
	}
	if m.Traits.empty() {
		return Decision{}, fmt.Errorf("%w: %q", ErrUnclassifiable, m.Type)
	}

	switch {
	case m.Traits.IdentityFlow:
		return Decision{Category: CategoryIdentityFlowTrigger, Reason: "identity flows belong to the host"}, nil
	case m.Traits.EffectResult:
		return Decision{Category: CategoryEffectResult, Reason: "payload is produced by a host pipeline"}, nil
	}

	cat := CategoryPureStateWrite
	if m.Traits.StartsOperation {
		cat = CategoryCommand
	}
	if strings.TrimSpace(m.Rationale) == "" {
		return Decision{Category: cat, Reason: "no stated rationale"}, nil
	}
	return Decision{Category: cat, Allowed: true, Reason: m.Rationale}, nil
}

package gateway

import (
	"fmt"
	"reflect"
	"sort"

	"go.uber.org/zap"

	"github.com/spetersoncode/storebridge"
	"github.com/spetersoncode/storebridge/event"
	"github.com/spetersoncode/storebridge/internal/logging"
	"github.com/spetersoncode/storebridge/store"
)

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the gateway logger. Defaults to the module logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithEvents sets a channel that receives CommandRejected events.
func WithEvents(ch chan<- event.Event) Option {
	return func(g *Gateway) {
		g.events = ch
	}
}

// Gateway forwards allowed descriptors to the host's dispatcher.
// It is safe for concurrent use.
type Gateway struct {
	dispatcher store.Dispatcher
	logger     *zap.Logger
	events     chan<- event.Event
}

// New creates a gateway bound to the host's mutation entry point.
func New(d store.Dispatcher, opts ...Option) *Gateway {
	g := &Gateway{
		dispatcher: d,
		logger:     logging.Named("gateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Dispatch forwards d exactly once, unchanged. Descriptors not on the
// allow-list, including the zero Descriptor, are rejected with
// ErrCommandNotAllowed and never reach the host.
func (g *Gateway) Dispatch(d Descriptor) error {
	if err := validate(d); err != nil {
		g.logger.Warn("command rejected",
			zap.String("type", string(d.typ)),
			zap.Error(err))
		event.Emit(g.events, event.Event{
			Type:   event.CommandRejected,
			Action: storebridge.Action{Type: d.typ, Payload: d.payload},
			Error:  err,
		})
		return err
	}

	a := storebridge.NewAction(d.typ, d.payload)
	g.logger.Debug("command forwarded",
		zap.String("type", string(a.Type)),
		zap.String("category", string(d.category)),
		zap.String("correlation_id", a.CorrelationID))
	g.dispatcher.Dispatch(a)
	return nil
}

func validate(d Descriptor) error {
	if d.IsZero() {
		return fmt.Errorf("%w: empty descriptor", ErrCommandNotAllowed)
	}
	e, ok := registry[d.typ]
	if !ok || !e.decision.Allowed {
		return fmt.Errorf("%w: %q", ErrCommandNotAllowed, d.typ)
	}
	if d.category != e.decision.Category {
		return fmt.Errorf("%w: %q category %s", ErrCommandNotAllowed, d.typ, d.category)
	}
	if reflect.TypeOf(d.payload) != reflect.TypeOf(e.mutation.Payload) {
		return fmt.Errorf("%w: %q payload %T, want %s", ErrCommandNotAllowed, d.typ, d.payload, e.mutation.PayloadShape())
	}
	return nil
}

// Verify compares the declarations with the discriminators the host handles.
// It returns a *MismatchError when an allowed discriminator is not handled
// by the host, or when the host handles one that is not declared.
func (g *Gateway) Verify(hostTypes []storebridge.Type) error {
	return Verify(hostTypes)
}

// Verify is the package-level form of Gateway.Verify.
func Verify(hostTypes []storebridge.Type) error {
	handled := make(map[storebridge.Type]bool, len(hostTypes))
	for _, t := range hostTypes {
		handled[t] = true
	}

	var mismatch MismatchError
	for _, t := range Allowed() {
		if !handled[t] {
			mismatch.Missing = append(mismatch.Missing, t)
		}
	}
	for t := range handled {
		if _, ok := registry[t]; !ok {
			mismatch.Undeclared = append(mismatch.Undeclared, t)
		}
	}
	sort.Slice(mismatch.Undeclared, func(i, j int) bool { return mismatch.Undeclared[i] < mismatch.Undeclared[j] })

	if len(mismatch.Missing) == 0 && len(mismatch.Undeclared) == 0 {
		return nil
	}
	return &mismatch
}

// Package feature holds the bridge services, one per host slice.
//
// Each service binds a fixed catalog of selectors and commands to one slice.
// Selectors read through accessor projections with documented defaults;
// commands go through the gateway and never report an outcome back, which
// shows up as later state instead.
package feature

import (
	"github.com/spetersoncode/storebridge/gateway"
)

// Commander is what services dispatch commands through.
type Commander interface {
	Dispatch(d gateway.Descriptor) error
}

var _ Commander = (*gateway.Gateway)(nil)

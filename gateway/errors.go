package gateway

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spetersoncode/storebridge"
)

var (
	// ErrCommandNotAllowed is returned when a descriptor is not on the
	// allow-list.
	ErrCommandNotAllowed = errors.New("command not allowed")

	// ErrUnclassifiable is returned when a mutation declares no traits.
	ErrUnclassifiable = errors.New("mutation has no classification traits")

	// ErrTypeRequired is returned when a mutation has an empty discriminator.
	ErrTypeRequired = errors.New("mutation type is required")
)

// MismatchError reports a difference between the declared mutations and the
// discriminators the host handles.
type MismatchError struct {
	// Missing lists allowed discriminators the host does not handle.
	// Dispatching them would be silently ignored by the host.
	Missing []storebridge.Type

	// Undeclared lists host discriminators with no declaration here.
	Undeclared []storebridge.Type
}

// Error returns a message listing both sets.
func (e *MismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("not handled by host: %s", joinTypes(e.Missing)))
	}
	if len(e.Undeclared) > 0 {
		parts = append(parts, fmt.Sprintf("not declared: %s", joinTypes(e.Undeclared)))
	}
	return "gateway mismatch: " + strings.Join(parts, "; ")
}

func joinTypes(types []storebridge.Type) string {
	quoted := make([]string, len(types))
	for i, t := range types {
		quoted[i] = fmt.Sprintf("%q", string(t))
	}
	return strings.Join(quoted, ", ")
}

package gateway

import (
	"fmt"
	"sort"

	"github.com/spetersoncode/storebridge"
)

type entry struct {
	mutation Mutation
	decision Decision
}

// registry holds every declared mutation with its decision.
// It is computed once and never modified.
var registry = mustClassify(DefaultPolicy(), declarations)

// Classify applies p to every mutation. Duplicate discriminators are an error.
func Classify(p Policy, mutations []Mutation) (map[storebridge.Type]Decision, error) {
	decisions := make(map[storebridge.Type]Decision, len(mutations))
	for _, m := range mutations {
		if _, exists := decisions[m.Type]; exists {
			return nil, fmt.Errorf("mutation declared twice: %q", m.Type)
		}
		d, err := p.Classify(m)
		if err != nil {
			return nil, err
		}
		decisions[m.Type] = d
	}
	return decisions, nil
}

func mustClassify(p Policy, mutations []Mutation) map[storebridge.Type]entry {
	decisions, err := Classify(p, mutations)
	if err != nil {
		panic(fmt.Sprintf("gateway: invalid declarations: %v", err))
	}
	entries := make(map[storebridge.Type]entry, len(mutations))
	for _, m := range mutations {
		entries[m.Type] = entry{mutation: m, decision: decisions[m.Type]}
	}
	return entries
}

// IsAllowed reports whether t is on the allow-list.
func IsAllowed(t storebridge.Type) bool {
	e, ok := registry[t]
	return ok && e.decision.Allowed
}

// Allowed returns the allowed discriminators, sorted.
func Allowed() []storebridge.Type {
	var types []storebridge.Type
	for t, e := range registry {
		if e.decision.Allowed {
			types = append(types, t)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Declared returns every declared discriminator, sorted.
func Declared() []storebridge.Type {
	types := make([]storebridge.Type, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

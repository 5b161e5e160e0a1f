package gateway

import (
	"encoding/json"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/spetersoncode/storebridge"
)

// Entry is one row of the classification table.
type Entry struct {
	Type      storebridge.Type `json:"type" yaml:"type"`
	Slice     string           `json:"slice" yaml:"slice"`
	Payload   string           `json:"payload" yaml:"payload"`
	Category  Category         `json:"category" yaml:"category"`
	Allowed   bool             `json:"allowed" yaml:"allowed"`
	Rationale string           `json:"rationale,omitempty" yaml:"rationale,omitempty"`
	Reason    string           `json:"reason" yaml:"reason"`
}

// Manifest is the full classification table, sorted by slice then type.
type Manifest []Entry

// GetManifest returns the classification of every declared mutation.
func GetManifest() Manifest {
	m := make(Manifest, 0, len(registry))
	for _, e := range registry {
		m = append(m, Entry{
			Type:      e.mutation.Type,
			Slice:     e.mutation.Slice,
			Payload:   e.mutation.PayloadShape(),
			Category:  e.decision.Category,
			Allowed:   e.decision.Allowed,
			Rationale: e.mutation.Rationale,
			Reason:    e.decision.Reason,
		})
	}
	sort.Slice(m, func(i, j int) bool {
		if m[i].Slice != m[j].Slice {
			return m[i].Slice < m[j].Slice
		}
		return m[i].Type < m[j].Type
	})
	return m
}

// Manifest returns the classification table.
func (g *Gateway) Manifest() Manifest {
	return GetManifest()
}

// Allowed returns the allowed discriminators.
func (g *Gateway) Allowed() []storebridge.Type {
	return Allowed()
}

// Allowed returns the allowed entries.
func (m Manifest) Allowed() Manifest {
	var out Manifest
	for _, e := range m {
		if e.Allowed {
			out = append(out, e)
		}
	}
	return out
}

// Slice returns the entries of one slice.
func (m Manifest) Slice(key string) Manifest {
	var out Manifest
	for _, e := range m {
		if e.Slice == key {
			out = append(out, e)
		}
	}
	return out
}

// YAML encodes the manifest as YAML.
func (m Manifest) YAML() ([]byte, error) {
	return yaml.Marshal(m)
}

// JSON encodes the manifest as indented JSON.
func (m Manifest) JSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

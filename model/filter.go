package model

import (
	"sort"

	"github.com/spetersoncode/storebridge"
)

// FilterSlice is the key of the filter slice.
const FilterSlice = "filter"

// Filter is one selectable facet.
type Filter struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Group string `json:"group,omitempty"`
}

// FilterToggle sets one filter on or off.
type FilterToggle struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
}

// FilterState is the filter slice.
type FilterState struct {
	Filters []Filter                  `json:"filters"`
	Active  map[string]bool           `json:"active"`
	Status  storebridge.LoadingStatus `json:"status"`
}

// ActiveIDs returns the sorted ids of active filters.
func (s FilterState) ActiveIDs() []string {
	ids := make([]string, 0, len(s.Active))
	for id, on := range s.Active {
		if on {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

package hostapp

import (
	"context"

	"github.com/spetersoncode/storebridge"
	"github.com/spetersoncode/storebridge/model"
	"github.com/spetersoncode/storebridge/store"
)

// InitialFilter returns the first value of the filter slice.
func InitialFilter() model.FilterState {
	return model.FilterState{
		Filters: []model.Filter{},
		Active:  map[string]bool{},
		Status:  storebridge.StatusPending,
	}
}

func reduceFilter(s model.FilterState, a storebridge.Action) model.FilterState {
	switch a.Type {
	case TypeLoadFilters:
		s.Status = storebridge.StatusLoading

	case TypeFiltersLoaded:
		filters, ok := storebridge.PayloadAs[[]model.Filter](a)
		if !ok {
			return s
		}
		known := make(map[string]bool, len(filters))
		for _, f := range filters {
			known[f.ID] = true
		}
		active := make(map[string]bool, len(s.Active))
		for id, on := range s.Active {
			if on && known[id] {
				active[id] = true
			}
		}
		s.Filters = filters
		s.Active = active
		s.Status = storebridge.StatusSuccess

	case TypeFiltersFailed:
		s.Status = storebridge.StatusFail

	case TypeSetFilterActive:
		t, ok := storebridge.PayloadAs[model.FilterToggle](a)
		if !ok || t.ID == "" {
			return s
		}
		active := make(map[string]bool, len(s.Active)+1)
		for id, on := range s.Active {
			active[id] = on
		}
		if t.Active {
			active[t.ID] = true
		} else {
			delete(active, t.ID)
		}
		s.Active = active

	case TypeResetFilters:
		s.Active = map[string]bool{}
	}
	return s
}

func (h *Host) filterEffect(rt *store.Runtime, a storebridge.Action) {
	if a.Type != TypeLoadFilters {
		return
	}
	rt.Go(func(ctx context.Context) {
		if !h.pause(ctx) {
			return
		}
		if len(h.filters) == 0 {
			rt.Dispatch(a.Caused(TypeFiltersFailed, "filter catalog is empty"))
			return
		}
		filters := append([]model.Filter(nil), h.filters...)
		rt.Dispatch(a.Caused(TypeFiltersLoaded, filters))
	})
}

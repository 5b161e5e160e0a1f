// Package filter bridges the host's filter slice.
package filter

import (
	"sync"

	"go.uber.org/zap"

	"github.com/spetersoncode/storebridge"
	"github.com/spetersoncode/storebridge/accessor"
	"github.com/spetersoncode/storebridge/feature"
	"github.com/spetersoncode/storebridge/gateway"
	"github.com/spetersoncode/storebridge/internal/logging"
	"github.com/spetersoncode/storebridge/lens"
	"github.com/spetersoncode/storebridge/model"
	"github.com/spetersoncode/storebridge/store"
)

// Slice shapes, shared with the host.
type (
	State  = model.FilterState
	Filter = model.Filter
)

var (
	slice       = lens.Slice[State](model.FilterSlice)
	filtersLens = lens.Compose(slice, lens.Prop("filters", func(s State) []Filter { return s.Filters }))
	activeLens  = lens.Compose(slice, lens.Prop("active", func(s State) []string { return s.ActiveIDs() }))
	statusLens  = lens.Compose(slice, lens.New("status", func(s State) (storebridge.LoadingStatus, bool) {
		return s.Status, s.Status.Valid()
	}))
)

// Projections of the filter slice.
var (
	AllFilters      = lens.Or("AllFilters", filtersLens, []Filter{})
	ActiveFilterIDs = lens.Or("ActiveFilterIDs", activeLens, []string{})
	Status          = lens.Or("Status", statusLens, storebridge.StatusPending)
	IsLoading       = lens.Map("IsLoading", Status, storebridge.LoadingStatus.IsLoading)
)

// Active returns the projection of filter.active[id]. Default: false.
func Active(id string) lens.StateProjection[bool] {
	l := lens.Compose(slice, lens.Prop("active", func(s State) map[string]bool { return s.Active }))
	return lens.Or("IsActive("+id+")", lens.Compose(l, lens.New(id, func(m map[string]bool) (bool, bool) {
		on, ok := m[id]
		return on, ok
	})), false)
}

// Service exposes the filter slice to client code.
type Service struct {
	reader store.Reader
	opts   []accessor.SnapshotOption
	gw     feature.Commander
	logger *zap.Logger

	mu     sync.Mutex
	active map[string]*accessor.Selector[bool]

	allFilters *accessor.Selector[[]Filter]
	activeIDs  *accessor.Selector[[]string]
	status     *accessor.Selector[storebridge.LoadingStatus]
	isLoading  *accessor.Selector[bool]
}

// New binds a filter service to the host store and gateway.
func New(r store.Reader, gw feature.Commander, opts ...accessor.SnapshotOption) *Service {
	return &Service{
		reader:     r,
		opts:       opts,
		gw:         gw,
		logger:     logging.Named("filter"),
		active:     make(map[string]*accessor.Selector[bool]),
		allFilters: accessor.NewSelector(r, AllFilters, opts...),
		activeIDs:  accessor.NewSelector(r, ActiveFilterIDs, opts...),
		status:     accessor.NewSelector(r, Status, opts...),
		isLoading:  accessor.NewSelector(r, IsLoading, opts...),
	}
}

// AllFilters is filter.filters. Default: empty.
func (s *Service) AllFilters() *accessor.Selector[[]Filter] { return s.allFilters }

// ActiveFilterIDs is the sorted ids set in filter.active. Default: empty.
func (s *Service) ActiveFilterIDs() *accessor.Selector[[]string] { return s.activeIDs }

// IsActive is filter.active[id]. Default: false. Repeated calls with the
// same id return the same selector and so share one stream.
func (s *Service) IsActive(id string) *accessor.Selector[bool] {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.active[id]
	if !ok {
		sel = accessor.NewSelector(s.reader, Active(id), s.opts...)
		s.active[id] = sel
	}
	return sel
}

// Status is filter.status. Default: "pending".
func (s *Service) Status() *accessor.Selector[storebridge.LoadingStatus] { return s.status }

// IsLoading reports whether filter.status is "loading". Default: false.
func (s *Service) IsLoading() *accessor.Selector[bool] { return s.isLoading }

// Selectors lists the fixed selectors of the service.
func (s *Service) Selectors() []accessor.Source {
	return []accessor.Source{s.allFilters, s.activeIDs, s.status, s.isLoading}
}

// LoadFilters loads the filter catalog.
func (s *Service) LoadFilters() {
	s.dispatch(gateway.LoadFilters())
}

// SetFilterActive turns a filter on or off.
func (s *Service) SetFilterActive(id string, active bool) {
	s.dispatch(gateway.SetFilterActive(id, active))
}

// ResetFilters turns every filter off.
func (s *Service) ResetFilters() {
	s.dispatch(gateway.ResetFilters())
}

func (s *Service) dispatch(d gateway.Descriptor) {
	if err := s.gw.Dispatch(d); err != nil {
		s.logger.Error("command not dispatched", zap.String("type", string(d.Type())), zap.Error(err))
	}
}

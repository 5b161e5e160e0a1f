// Package search bridges the host's search slice.
package search

import (
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
	State    = model.SearchState
	Query    = model.Query
	Document = model.Document
	Scope    = model.Scope
)

var (
	slice = lens.Slice[State](model.SearchSlice)

	documentsLens = lens.Compose(slice, lens.Prop("documents", func(s State) []Document { return s.Documents }))
	queryLens     = lens.Compose(slice, lens.Prop("query", func(s State) Query { return s.Query }))
	totalLens     = lens.Compose(slice, lens.Prop("total", func(s State) int { return s.Total }))
	statusLens    = lens.Compose(slice, lens.New("status", func(s State) (storebridge.LoadingStatus, bool) {
		return s.Status, s.Status.Valid()
	}))
	selectedLens = lens.Compose(slice, lens.New("selectedId", func(s State) (*Document, bool) {
		d, ok := s.Document(s.SelectedID)
		if !ok {
			return nil, false
		}
		return &d, true
	}))
)

// Projections of the search slice.
var (
	AllDocuments     = lens.Or("AllDocuments", documentsLens, []Document{})
	CurrentQuery     = lens.Or("Query", queryLens, model.DefaultQuery())
	Total            = lens.Or("Total", totalLens, 0)
	SelectedDocument = lens.Or[store.State, *Document]("SelectedDocument", selectedLens, nil)
	Status           = lens.Or("Status", statusLens, storebridge.StatusPending)
	IsLoading        = lens.Map("IsLoading", Status, storebridge.LoadingStatus.IsLoading)
)

// Service exposes the search slice to client code.
type Service struct {
	gw     feature.Commander
	logger *zap.Logger

	allDocuments     *accessor.Selector[[]Document]
	query            *accessor.Selector[Query]
	total            *accessor.Selector[int]
	selectedDocument *accessor.Selector[*Document]
	status           *accessor.Selector[storebridge.LoadingStatus]
	isLoading        *accessor.Selector[bool]
}

// New binds a search service to the host store and gateway.
func New(r store.Reader, gw feature.Commander, opts ...accessor.SnapshotOption) *Service {
	return &Service{
		gw:               gw,
		logger:           logging.Named("search"),
		allDocuments:     accessor.NewSelector(r, AllDocuments, opts...),
		query:            accessor.NewSelector(r, CurrentQuery, opts...),
		total:            accessor.NewSelector(r, Total, opts...),
		selectedDocument: accessor.NewSelector(r, SelectedDocument, opts...),
		status:           accessor.NewSelector(r, Status, opts...),
		isLoading:        accessor.NewSelector(r, IsLoading, opts...),
	}
}

// AllDocuments is search.documents. Default: empty.
func (s *Service) AllDocuments() *accessor.Selector[[]Document] { return s.allDocuments }

// Query is search.query. Default: empty text, scope "Everything".
func (s *Service) Query() *accessor.Selector[Query] { return s.query }

// Total is search.total. Default: 0.
func (s *Service) Total() *accessor.Selector[int] { return s.total }

// SelectedDocument is the document named by search.selectedId. Default: nil.
func (s *Service) SelectedDocument() *accessor.Selector[*Document] { return s.selectedDocument }

// Status is search.status. Default: "pending".
func (s *Service) Status() *accessor.Selector[storebridge.LoadingStatus] { return s.status }

// IsLoading reports whether search.status is "loading". Default: false.
func (s *Service) IsLoading() *accessor.Selector[bool] { return s.isLoading }

// Selectors lists every selector of the service.
func (s *Service) Selectors() []accessor.Source {
	return []accessor.Source{s.allDocuments, s.query, s.total, s.selectedDocument, s.status, s.isLoading}
}

// LoadSearch runs a search.
func (s *Service) LoadSearch(q Query) {
	s.dispatch(gateway.LoadSearch(q))
}

// ClearSearch resets the results.
func (s *Service) ClearSearch() {
	s.dispatch(gateway.ClearSearch())
}

// SelectDocument selects a document by id.
func (s *Service) SelectDocument(id string) {
	s.dispatch(gateway.SelectDocument(id))
}

// SetScope sets the scope of the next search.
func (s *Service) SetScope(scope Scope) {
	s.dispatch(gateway.SetSearchScope(scope))
}

func (s *Service) dispatch(d gateway.Descriptor) {
	if err := s.gw.Dispatch(d); err != nil {
		s.logger.Error("command not dispatched", zap.String("type", string(d.Type())), zap.Error(err))
	}
}

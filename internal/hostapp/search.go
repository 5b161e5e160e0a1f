package hostapp

import (
	"context"

	"go.uber.org/zap"

	"github.com/spetersoncode/storebridge"
	"github.com/spetersoncode/storebridge/internal/retry"
	"github.com/spetersoncode/storebridge/model"
	"github.com/spetersoncode/storebridge/store"
)

// InitialSearch returns the first value of the search slice.
func InitialSearch() model.SearchState {
	return model.SearchState{
		Query:     model.DefaultQuery(),
		Documents: []model.Document{},
		Status:    storebridge.StatusPending,
	}
}

func reduceSearch(s model.SearchState, a storebridge.Action) model.SearchState {
	switch a.Type {
	case TypeLoadSearch:
		q, ok := storebridge.PayloadAs[model.Query](a)
		if !ok {
			return s
		}
		if !q.Scope.Valid() {
			q.Scope = s.Query.Scope
		}
		s.Query = q
		s.Status = storebridge.StatusLoading

	case TypeSearchLoaded:
		r, ok := storebridge.PayloadAs[model.SearchResult](a)
		if !ok || r.Query != s.Query {
			return s
		}
		s.Documents = r.Documents
		s.Total = r.Total
		s.Status = storebridge.StatusSuccess
		if _, found := s.Document(s.SelectedID); !found {
			s.SelectedID = ""
		}

	case TypeSearchFailed:
		s.Status = storebridge.StatusFail

	case TypeClearSearch:
		next := InitialSearch()
		next.Query.Scope = s.Query.Scope
		return next

	case TypeSelectDocument:
		id, ok := storebridge.PayloadAs[string](a)
		if !ok && a.Payload != nil {
			return s
		}
		s.SelectedID = id

	case TypeSetSearchScope:
		scope, ok := storebridge.PayloadAs[model.Scope](a)
		if ok && scope.Valid() {
			s.Query.Scope = scope
		}
	}
	return s
}

func (h *Host) searchEffect(rt *store.Runtime, a storebridge.Action) {
	if a.Type != TypeLoadSearch {
		return
	}
	st, ok := store.SliceAs[model.SearchState](rt.State(), model.SearchSlice)
	if !ok {
		return
	}
	q := st.Query

	rt.Go(func(ctx context.Context) {
		if !h.pause(ctx) {
			return
		}
		docs, err := retry.Do(ctx, h.retry, func(ctx context.Context) ([]model.Document, error) {
			return h.index.Search(ctx, q)
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			h.logger.Warn("search failed",
				zap.String("q", q.Q),
				zap.String("correlation_id", a.CorrelationID),
				zap.Error(err))
			rt.Dispatch(a.Caused(TypeSearchFailed, "search failed"))
			return
		}
		rt.Dispatch(a.Caused(TypeSearchLoaded, model.SearchResult{Query: q, Documents: docs, Total: len(docs)}))
	})
}

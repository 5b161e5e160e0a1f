package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spetersoncode/storebridge"
	"github.com/spetersoncode/storebridge/accessor"
	"github.com/spetersoncode/storebridge/gateway"
	"github.com/spetersoncode/storebridge/internal/hostapp"
	"github.com/spetersoncode/storebridge/internal/logging"
	"github.com/spetersoncode/storebridge/model"
	"github.com/spetersoncode/storebridge/store"
)

func newService(t *testing.T, opts hostapp.Options) (*Service, *hostapp.Host) {
	t.Helper()
	opts.JWTSecret = []byte("search-test-secret")
	h, err := hostapp.New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return New(h.Store(), gateway.New(h.Store())), h
}

func snapshot[T any](t *testing.T, get func(context.Context, ...accessor.SnapshotOption) (T, error)) T {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	v, err := get(ctx)
	require.NoError(t, err)
	return v
}

func ids(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func TestProjections_Defaults(t *testing.T) {
	empty := store.NewState(1, nil)

	assert.Equal(t, []Document{}, AllDocuments.Get(empty))
	assert.Equal(t, model.DefaultQuery(), CurrentQuery.Get(empty))
	assert.Zero(t, Total.Get(empty))
	assert.Nil(t, SelectedDocument.Get(empty))
	assert.Equal(t, storebridge.StatusPending, Status.Get(empty))
	assert.False(t, IsLoading.Get(empty))
}

func TestProjections_Paths(t *testing.T) {
	assert.Equal(t, "search.documents", AllDocuments.Path())
	assert.Equal(t, "search.query", CurrentQuery.Path())
	assert.Equal(t, "search.selectedId", SelectedDocument.Path())
	assert.Equal(t, "search.status", IsLoading.Path())
}

func TestService_InitialValues(t *testing.T) {
	svc, h := newService(t, hostapp.Options{})
	h.Start()

	assert.Equal(t, []Document{}, snapshot(t, svc.AllDocuments().Snapshot))
	assert.Equal(t, model.DefaultQuery(), snapshot(t, svc.Query().Snapshot))
	assert.Zero(t, snapshot(t, svc.Total().Snapshot))
	assert.Nil(t, snapshot(t, svc.SelectedDocument().Snapshot))
	assert.Equal(t, storebridge.StatusPending, snapshot(t, svc.Status().Snapshot))
	assert.False(t, snapshot(t, svc.IsLoading().Snapshot))
	assert.Len(t, svc.Selectors(), 6)
}

func TestService_LoadSearch(t *testing.T) {
	svc, h := newService(t, hostapp.Options{Latency: 20 * time.Millisecond})
	h.Start()

	var (
		mu      sync.Mutex
		loading []bool
	)
	cancel := svc.IsLoading().Stream().Observe(func(v bool) {
		mu.Lock()
		loading = append(loading, v)
		mu.Unlock()
	})
	defer cancel()

	svc.LoadSearch(Query{Q: "angular", Scope: model.ScopeEverything})
	assert.True(t, snapshot(t, svc.IsLoading().Snapshot))

	require.Eventually(t, func() bool {
		s, _ := svc.Status().Stream().Latest()
		return s == storebridge.StatusSuccess
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"doc-1", "doc-2"}, ids(snapshot(t, svc.AllDocuments().Snapshot)))
	assert.Equal(t, 2, snapshot(t, svc.Total().Snapshot))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{false, true, false}, loading)
}

func TestService_SelectScopeAndClear(t *testing.T) {
	svc, h := newService(t, hostapp.Options{})
	h.Start()

	svc.SetScope(model.ScopeTitles)
	assert.Equal(t, Query{Scope: model.ScopeTitles}, snapshot(t, svc.Query().Snapshot))

	svc.LoadSearch(Query{Q: "go", Scope: model.ScopeTitles})
	require.Eventually(t, func() bool {
		s, _ := svc.Status().Stream().Latest()
		return s == storebridge.StatusSuccess
	}, time.Second, 5*time.Millisecond)

	docs := snapshot(t, svc.AllDocuments().Snapshot)
	require.NotEmpty(t, docs)

	svc.SelectDocument(docs[0].ID)
	selected := snapshot(t, svc.SelectedDocument().Snapshot)
	require.NotNil(t, selected)
	assert.Equal(t, docs[0], *selected)

	svc.SelectDocument("missing")
	assert.Nil(t, snapshot(t, svc.SelectedDocument().Snapshot))

	svc.ClearSearch()
	assert.Equal(t, []Document{}, snapshot(t, svc.AllDocuments().Snapshot))
	assert.Equal(t, storebridge.StatusPending, snapshot(t, svc.Status().Snapshot))
	assert.Equal(t, model.ScopeTitles, snapshot(t, svc.Query().Snapshot).Scope)
}

type failingCommander struct{}

func (failingCommander) Dispatch(gateway.Descriptor) error {
	return errors.New("host unavailable")
}

func TestService_LogsDispatchErrors(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	logging.SetLogger(zap.New(core))
	t.Cleanup(func() { logging.SetLogger(nil) })

	svc := New(store.New(), failingCommander{})
	svc.ClearSearch()

	entries := logs.FilterMessage("command not dispatched").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Clear search", entries[0].ContextMap()["type"])
}

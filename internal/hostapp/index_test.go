package hostapp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/storebridge/model"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := OpenIndex(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	require.NoError(t, idx.Put(context.Background(), DefaultDocuments()...))
	return idx
}

func ids(docs []model.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func TestIndex_Search(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query model.Query
		want  []string
	}{
		{"everything matches title snippet and tags", model.Query{Q: "angular", Scope: model.ScopeEverything}, []string{"doc-1", "doc-2"}},
		{"titles only", model.Query{Q: "angular", Scope: model.ScopeTitles}, []string{"doc-1"}},
		{"tags only", model.Query{Q: "redux", Scope: model.ScopeTags}, []string{"doc-3"}},
		{"empty query matches all", model.Query{Scope: model.ScopeEverything}, []string{"doc-1", "doc-3", "doc-4", "doc-2", "doc-5"}},
		{"case insensitive", model.Query{Q: "SQLITE", Scope: model.ScopeTitles}, []string{"doc-5"}},
		{"like wildcards are literal", model.Query{Q: "%", Scope: model.ScopeEverything}, []string{}},
		{"unknown scope searches everything", model.Query{Q: "pipelines"}, []string{"doc-4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := idx.Search(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(docs))
		})
	}
}

func TestIndex_PutAndCount(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	require.NoError(t, idx.Put(ctx, model.Document{ID: "doc-1", Title: "Renamed"}))
	n, err = idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	docs, err := idx.Search(ctx, model.Query{Q: "Renamed", Scope: model.ScopeTitles})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, []string{}, docs[0].Tags)

	assert.Error(t, idx.Put(ctx, model.Document{Title: "no id"}))
}

func TestIndex_ClosedReturnsError(t *testing.T) {
	idx, err := OpenIndex("")
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	_, err = idx.Search(context.Background(), model.DefaultQuery())
	assert.Error(t, err)
	var nilIndex *Index
	assert.NoError(t, nilIndex.Close())
}

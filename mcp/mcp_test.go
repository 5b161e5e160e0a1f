package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/storebridge"
	"github.com/spetersoncode/storebridge/bridge"
	"github.com/spetersoncode/storebridge/gateway"
	"github.com/spetersoncode/storebridge/internal/hostapp"
	"github.com/spetersoncode/storebridge/model"
)

// recorder records descriptors instead of dispatching them.
type recorder struct {
	types []storebridge.Type
}

func (r *recorder) Dispatch(d gateway.Descriptor) error {
	r.types = append(r.types, d.Type())
	return nil
}

func newHost(t *testing.T) *hostapp.Host {
	t.Helper()
	h, err := hostapp.New(hostapp.Options{JWTSecret: []byte("mcp-test-secret")})
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func newRemote(t *testing.T, b *bridge.Bridge) *Remote {
	t.Helper()
	c, err := client.NewInProcessClient(NewServer(b, WithReadTimeout(time.Second)))
	require.NoError(t, err)

	r, err := NewRemoteFromClient(context.Background(), c)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestServer_ListsResources(t *testing.T) {
	h := newHost(t)
	b := bridge.New(h.Store(), gateway.New(h.Store()))
	r := newRemote(t, b)

	uris := r.Resources()
	assert.Len(t, uris, len(b.Resources())+1)
	assert.Contains(t, uris, ResourceURI(model.SearchSlice, "AllDocuments"))
	assert.Contains(t, uris, ResourceURI(model.UserSlice, "UserGroup"))
	assert.Contains(t, uris, ResourceURI(model.FilterSlice, "ActiveFilterIDs"))
	assert.Contains(t, uris, ManifestURI)
}

func TestServer_ToolsMatchAllowList(t *testing.T) {
	rec := &recorder{}
	h := newHost(t)
	r := newRemote(t, bridge.New(h.Store(), rec))

	args := map[string]map[string]any{
		"load_search":       {"q": "angular"},
		"select_document":   {"id": "doc-1"},
		"set_search_scope":  {"scope": "Titles"},
		"set_language":      {"language": "de"},
		"set_filter_active": {"id": "pdf", "active": true},
	}
	for _, name := range r.Tools() {
		_, err := r.Call(context.Background(), name, args[name])
		require.NoError(t, err, name)
	}

	assert.Len(t, r.Tools(), len(gateway.Allowed()))
	assert.ElementsMatch(t, gateway.Allowed(), rec.types)
	assert.False(t, r.Has("search_loaded"))
	assert.False(t, r.Has("login"))
}

func TestServer_ReadsSnapshots(t *testing.T) {
	h := newHost(t)
	h.Start()
	b := bridge.New(h.Store(), gateway.New(h.Store()))
	r := newRemote(t, b)
	ctx := context.Background()

	var group string
	require.NoError(t, r.ReadInto(ctx, ResourceURI(model.UserSlice, "UserGroup"), &group))
	assert.Equal(t, model.GuestGroup, group)

	_, err := r.Call(ctx, "set_language", map[string]any{"language": "de"})
	require.NoError(t, err)

	var lang string
	require.NoError(t, r.ReadInto(ctx, ResourceURI(model.UserSlice, "Language"), &lang))
	assert.Equal(t, "de", lang)

	_, err = r.Call(ctx, "load_search", map[string]any{"q": "angular", "scope": "Everything"})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		var status storebridge.LoadingStatus
		err := r.ReadInto(ctx, ResourceURI(model.SearchSlice, "Status"), &status)
		return err == nil && status == storebridge.StatusSuccess
	}, time.Second, 10*time.Millisecond)

	var docs []model.Document
	require.NoError(t, r.ReadInto(ctx, ResourceURI(model.SearchSlice, "AllDocuments"), &docs))
	assert.Len(t, docs, 2)
}

func TestServer_Manifest(t *testing.T) {
	h := newHost(t)
	r := newRemote(t, bridge.New(h.Store(), gateway.New(h.Store())))

	var m gateway.Manifest
	require.NoError(t, r.ReadInto(context.Background(), ManifestURI, &m))
	assert.Equal(t, gateway.GetManifest(), m)
}

func TestServer_ReadBeforeReadyTimesOut(t *testing.T) {
	h := newHost(t)
	b := bridge.New(h.Store(), gateway.New(h.Store()))

	c, err := client.NewInProcessClient(NewServer(b, WithReadTimeout(20*time.Millisecond)))
	require.NoError(t, err)
	r, err := NewRemoteFromClient(context.Background(), c)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Read(context.Background(), ResourceURI(model.SearchSlice, "Total"))
	assert.Error(t, err)
}

func TestServer_InvalidArguments(t *testing.T) {
	rec := &recorder{}
	h := newHost(t)
	r := newRemote(t, bridge.New(h.Store(), rec))

	_, err := r.Call(context.Background(), "select_document", map[string]any{})
	assert.Error(t, err)
	assert.Empty(t, rec.types)
}

package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/storebridge"
	"github.com/spetersoncode/storebridge/store"
)

func openMemory(t *testing.T) *Adapter {
	t.Helper()
	a, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(" ")
	assert.Error(t, err)
}

func TestAdapter_GetPutDelete(t *testing.T) {
	ctx := context.Background()
	a := openMemory(t)

	_, ok, err := a.Get(ctx, "search")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, a.Put(ctx, "search", json.RawMessage(`{"total":1}`)))
	require.NoError(t, a.Put(ctx, "search", json.RawMessage(`{"total":2}`)))

	raw, ok, err := a.Get(ctx, "search")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"total":2}`, string(raw))

	require.NoError(t, a.Delete(ctx, "search"))
	_, ok, err = a.Get(ctx, "search")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, a.Put(ctx, "", json.RawMessage(`1`)), store.ErrSliceKeyRequired)
}

func TestAdapter_LoadSave(t *testing.T) {
	ctx := context.Background()
	a := openMemory(t)
	require.NoError(t, a.Put(ctx, "stale", json.RawMessage(`1`)))

	require.NoError(t, a.Save(ctx, map[string]json.RawMessage{
		"search": json.RawMessage(`{"total":3}`),
		"user":   json.RawMessage(`{"language":"fr"}`),
	}))

	data, err := a.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, data, 2)
	assert.NotContains(t, data, "stale")
	assert.JSONEq(t, `{"language":"fr"}`, string(data["user"]))
}

func TestAdapter_Closed(t *testing.T) {
	ctx := context.Background()
	a, err := Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	_, _, err = a.Get(ctx, "k")
	assert.ErrorIs(t, err, store.ErrAdapterClosed)
	_, err = a.Load(ctx)
	assert.ErrorIs(t, err, store.ErrAdapterClosed)
}

type prefs struct {
	Language string `json:"language"`
}

func TestAdapter_FileRoundTripThroughStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	a, err := Open(path)
	require.NoError(t, err)

	reduce := func(p prefs, act storebridge.Action) prefs {
		if lang, ok := storebridge.PayloadAs[string](act); ok && act.Type == "Set language" {
			p.Language = lang
		}
		return p
	}

	s1 := store.New()
	require.NoError(t, store.Register(s1, "prefs", prefs{Language: "en"}, reduce))
	s1.Init()
	s1.Dispatch(storebridge.NewAction("Set language", "de"))
	require.NoError(t, s1.Sync(ctx, a))
	require.NoError(t, s1.Close())
	require.NoError(t, a.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	s2 := store.New()
	t.Cleanup(func() { s2.Close() })
	require.NoError(t, store.Register(s2, "prefs", prefs{Language: "en"}, reduce))
	require.NoError(t, s2.Hydrate(ctx, reopened))
	s2.Init()

	p, ok := store.SliceAs[prefs](s2.State(), "prefs")
	require.True(t, ok)
	assert.Equal(t, "de", p.Language)
}

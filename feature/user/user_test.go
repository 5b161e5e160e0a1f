package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/storebridge"
	"github.com/spetersoncode/storebridge/accessor"
	"github.com/spetersoncode/storebridge/gateway"
	"github.com/spetersoncode/storebridge/internal/hostapp"
	"github.com/spetersoncode/storebridge/model"
	"github.com/spetersoncode/storebridge/store"
)

func newService(t *testing.T) (*Service, *hostapp.Host) {
	t.Helper()
	h, err := hostapp.New(hostapp.Options{JWTSecret: []byte("user-test-secret")})
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return New(h.Store(), gateway.New(h.Store()), accessor.WithSnapshotTimeout(time.Second)), h
}

func userState(claims *Claims) store.State {
	return store.NewState(1, map[string]any{model.UserSlice: State{DecodedJWT: claims}})
}

func TestUserGroup_DefaultsToGuest(t *testing.T) {
	tests := []struct {
		name  string
		state store.State
		want  string
	}{
		{name: "no user slice", state: store.NewState(1, nil), want: model.GuestGroup},
		{name: "no token", state: userState(nil), want: model.GuestGroup},
		{name: "token without group", state: userState(&Claims{Subject: "user-1"}), want: model.GuestGroup},
		{name: "group present", state: userState(&Claims{Subject: "user-1", UserGroup: "ADMIN"}), want: "ADMIN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserGroup.Get(tt.state))
		})
	}
	assert.Equal(t, "user.decodedJwt.userGroup", UserGroup.Path())
}

func TestProjections_Defaults(t *testing.T) {
	empty := store.NewState(1, nil)

	assert.Nil(t, DecodedJWT.Get(empty))
	assert.False(t, IsLoggedIn.Get(empty))
	assert.Nil(t, UserProfile.Get(empty))
	assert.Empty(t, DisplayName.Get(empty))
	assert.Equal(t, "en", Language.Get(empty))
	assert.Equal(t, storebridge.StatusPending, Status.Get(empty))
	assert.False(t, IsLoading.Get(empty))
}

func TestService_LoginFlow(t *testing.T) {
	svc, h := newService(t)
	h.Start()
	ctx := context.Background()

	group, err := svc.UserGroup().Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.GuestGroup, group)

	token, err := h.Tokens().Sign(Claims{Subject: "user-1", UserGroup: "EDITOR"}, time.Hour)
	require.NoError(t, err)
	h.Login(token)

	require.Eventually(t, func() bool {
		name, _ := svc.DisplayName().Stream().Latest()
		return name == "Ada Lovelace"
	}, time.Second, 5*time.Millisecond)

	group, err = svc.UserGroup().Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EDITOR", group)

	loggedIn, err := svc.IsLoggedIn().Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, loggedIn)

	h.Logout()
	group, err = svc.UserGroup().Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.GuestGroup, group)
}

func TestService_Writes(t *testing.T) {
	svc, h := newService(t)
	h.Start()
	ctx := context.Background()

	svc.SetLanguage("fr")
	lang, err := svc.Language().Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fr", lang)

	// Without a session the profile load fails.
	svc.LoadProfile()
	require.Eventually(t, func() bool {
		s, _ := svc.Status().Stream().Latest()
		return s == storebridge.StatusFail
	}, time.Second, 5*time.Millisecond)

	profile, err := svc.Profile().Snapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, profile)
	assert.Len(t, svc.Selectors(), 8)
}

func TestService_CellTracksGroup(t *testing.T) {
	svc, h := newService(t)
	h.Start()

	scope := accessor.NewScope()
	defer scope.Close()
	cell, err := svc.UserGroup().Cell(accessor.WithScope(context.Background(), scope))
	require.NoError(t, err)
	assert.Equal(t, model.GuestGroup, cell.Get())

	token, err := h.Tokens().Sign(Claims{Subject: "user-2", UserGroup: "ADMIN"}, time.Hour)
	require.NoError(t, err)
	h.Login(token)
	assert.Eventually(t, func() bool { return cell.Get() == "ADMIN" }, time.Second, 5*time.Millisecond)
}

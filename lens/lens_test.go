package lens

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spetersoncode/storebridge/store"
)

type claims struct {
	UserGroup string
}

type userState struct {
	JWT      *claims
	Language string
}

var (
	userSlice  = Slice[userState]("user")
	decodedJWT = Ptr("decodedJwt", func(s userState) *claims { return s.JWT })
	userGroup  = Deref("userGroup", func(c *claims) (string, bool) {
		return c.UserGroup, c.UserGroup != ""
	})
	group = Or("UserGroup", Compose(userSlice, Compose(decodedJWT, userGroup)), "GUEST")
)

func TestLens_Path(t *testing.T) {
	assert.Equal(t, "user.decodedJwt.userGroup", group.Path())
	assert.Equal(t, "UserGroup", group.Name())
	assert.Equal(t, "GUEST", group.Default())
	assert.Equal(t, []string{"user", "decodedJwt"}, Compose(userSlice, decodedJWT).Steps())
}

func TestProjection_Defaults(t *testing.T) {
	tests := []struct {
		name  string
		state store.State
		want  string
	}{
		{"store not ready", store.State{}, "GUEST"},
		{"slice absent", store.NewState(1, map[string]any{"other": 1}), "GUEST"},
		{"slice of another type", store.NewState(1, map[string]any{"user": "oops"}), "GUEST"},
		{"intermediate absent", store.NewState(1, map[string]any{"user": userState{}}), "GUEST"},
		{"leaf empty", store.NewState(1, map[string]any{"user": userState{JWT: &claims{}}}), "GUEST"},
		{"present", store.NewState(1, map[string]any{"user": userState{JWT: &claims{UserGroup: "ADMIN"}}}), "ADMIN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, group.Get(tt.state))
		})
	}
}

func TestMap(t *testing.T) {
	lang := Or("Language", Compose(userSlice, Prop("language", func(s userState) string { return s.Language })), "en")
	isEnglish := Map("IsEnglish", lang, func(l string) bool { return l == "en" })

	assert.Equal(t, "user.language", isEnglish.Path())
	assert.True(t, isEnglish.Default())
	assert.True(t, isEnglish.Get(store.State{}))
	assert.False(t, isEnglish.Get(store.NewState(1, map[string]any{"user": userState{Language: "de"}})))
}

func TestZeroValues(t *testing.T) {
	var l Lens[int, int]
	_, ok := l.Get(1)
	assert.False(t, ok)

	var p Projection[int, string]
	assert.Equal(t, "", p.Get(1))
}

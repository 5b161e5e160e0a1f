package hostapp

import (
	"context"

	"go.uber.org/zap"

	"github.com/spetersoncode/storebridge"
	"github.com/spetersoncode/storebridge/model"
	"github.com/spetersoncode/storebridge/store"
)

// InitialUser returns the first value of the user slice.
func InitialUser() model.UserState {
	return model.UserState{
		Language: "en",
		Status:   storebridge.StatusPending,
	}
}

func reduceUser(s model.UserState, a storebridge.Action) model.UserState {
	switch a.Type {
	case TypeLogin, TypeRefreshToken, TypeLoadUserProfile:
		s.Status = storebridge.StatusLoading

	case TypeTokenDecoded:
		claims, ok := storebridge.PayloadAs[*model.Claims](a)
		if !ok {
			return s
		}
		c := *claims
		s.DecodedJWT = &c
		s.Status = storebridge.StatusSuccess

	case TypeLoginFailed:
		s.DecodedJWT = nil
		s.Profile = nil
		s.Status = storebridge.StatusFail

	case TypeLogout:
		next := InitialUser()
		next.Language = s.Language
		return next

	case TypeUserProfileLoaded:
		p, ok := storebridge.PayloadAs[model.Profile](a)
		if !ok {
			return s
		}
		s.Profile = &p
		s.Status = storebridge.StatusSuccess

	case TypeUserProfileFailed:
		s.Status = storebridge.StatusFail

	case TypeSetLanguage:
		lang, ok := storebridge.PayloadAs[string](a)
		if ok && lang != "" {
			s.Language = lang
		}
	}
	return s
}

func (h *Host) userEffect(rt *store.Runtime, a storebridge.Action) {
	switch a.Type {
	case TypeLogin:
		creds, _ := storebridge.PayloadAs[model.Credentials](a)
		h.decodeToken(rt, a, creds.Token)

	case TypeRefreshToken:
		token, _ := storebridge.PayloadAs[string](a)
		h.decodeToken(rt, a, token)

	case TypeTokenDecoded:
		// A new session loads its profile.
		rt.Dispatch(a.Caused(TypeLoadUserProfile, nil))

	case TypeLoadUserProfile:
		st, _ := store.SliceAs[model.UserState](rt.State(), model.UserSlice)
		claims := st.DecodedJWT
		rt.Go(func(ctx context.Context) {
			if !h.pause(ctx) {
				return
			}
			if claims == nil {
				rt.Dispatch(a.Caused(TypeUserProfileFailed, "not signed in"))
				return
			}
			p, ok := h.profiles[claims.Subject]
			if !ok {
				h.logger.Warn("profile not found", zap.String("sub", claims.Subject))
				rt.Dispatch(a.Caused(TypeUserProfileFailed, "profile not found"))
				return
			}
			rt.Dispatch(a.Caused(TypeUserProfileLoaded, p))
		})
	}
}

func (h *Host) decodeToken(rt *store.Runtime, a storebridge.Action, token string) {
	rt.Go(func(ctx context.Context) {
		if !h.pause(ctx) {
			return
		}
		claims, err := h.tokens.Decode(token)
		if err != nil {
			h.logger.Info("session token rejected",
				zap.String("type", string(a.Type)),
				zap.Error(err))
			rt.Dispatch(a.Caused(TypeLoginFailed, "invalid token"))
			return
		}
		rt.Dispatch(a.Caused(TypeTokenDecoded, claims))
	})
}

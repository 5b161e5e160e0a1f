// Package user bridges the host's user slice.
//
// Login, logout and token refresh are identity flows owned by the host and
// have no command here.
package user

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
	State   = model.UserState
	Claims  = model.Claims
	Profile = model.Profile
)

var (
	slice      = lens.Slice[State](model.UserSlice)
	decodedJWT = lens.Compose(slice, lens.Ptr("decodedJwt", func(s State) *Claims { return s.DecodedJWT }))
	profile    = lens.Compose(slice, lens.Ptr("profile", func(s State) *Profile { return s.Profile }))

	userGroupLens = lens.Compose(decodedJWT, lens.Deref("userGroup", func(c *Claims) (string, bool) {
		return c.UserGroup, c.UserGroup != ""
	}))
	displayNameLens = lens.Compose(profile, lens.Deref("displayName", func(p *Profile) (string, bool) {
		return p.DisplayName, true
	}))
	languageLens = lens.Compose(slice, lens.New("language", func(s State) (string, bool) {
		return s.Language, s.Language != ""
	}))
	statusLens = lens.Compose(slice, lens.New("status", func(s State) (storebridge.LoadingStatus, bool) {
		return s.Status, s.Status.Valid()
	}))
)

// Projections of the user slice.
var (
	DecodedJWT  = lens.Or[store.State, *Claims]("DecodedJWT", decodedJWT, nil)
	UserGroup   = lens.Or("UserGroup", userGroupLens, model.GuestGroup)
	IsLoggedIn  = lens.Map("IsLoggedIn", DecodedJWT, func(c *Claims) bool { return c != nil })
	UserProfile = lens.Or[store.State, *Profile]("Profile", profile, nil)
	DisplayName = lens.Or("DisplayName", displayNameLens, "")
	Language    = lens.Or("Language", languageLens, "en")
	Status      = lens.Or("Status", statusLens, storebridge.StatusPending)
	IsLoading   = lens.Map("IsLoading", Status, storebridge.LoadingStatus.IsLoading)
)

// Service exposes the user slice to client code.
type Service struct {
	gw     feature.Commander
	logger *zap.Logger

	decodedJWT  *accessor.Selector[*Claims]
	userGroup   *accessor.Selector[string]
	isLoggedIn  *accessor.Selector[bool]
	profile     *accessor.Selector[*Profile]
	displayName *accessor.Selector[string]
	language    *accessor.Selector[string]
	status      *accessor.Selector[storebridge.LoadingStatus]
	isLoading   *accessor.Selector[bool]
}

// New binds a user service to the host store and gateway.
func New(r store.Reader, gw feature.Commander, opts ...accessor.SnapshotOption) *Service {
	return &Service{
		gw:          gw,
		logger:      logging.Named("user"),
		decodedJWT:  accessor.NewSelector(r, DecodedJWT, opts...),
		userGroup:   accessor.NewSelector(r, UserGroup, opts...),
		isLoggedIn:  accessor.NewSelector(r, IsLoggedIn, opts...),
		profile:     accessor.NewSelector(r, UserProfile, opts...),
		displayName: accessor.NewSelector(r, DisplayName, opts...),
		language:    accessor.NewSelector(r, Language, opts...),
		status:      accessor.NewSelector(r, Status, opts...),
		isLoading:   accessor.NewSelector(r, IsLoading, opts...),
	}
}

// DecodedJWT is user.decodedJwt. Default: nil.
func (s *Service) DecodedJWT() *accessor.Selector[*Claims] { return s.decodedJWT }

// UserGroup is user.decodedJwt.userGroup. Default: "GUEST".
func (s *Service) UserGroup() *accessor.Selector[string] { return s.userGroup }

// IsLoggedIn reports whether user.decodedJwt is present. Default: false.
func (s *Service) IsLoggedIn() *accessor.Selector[bool] { return s.isLoggedIn }

// Profile is user.profile. Default: nil.
func (s *Service) Profile() *accessor.Selector[*Profile] { return s.profile }

// DisplayName is user.profile.displayName. Default: "".
func (s *Service) DisplayName() *accessor.Selector[string] { return s.displayName }

// Language is user.language. Default: "en".
func (s *Service) Language() *accessor.Selector[string] { return s.language }

// Status is user.status. Default: "pending".
func (s *Service) Status() *accessor.Selector[storebridge.LoadingStatus] { return s.status }

// IsLoading reports whether user.status is "loading". Default: false.
func (s *Service) IsLoading() *accessor.Selector[bool] { return s.isLoading }

// Selectors lists every selector of the service.
func (s *Service) Selectors() []accessor.Source {
	return []accessor.Source{s.decodedJWT, s.userGroup, s.isLoggedIn, s.profile, s.displayName, s.language, s.status, s.isLoading}
}

// LoadProfile fetches the signed-in user's profile.
func (s *Service) LoadProfile() {
	s.dispatch(gateway.LoadUserProfile())
}

// SetLanguage sets the display language.
func (s *Service) SetLanguage(lang string) {
	s.dispatch(gateway.SetLanguage(lang))
}

func (s *Service) dispatch(d gateway.Descriptor) {
	if err := s.gw.Dispatch(d); err != nil {
		s.logger.Error("command not dispatched", zap.String("type", string(d.Type())), zap.Error(err))
	}
}

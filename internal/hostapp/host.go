// Package hostapp is a reference host: it owns the store, registers the
// search, user and filter slices, and runs their reducers and effects.
//
// It stands in for the real host application in tests, the CLI demo and the
// MCP server. Identity flows (login, logout, token refresh) are driven
// through Host methods, never through the bridge.
package hostapp

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spetersoncode/storebridge"
	"github.com/spetersoncode/storebridge/internal/logging"
	"github.com/spetersoncode/storebridge/internal/retry"
	"github.com/spetersoncode/storebridge/model"
	"github.com/spetersoncode/storebridge/store"
)

// Discriminators handled by the host.
const (
	TypeLoadSearch     storebridge.Type = "Load search"
	TypeSearchLoaded   storebridge.Type = "Search loaded"
	TypeSearchFailed   storebridge.Type = "Search failed"
	TypeClearSearch    storebridge.Type = "Clear search"
	TypeSelectDocument storebridge.Type = "Select document"
	TypeSetSearchScope storebridge.Type = "Set search scope"

	TypeLogin             storebridge.Type = "Login"
	TypeLoginFailed       storebridge.Type = "Login failed"
	TypeLogout            storebridge.Type = "Logout"
	TypeRefreshToken      storebridge.Type = "Refresh token"
	TypeTokenDecoded      storebridge.Type = "Token decoded"
	TypeLoadUserProfile   storebridge.Type = "Load user profile"
	TypeUserProfileLoaded storebridge.Type = "User profile loaded"
	TypeUserProfileFailed storebridge.Type = "User profile failed"
	TypeSetLanguage       storebridge.Type = "Set language"

	TypeLoadFilters     storebridge.Type = "Load filters"
	TypeFiltersLoaded   storebridge.Type = "Filters loaded"
	TypeFiltersFailed   storebridge.Type = "Filters failed"
	TypeSetFilterActive storebridge.Type = "Set filter active"
	TypeResetFilters    storebridge.Type = "Reset filters"
)

// Handled returns every discriminator the host's reducers and effects accept.
func Handled() []storebridge.Type {
	return []storebridge.Type{
		TypeLoadSearch, TypeSearchLoaded, TypeSearchFailed,
		TypeClearSearch, TypeSelectDocument, TypeSetSearchScope,
		TypeLogin, TypeLoginFailed, TypeLogout, TypeRefreshToken, TypeTokenDecoded,
		TypeLoadUserProfile, TypeUserProfileLoaded, TypeUserProfileFailed, TypeSetLanguage,
		TypeLoadFilters, TypeFiltersLoaded, TypeFiltersFailed,
		TypeSetFilterActive, TypeResetFilters,
	}
}

// Options configures a Host.
type Options struct {
	// SearchDB is the document index path. Defaults to ":memory:".
	SearchDB string

	// Documents seed the index. Nil seeds DefaultDocuments.
	Documents []model.Document

	// Filters is the filter catalog. Nil uses DefaultFilters.
	Filters []model.Filter

	// Profiles maps token subjects to profiles. Nil uses DefaultProfiles.
	Profiles map[string]model.Profile

	// JWTSecret verifies session tokens.
	JWTSecret []byte

	// Retry configures retries of index queries. Zero uses retry.DefaultConfig.
	Retry retry.Config

	// Latency delays every effect, to make loading states visible.
	Latency time.Duration

	// Slices lists the slices registered by New. Nil registers all three.
	// Slices left out can be added later with Register.
	Slices []string

	// StoreOptions are passed to store.New.
	StoreOptions []store.Option
}

// Host owns the store and the resources its effects use.
type Host struct {
	store    *store.Store
	index    *Index
	tokens   *Tokens
	filters  []model.Filter
	profiles map[string]model.Profile
	retry    retry.Config
	latency  time.Duration
	logger   *zap.Logger
}

// New creates the store, opens the index and registers slices and effects.
// The store is not ready until Start.
func New(opts Options) (*Host, error) {
	index, err := OpenIndex(opts.SearchDB)
	if err != nil {
		return nil, err
	}

	docs := opts.Documents
	if docs == nil {
		docs = DefaultDocuments()
	}
	if err := index.Put(context.Background(), docs...); err != nil {
		index.Close()
		return nil, fmt.Errorf("seed search index: %w", err)
	}

	h := &Host{
		store:    store.New(opts.StoreOptions...),
		index:    index,
		tokens:   NewTokens(opts.JWTSecret),
		filters:  opts.Filters,
		profiles: opts.Profiles,
		retry:    opts.Retry,
		latency:  opts.Latency,
		logger:   logging.Named("host"),
	}
	if h.filters == nil {
		h.filters = DefaultFilters()
	}
	if h.profiles == nil {
		h.profiles = DefaultProfiles()
	}
	if h.retry.MaxAttempts == 0 {
		h.retry = retry.DefaultConfig()
	}

	h.store.AddEffect(h.searchEffect)
	h.store.AddEffect(h.userEffect)
	h.store.AddEffect(h.filterEffect)

	slices := opts.Slices
	if slices == nil {
		slices = []string{model.SearchSlice, model.UserSlice, model.FilterSlice}
	}
	for _, key := range slices {
		if err := h.Register(key); err != nil {
			h.Close()
			return nil, err
		}
	}
	return h, nil
}

// Register adds one of the host's slices to the store.
func (h *Host) Register(key string) error {
	switch key {
	case model.SearchSlice:
		return store.Register(h.store, key, InitialSearch(), reduceSearch)
	case model.UserSlice:
		return store.Register(h.store, key, InitialUser(), reduceUser)
	case model.FilterSlice:
		return store.Register(h.store, key, InitialFilter(), reduceFilter)
	default:
		return fmt.Errorf("unknown slice: %s", key)
	}
}

// Store returns the host's store.
func (h *Host) Store() *store.Store {
	return h.store
}

// Index returns the document index.
func (h *Host) Index() *Index {
	return h.index
}

// Tokens returns the session token verifier.
func (h *Host) Tokens() *Tokens {
	return h.tokens
}

// Start initializes the store.
func (h *Host) Start() {
	h.store.Init()
}

// Login starts a session with a signed token.
func (h *Host) Login(token string) {
	h.store.Dispatch(storebridge.NewAction(TypeLogin, model.Credentials{Token: token}))
}

// RefreshToken replaces the session token.
func (h *Host) RefreshToken(token string) {
	h.store.Dispatch(storebridge.NewAction(TypeRefreshToken, token))
}

// Logout ends the session.
func (h *Host) Logout() {
	h.store.Dispatch(storebridge.NewAction(TypeLogout, nil))
}

// Close stops effects and closes the index.
func (h *Host) Close() error {
	if err := h.store.Close(); err != nil {
		return err
	}
	return h.index.Close()
}

// pause waits for the configured latency. Returns false if ctx ends first.
func (h *Host) pause(ctx context.Context) bool {
	if h.latency <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(h.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

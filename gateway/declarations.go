package gateway

import (
	"github.com/spetersoncode/storebridge"
	"github.com/spetersoncode/storebridge/model"
)

// Discriminators of allowed mutations. Excluded ones appear only as literals
// in the declaration list below.
const (
	typeLoadSearch      storebridge.Type = "Load search"
	typeClearSearch     storebridge.Type = "Clear search"
	typeSelectDocument  storebridge.Type = "Select document"
	typeSetSearchScope  storebridge.Type = "Set search scope"
	typeLoadUserProfile storebridge.Type = "Load user profile"
	typeSetLanguage     storebridge.Type = "Set language"
	typeLoadFilters     storebridge.Type = "Load filters"
	typeSetFilterActive storebridge.Type = "Set filter active"
	typeResetFilters    storebridge.Type = "Reset filters"
)

// declarations is the host's whole mutation surface for the bridged slices.
var declarations = []Mutation{
	// search
	{
		Type: typeLoadSearch, Slice: model.SearchSlice, Payload: model.Query{},
		Traits:    Traits{StartsOperation: true},
		Rationale: "caller supplies the query and scope; the host runs the search",
	},
	{
		Type: "Search loaded", Slice: model.SearchSlice, Payload: model.SearchResult{},
		Traits: Traits{EffectResult: true, LocalWrite: true},
	},
	{
		Type: "Search failed", Slice: model.SearchSlice, Payload: "",
		Traits: Traits{EffectResult: true},
	},
	{
		Type: typeClearSearch, Slice: model.SearchSlice,
		Traits:    Traits{LocalWrite: true},
		Rationale: "resets the result list to its initial value",
	},
	{
		Type: typeSelectDocument, Slice: model.SearchSlice, Payload: "",
		Traits:    Traits{LocalWrite: true},
		Rationale: "sets the selected document id",
	},
	{
		Type: typeSetSearchScope, Slice: model.SearchSlice, Payload: model.Scope(""),
		Traits:    Traits{LocalWrite: true},
		Rationale: "sets the scope of the next query",
	},

	// user
	{
		Type: "Login", Slice: model.UserSlice, Payload: model.Credentials{},
		Traits: Traits{IdentityFlow: true, StartsOperation: true},
	},
	{
		Type: "Logout", Slice: model.UserSlice,
		Traits: Traits{IdentityFlow: true},
	},
	{
		Type: "Refresh token", Slice: model.UserSlice, Payload: "",
		Traits:    Traits{IdentityFlow: true, StartsOperation: true},
		Rationale: "lets a client extend a session about to expire",
	},
	{
		Type: "Token decoded", Slice: model.UserSlice, Payload: &model.Claims{},
		Traits: Traits{IdentityFlow: true, EffectResult: true},
	},
	{
		Type: "Login failed", Slice: model.UserSlice, Payload: "",
		Traits: Traits{IdentityFlow: true, EffectResult: true},
	},
	{
		Type: typeLoadUserProfile, Slice: model.UserSlice,
		Traits:    Traits{StartsOperation: true},
		Rationale: "asks the host to fetch the profile of the signed-in user",
	},
	{
		Type: "User profile loaded", Slice: model.UserSlice, Payload: model.Profile{},
		Traits: Traits{EffectResult: true},
	},
	{
		Type: "User profile failed", Slice: model.UserSlice, Payload: "",
		Traits: Traits{EffectResult: true},
	},
	{
		Type: typeSetLanguage, Slice: model.UserSlice, Payload: "",
		Traits:    Traits{LocalWrite: true},
		Rationale: "sets the display language",
	},

	// filter
	{
		Type: typeLoadFilters, Slice: model.FilterSlice,
		Traits:    Traits{StartsOperation: true},
		Rationale: "asks the host to load the filter catalog",
	},
	{
		Type: "Filters loaded", Slice: model.FilterSlice, Payload: []model.Filter{},
		Traits: Traits{EffectResult: true},
	},
	{
		Type: "Filters failed", Slice: model.FilterSlice, Payload: "",
		Traits: Traits{EffectResult: true},
	},
	{
		Type: typeSetFilterActive, Slice: model.FilterSlice, Payload: model.FilterToggle{},
		Traits:    Traits{LocalWrite: true},
		Rationale: "sets one filter flag",
	},
	{
		Type: typeResetFilters, Slice: model.FilterSlice,
		Traits:    Traits{LocalWrite: true},
		Rationale: "clears every filter flag",
	},
}

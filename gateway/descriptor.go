package gateway

import (
	"github.com/spetersoncode/storebridge"
	"github.com/spetersoncode/storebridge/model"
)

// Descriptor is an immutable mutation request drawn from the allow-list.
// The zero Descriptor is not dispatchable.
type Descriptor struct {
	typ       storebridge.Type
	payload   any
	category  Category
	rationale string
}

func newDescriptor(t storebridge.Type, payload any) Descriptor {
	e := registry[t]
	return Descriptor{
		typ:       t,
		payload:   payload,
		category:  e.decision.Category,
		rationale: e.mutation.Rationale,
	}
}

// Type returns the discriminator.
func (d Descriptor) Type() storebridge.Type { return d.typ }

// Payload returns the payload; nil for mutations without one.
func (d Descriptor) Payload() any { return d.payload }

// Category returns the classification.
func (d Descriptor) Category() Category { return d.category }

// Rationale returns why the mutation is allowed.
func (d Descriptor) Rationale() string { return d.rationale }

// IsZero reports whether d was not built by a constructor.
func (d Descriptor) IsZero() bool { return d.typ == "" }

// LoadSearch runs a search for q.
func LoadSearch(q model.Query) Descriptor {
	return newDescriptor(typeLoadSearch, q)
}

// ClearSearch resets the search results.
func ClearSearch() Descriptor {
	return newDescriptor(typeClearSearch, nil)
}

// SelectDocument selects the document with the given id. An empty id clears
// the selection.
func SelectDocument(id string) Descriptor {
	return newDescriptor(typeSelectDocument, id)
}

// SetSearchScope sets the scope used by the next search.
func SetSearchScope(scope model.Scope) Descriptor {
	return newDescriptor(typeSetSearchScope, scope)
}

// LoadUserProfile fetches the profile of the signed-in user.
func LoadUserProfile() Descriptor {
	return newDescriptor(typeLoadUserProfile, nil)
}

// SetLanguage sets the display language, e.g. "en" or "de".
func SetLanguage(lang string) Descriptor {
	return newDescriptor(typeSetLanguage, lang)
}

// LoadFilters loads the filter catalog.
func LoadFilters() Descriptor {
	return newDescriptor(typeLoadFilters, nil)
}

// SetFilterActive turns one filter on or off.
func SetFilterActive(id string, active bool) Descriptor {
	return newDescriptor(typeSetFilterActive, model.FilterToggle{ID: id, Active: active})
}

// ResetFilters turns every filter off.
func ResetFilters() Descriptor {
	return newDescriptor(typeResetFilters, nil)
}

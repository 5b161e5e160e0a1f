package model

import "github.com/spetersoncode/storebridge"

// SearchSlice is the key of the search slice.
const SearchSlice = "search"

// Scope restricts which document fields a query matches.
type Scope string

const (
	ScopeEverything Scope = "Everything"
	ScopeTitles     Scope = "Titles"
	ScopeTags       Scope = "Tags"
)

// Valid reports whether s is a known scope.
func (s Scope) Valid() bool {
	switch s {
	case ScopeEverything, ScopeTitles, ScopeTags:
		return true
	default:
		return false
	}
}

// Query is a search request.
type Query struct {
	Q     string `json:"q"`
	Scope Scope  `json:"scope"`
}

// DefaultQuery is the query of an uninitialized search slice.
func DefaultQuery() Query {
	return Query{Scope: ScopeEverything}
}

// Document is one search hit.
type Document struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Snippet string   `json:"snippet,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// SearchResult is the outcome of a completed search.
type SearchResult struct {
	Query     Query      `json:"query"`
	Documents []Document `json:"documents"`
	Total     int        `json:"total"`
}

// SearchState is the search slice.
type SearchState struct {
	Query      Query                     `json:"query"`
	Documents  []Document                `json:"documents"`
	Total      int                       `json:"total"`
	SelectedID string                    `json:"selectedId,omitempty"`
	Status     storebridge.LoadingStatus `json:"status"`
}

// Document returns the document with the given id.
func (s SearchState) Document(id string) (Document, bool) {
	for _, d := range s.Documents {
		if d.ID == id {
			return d, true
		}
	}
	return Document{}, false
}

package hostapp

import "github.com/spetersoncode/storebridge/model"

// DefaultDocuments returns the demo corpus.
func DefaultDocuments() []model.Document {
	return []model.Document{
		{ID: "doc-1", Title: "Angular change detection", Snippet: "Zones, signals and OnPush.", Tags: []string{"angular", "frontend"}},
		{ID: "doc-2", Title: "Module federation in practice", Snippet: "Sharing one store across remotes built with angular.", Tags: []string{"architecture"}},
		{ID: "doc-3", Title: "Effects and reducers", Snippet: "Keeping side effects out of reducers.", Tags: []string{"state", "redux"}},
		{ID: "doc-4", Title: "Go concurrency patterns", Snippet: "Pipelines, fan-out and cancellation.", Tags: []string{"go"}},
		{ID: "doc-5", Title: "SQLite in production", Snippet: "WAL mode and busy timeouts.", Tags: []string{"database"}},
	}
}

// DefaultFilters returns the demo filter catalog.
func DefaultFilters() []model.Filter {
	return []model.Filter{
		{ID: "pdf", Label: "PDF", Group: "format"},
		{ID: "html", Label: "HTML", Group: "format"},
		{ID: "recent", Label: "Last 30 days", Group: "date"},
		{ID: "mine", Label: "Created by me", Group: "owner"},
	}
}

// DefaultProfiles returns the demo profile directory.
func DefaultProfiles() map[string]model.Profile {
	return map[string]model.Profile{
		"user-1": {ID: "user-1", DisplayName: "Ada Lovelace", Email: "ada@example.com"},
		"user-2": {ID: "user-2", DisplayName: "Grace Hopper", Email: "grace@example.com"},
	}
}

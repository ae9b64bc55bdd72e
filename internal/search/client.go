// Package search discovers candidate sources for research sub-questions.
// Two hosted providers (Tavily, Serper) are tried in priority order; a
// deterministic mock generator covers runs without API keys.
package search

import (
	"context"
	"time"
)

// Result is a normalized search hit. Provider-specific key names
// (link vs url, snippet vs content, date vs published_date) are mapped
// here so the rest of the pipeline sees one shape.
type Result struct {
	Title         string
	URL           string
	Snippet       string
	PublishedDate *time.Time
}

// Client is a single search backend
type Client interface {
	// Name returns the backend name for diagnostics
	Name() string

	// Available reports whether the backend is configured
	Available() bool

	// Search returns up to maxResults normalized results for the query
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// date layouts seen across providers
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z",
	"January 2, 2006",
	"Jan 2, 2006",
}

// parseDate parses a provider date string, returning nil when the
// format is unrecognized. An unknown date is not an error; recency
// scoring treats it as the middle value.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	if len(s) > 19 {
		s = s[:19]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

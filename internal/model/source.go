package model

import (
	"net/url"
	"strings"
	"time"
)

// SourceType categorizes where a source comes from, for display and scoring
type SourceType string

const (
	SourceTypeNews     SourceType = "news"
	SourceTypeBlog     SourceType = "blog"
	SourceTypeResearch SourceType = "research"
	SourceTypeOfficial SourceType = "official" // Company docs, official announcements
	SourceTypeSocial   SourceType = "social"
	SourceTypeUnknown  SourceType = "unknown"
)

// Source is a document discovered during search, identified by URL.
// Content and CredibilityScore are each written exactly once by a later
// pipeline stage; everything else is set at discovery time.
type Source struct {
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Snippet     string     `json:"snippet"`
	SubQuestion string     `json:"sub_question"` // Which sub-question surfaced this source
	Domain      string     `json:"domain"`
	SourceType  SourceType `json:"source_type"`

	PublishedDate *time.Time `json:"published_date,omitempty"`

	// Filled by the extraction stage
	Content string `json:"content,omitempty"`

	// Filled by the ranking stage
	CredibilityScore float64 `json:"credibility_score,omitempty"`
}

// NewSource creates a source with the domain derived from the URL
func NewSource(rawURL, title, snippet, subQuestion string) *Source {
	return &Source{
		URL:         rawURL,
		Title:       title,
		Snippet:     snippet,
		SubQuestion: subQuestion,
		Domain:      ExtractDomain(rawURL),
		SourceType:  SourceTypeUnknown,
	}
}

// ExtractDomain returns the host of a URL without any www. prefix.
// Unparseable URLs yield an empty domain; scoring treats that as the floor.
func ExtractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := parsed.Host
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return strings.TrimPrefix(host, "www.")
}

// SearchResults groups the sources found for one sub-question
type SearchResults struct {
	SubQuestion string    `json:"sub_question"`
	Sources     []*Source `json:"sources"`
}

// DiscoveryResults aggregates search results across all sub-questions.
// AllSources is deduplicated by URL in discovery order.
type DiscoveryResults struct {
	ByQuestion []SearchResults `json:"by_question"`
	AllSources []*Source       `json:"all_sources"`
}

// TotalSources returns the number of unique sources discovered
func (d *DiscoveryResults) TotalSources() int {
	return len(d.AllSources)
}

// UniqueDomains returns the set of domains across all sources
func (d *DiscoveryResults) UniqueDomains() map[string]bool {
	domains := make(map[string]bool)
	for _, s := range d.AllSources {
		domains[s.Domain] = true
	}
	return domains
}

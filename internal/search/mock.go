package search

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// mockTemplate describes one synthetic result shape
type mockTemplate struct {
	titleFormat string
	domain      string
	content     string
}

var mockTemplates = []mockTemplate{
	{
		titleFormat: "%s: A Production Perspective",
		domain:      "engineering.example.com",
		content:     "Our team deployed the system in production and learned key lessons about reliability, guardrails, and human oversight requirements.",
	},
	{
		titleFormat: "Understanding %s: Industry Survey",
		domain:      "techblog.example.com",
		content:     "A comprehensive survey of 50 companies reveals common patterns of success and failure in production deployments.",
	},
	{
		titleFormat: "%s: Technical Deep Dive",
		domain:      "research.example.com",
		content:     "Research paper examining failure modes and proposing robust architectures for production use.",
	},
	{
		titleFormat: "Case Study: %s in Practice",
		domain:      "casestudies.example.com",
		content:     "Analysis of real-world implementations including challenges, solutions, and measurable outcomes.",
	},
	{
		titleFormat: "%s: Cost and ROI Analysis",
		domain:      "analyst.example.com",
		content:     "Enterprise adoption shows mixed results. Costs often exceed initial estimates due to monitoring needs.",
	},
}

// MockClient generates deterministic synthetic results when no real
// provider is configured. URLs are unique per query so deduplication
// and ranking behave as with live data.
type MockClient struct {
	queryCounter int
}

// NewMockClient creates a mock search client
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Name returns the backend name
func (c *MockClient) Name() string {
	return "mock"
}

// Available always reports true; the mock is the fallback of last resort
func (c *MockClient) Available() bool {
	return true
}

// Search returns synthetic results with unique, stable URLs per query
func (c *MockClient) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	c.queryCounter++
	topic := mockTopic(query)

	templates := mockTemplates
	if maxResults < len(templates) {
		templates = templates[:maxResults]
	}

	results := make([]Result, 0, len(templates))
	for i, tpl := range templates {
		date := time.Date(time.Now().Year(), time.Month(i+6), i*3+10, 0, 0, 0, 0, time.UTC)
		results = append(results, Result{
			Title:         fmt.Sprintf(tpl.titleFormat, topic),
			URL:           fmt.Sprintf("https://%s/article-q%d-r%d", tpl.domain, c.queryCounter, i),
			Snippet:       fmt.Sprintf("%s [Context: %s]", tpl.content, truncate(query, 50)),
			PublishedDate: &date,
		})
	}
	return results, nil
}

// mockTopic derives a short title-cased topic from the query
func mockTopic(query string) string {
	query = strings.TrimSpace(strings.ReplaceAll(query, "?", ""))
	words := strings.Fields(query)
	if len(words) > 5 {
		words = words[:5]
	}
	if len(words) == 0 {
		return "Emerging Technology"
	}
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

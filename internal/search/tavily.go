package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const tavilyBaseURL = "https://api.tavily.com/search"

// TavilyClient talks to the Tavily search API. Tavily is tuned for
// LLM applications and is the preferred backend.
type TavilyClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type tavilyRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
	IncludeRaw    bool   `json:"include_raw_content"`
	SearchDepth   string `json:"search_depth"`
}

type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

type tavilyResult struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Content       string `json:"content"`
	PublishedDate string `json:"published_date"`
}

// NewTavilyClient creates a Tavily client. An empty API key leaves the
// client unavailable.
func NewTavilyClient(apiKey string) *TavilyClient {
	return &TavilyClient{
		apiKey:     apiKey,
		baseURL:    tavilyBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the backend name
func (c *TavilyClient) Name() string {
	return "tavily"
}

// Available reports whether an API key is configured
func (c *TavilyClient) Available() bool {
	return c.apiKey != "" && c.apiKey != "your_tavily_api_key_here"
}

// Search queries Tavily and normalizes the results
func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if !c.Available() {
		return nil, fmt.Errorf("tavily API key not configured")
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:      c.apiKey,
		Query:       query,
		MaxResults:  maxResults,
		SearchDepth: "basic",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily returned %d", resp.StatusCode)
	}

	var parsed tavilyResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, Result{
			Title:         r.Title,
			URL:           r.URL,
			Snippet:       r.Content,
			PublishedDate: parseDate(r.PublishedDate),
		})
	}
	return results, nil
}

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

const serperBaseURL = "https://google.serper.dev/search"

// SerperClient talks to the Serper API for Google search results
type SerperClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num,omitempty"`
}

type serperResponse struct {
	Organic []serperResult `json:"organic"`
}

type serperResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Date    string `json:"date,omitempty"`
}

// NewSerperClient creates a Serper client. An empty API key leaves the
// client unavailable.
func NewSerperClient(apiKey string) *SerperClient {
	return &SerperClient{
		apiKey:     apiKey,
		baseURL:    serperBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the backend name
func (c *SerperClient) Name() string {
	return "serper"
}

// Available reports whether an API key is configured
func (c *SerperClient) Available() bool {
	return c.apiKey != "" && c.apiKey != "your_serper_api_key_here"
}

// Search queries Serper and normalizes the organic results
func (c *SerperClient) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if !c.Available() {
		return nil, fmt.Errorf("serper API key not configured")
	}

	body, err := json.Marshal(serperRequest{Q: query, Num: maxResults})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper returned %d", resp.StatusCode)
	}

	var parsed serperResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	organic := parsed.Organic
	if len(organic) > maxResults {
		organic = organic[:maxResults]
	}

	results := make([]Result, 0, len(organic))
	for _, r := range organic {
		results = append(results, Result{
			Title:         r.Title,
			URL:           r.Link,
			Snippet:       r.Snippet,
			PublishedDate: parseDate(r.Date),
		})
	}
	return results, nil
}

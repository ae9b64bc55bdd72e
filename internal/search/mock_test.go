package search

import (
	"context"
	"testing"
)

func TestMockClient_UniqueURLsPerQuery(t *testing.T) {
	client := NewMockClient()

	first, err := client.Search(context.Background(), "should we adopt agents?", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := client.Search(context.Background(), "what failures are reported?", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[string]bool)
	for _, r := range append(first, second...) {
		if seen[r.URL] {
			t.Errorf("duplicate mock URL across queries: %s", r.URL)
		}
		seen[r.URL] = true
		if r.URL == "" || r.Title == "" || r.Snippet == "" {
			t.Error("mock result has empty fields")
		}
	}
}

func TestMockClient_RespectsMaxResults(t *testing.T) {
	client := NewMockClient()

	results, err := client.Search(context.Background(), "anything at all", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestMockClient_AlwaysAvailable(t *testing.T) {
	if !NewMockClient().Available() {
		t.Error("mock client must always be available")
	}
}

func TestParseDate(t *testing.T) {
	if d := parseDate("2024-06-10"); d == nil {
		t.Error("expected ISO date to parse")
	}
	if d := parseDate("2024-06-10T12:30:00Z"); d == nil {
		t.Error("expected RFC3339-style date to parse")
	}
	if d := parseDate("June 10, 2024"); d == nil {
		t.Error("expected long-form date to parse")
	}
	if d := parseDate("sometime last week"); d != nil {
		t.Error("expected unknown format to return nil")
	}
	if d := parseDate(""); d != nil {
		t.Error("expected empty string to return nil")
	}
}

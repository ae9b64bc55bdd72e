package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mkarev/decisive/internal/model"
)

func testExtractConfig() model.ExtractConfig {
	return model.ExtractConfig{
		Workers:          3,
		MaxContentLength: 15000,
		PreviewLength:    400,
		MaxClaimSources:  10,
	}
}

func testFetcher(timeout time.Duration) *Fetcher {
	return NewFetcher(model.HTTPConfig{
		Timeout:       timeout,
		UserAgent:     "decisive-test/0.1",
		MaxBodyBytes:  2_000_000,
		RatePerDomain: 100,
	}, model.CacheConfig{})
}

const testPage = `<html>
<head><title>Postgres at Scale</title><script>var x = 1;</script></head>
<body>
<nav>Home | About | Contact</nav>
<header>Site header</header>
<article>
Our team migrated from MySQL to Postgres and observed a 40% reduction in p99 latency.
The migration took three months and required rewriting several stored procedures.
Connection pooling with pgbouncer was essential once we passed 500 concurrent clients.
</article>
<footer>Copyright 2025</footer>
<style>.x { color: red }</style>
</body>
</html>`

func TestExtractAllStripsBoilerplate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testPage))
	}))
	defer server.Close()

	extractor := NewContentExtractor(testFetcher(5*time.Second), testExtractConfig(), nil)
	source := model.NewSource(server.URL, "Postgres at Scale", "snippet", "q")

	summary := extractor.ExtractAll(context.Background(), []*model.Source{source})

	if summary.Successful != 1 {
		t.Fatalf("Successful = %d, want 1; err=%q", summary.Successful, summary.Results[0].Err)
	}
	if summary.Results[0].UsedFallback {
		t.Error("full extraction should not use fallback")
	}
	if !strings.Contains(source.Content, "40% reduction in p99 latency") {
		t.Errorf("article text missing from content: %q", source.Content)
	}
	for _, junk := range []string{"Home | About", "Site header", "Copyright 2025", "var x = 1", "color: red"} {
		if strings.Contains(source.Content, junk) {
			t.Errorf("boilerplate %q survived extraction", junk)
		}
	}
}

func TestExtractAllFallsBackToSnippetOnHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	extractor := NewContentExtractor(testFetcher(5*time.Second), testExtractConfig(), nil)
	source := model.NewSource(server.URL, "Gone Article", "the snippet says enough", "q")

	summary := extractor.ExtractAll(context.Background(), []*model.Source{source})

	r := summary.Results[0]
	if !r.UsedFallback {
		t.Fatal("expected snippet fallback on HTTP 410")
	}
	if !r.Success {
		t.Error("non-empty snippet fallback should count as success")
	}
	if source.Content != "the snippet says enough" {
		t.Errorf("Content = %q, want snippet", source.Content)
	}
	if summary.FallbackCount != 1 {
		t.Errorf("FallbackCount = %d, want 1", summary.FallbackCount)
	}
}

func TestExtractAllFailsWithoutSnippet(t *testing.T) {
	extractor := NewContentExtractor(testFetcher(500*time.Millisecond), testExtractConfig(), nil)
	source := model.NewSource("http://127.0.0.1:1/nope", "Unreachable", "", "q")

	summary := extractor.ExtractAll(context.Background(), []*model.Source{source})

	if summary.Failed != 1 {
		t.Fatalf("Failed = %d, want 1", summary.Failed)
	}
	if summary.Results[0].Err == "" {
		t.Error("expected error message on failed extraction")
	}
	if summary.SuccessRate() != 0.0 {
		t.Errorf("SuccessRate = %v, want 0", summary.SuccessRate())
	}
}

func TestExtractAllShortContentUsesSnippet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>tiny</body></html>"))
	}))
	defer server.Close()

	extractor := NewContentExtractor(testFetcher(5*time.Second), testExtractConfig(), nil)
	source := model.NewSource(server.URL, "Thin Page", "a snippet worth keeping", "q")

	summary := extractor.ExtractAll(context.Background(), []*model.Source{source})

	if !summary.Results[0].UsedFallback {
		t.Error("expected fallback when extracted text is under the minimum")
	}
	if source.Content != "a snippet worth keeping" {
		t.Errorf("Content = %q, want snippet", source.Content)
	}
}

func TestTruncatePrefersSentenceBoundary(t *testing.T) {
	extractor := NewContentExtractor(nil, model.ExtractConfig{MaxContentLength: 100, PreviewLength: 40}, nil)

	sentence := strings.Repeat("x", 90) + ". trailing words beyond the limit here"
	got := extractor.truncate(sentence)
	if !strings.HasSuffix(got, ".") {
		t.Errorf("truncate should end at sentence boundary, got %q", got)
	}
	if len(got) != 91 {
		t.Errorf("len = %d, want 91", len(got))
	}

	noPeriod := strings.Repeat("y", 200)
	got = extractor.truncate(noPeriod)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncate without boundary should add ellipsis, got suffix %q", got[len(got)-5:])
	}
	if len(got) != 103 {
		t.Errorf("len = %d, want 103", len(got))
	}
}

func TestSuccessRate(t *testing.T) {
	s := &ExtractionSummary{Total: 4, Successful: 3, Failed: 1}
	if got := s.SuccessRate(); got != 0.75 {
		t.Errorf("SuccessRate = %v, want 0.75", got)
	}
	empty := &ExtractionSummary{}
	if got := empty.SuccessRate(); got != 0.0 {
		t.Errorf("empty SuccessRate = %v, want 0", got)
	}
}

// Package extract turns discovered sources into usable evidence: it
// fetches page content, strips boilerplate, and pulls typed claims out
// of the text with an LLM.
package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/mkarev/decisive/internal/model"
	"github.com/mkarev/decisive/internal/worker"
)

// minContentLength is the shortest extraction considered usable;
// anything shorter falls back to the search snippet
const minContentLength = 100

// ExtractionResult is the outcome of content extraction for one source
type ExtractionResult struct {
	Source        *model.Source
	Success       bool
	ContentLength int
	Preview       string
	Err           string
	UsedFallback  bool // snippet used instead of full content
}

// ExtractionSummary aggregates extraction results across all sources
type ExtractionSummary struct {
	Results       []ExtractionResult
	Total         int
	Successful    int
	Failed        int
	FallbackCount int
}

// SuccessRate returns the fraction of sources with usable content
func (s *ExtractionSummary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0.0
	}
	return float64(s.Successful) / float64(s.Total)
}

// ContentExtractor fetches pages in parallel and extracts readable text.
// Each fetch is independent and writes only to its own source's content
// field, so the worker pool needs no coordination beyond completion.
type ContentExtractor struct {
	fetcher          *Fetcher
	pool             *worker.Pool
	maxContentLength int
	previewLength    int
	log              *zap.SugaredLogger
}

// NewContentExtractor creates a content extractor
func NewContentExtractor(fetcher *Fetcher, cfg model.ExtractConfig, log *zap.SugaredLogger) *ContentExtractor {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ContentExtractor{
		fetcher:          fetcher,
		pool:             worker.NewPool(cfg.Workers),
		maxContentLength: cfg.MaxContentLength,
		previewLength:    cfg.PreviewLength,
		log:              log,
	}
}

// ExtractAll extracts content from all sources using the bounded pool.
// Results are indexed by source position, so completion order never
// affects the output.
func (e *ContentExtractor) ExtractAll(ctx context.Context, sources []*model.Source) *ExtractionSummary {
	results := make([]ExtractionResult, len(sources))

	tasks := make([]worker.Task, len(sources))
	for i, src := range sources {
		i, src := i, src
		tasks[i] = func(ctx context.Context) {
			results[i] = e.extractSingle(ctx, src)
		}
	}
	e.pool.Run(ctx, tasks)

	summary := &ExtractionSummary{Results: results, Total: len(results)}
	for _, r := range results {
		if r.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
		if r.UsedFallback {
			summary.FallbackCount++
		}
	}
	return summary
}

// extractSingle fetches one page and extracts its main text, falling
// back to the search snippet on any failure
func (e *ContentExtractor) extractSingle(ctx context.Context, source *model.Source) ExtractionResult {
	page, err := e.fetcher.Fetch(ctx, source.URL)
	if err != nil {
		e.log.Debugw("fetch failed, using snippet", "url", source.URL, "error", err)
		return e.fallbackToSnippet(source, err.Error())
	}

	content := extractText(page)
	if len(content) < minContentLength {
		return e.fallbackToSnippet(source, "extraction returned insufficient content")
	}

	content = e.truncate(content)
	source.Content = content

	return ExtractionResult{
		Source:        source,
		Success:       true,
		ContentLength: len(content),
		Preview:       e.makePreview(content),
	}
}

// extractText strips boilerplate elements and returns the page's
// visible text with normalized whitespace
func extractText(page string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return visibleText(page)
	}

	doc.Find("script, style, nav, header, footer, aside, noscript, form, iframe").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		return visibleText(page)
	}
	return strings.Join(strings.Fields(body.Text()), " ")
}

// visibleText is the plain x/net/html fallback when goquery cannot
// build a document
func visibleText(page string) string {
	node, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "header", "footer", "aside", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	return strings.Join(strings.Fields(sb.String()), " ")
}

// truncate limits content length, preferring a sentence boundary
func (e *ContentExtractor) truncate(content string) string {
	if len(content) <= e.maxContentLength {
		return content
	}

	truncated := content[:e.maxContentLength]
	if lastPeriod := strings.LastIndex(truncated, "."); lastPeriod > int(float64(e.maxContentLength)*0.8) {
		return truncated[:lastPeriod+1]
	}
	return truncated + "..."
}

// makePreview returns the first previewLength chars, ended at a word
// boundary where possible
func (e *ContentExtractor) makePreview(content string) string {
	if len(content) <= e.previewLength {
		return content
	}

	preview := content[:e.previewLength]
	if lastSpace := strings.LastIndex(preview, " "); lastSpace > int(float64(e.previewLength)*0.7) {
		preview = preview[:lastSpace]
	}
	return preview + "..."
}

// fallbackToSnippet uses the search snippet as content when fetching or
// extraction fails. A non-empty snippet still counts as success.
func (e *ContentExtractor) fallbackToSnippet(source *model.Source, reason string) ExtractionResult {
	snippet := source.Snippet
	if snippet == "" {
		return ExtractionResult{
			Source:       source,
			Err:          reason,
			UsedFallback: true,
		}
	}

	source.Content = snippet
	preview := snippet
	if len(preview) > e.previewLength {
		preview = preview[:e.previewLength]
	}

	return ExtractionResult{
		Source:        source,
		Success:       true,
		ContentLength: len(snippet),
		Preview:       preview,
		Err:           reason,
		UsedFallback:  true,
	}
}

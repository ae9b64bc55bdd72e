package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mkarev/decisive/internal/model"
)

// Domains trusted for engineering and technology decisions. Matched as
// substrings against domain and full URL.
var reputableDomains = []string{
	// Company engineering blogs
	"engineering.fb.com", "engineering.linkedin.com",
	"netflixtechblog.com", "uber.com/blog", "blog.google",
	"aws.amazon.com", "cloud.google.com", "azure.microsoft.com",
	"openai.com", "anthropic.com", "deepmind.com",
	"stripe.com", "shopify.engineering", "github.blog",
	// Reputable tech media
	"techcrunch.com", "wired.com", "arstechnica.com",
	"theverge.com", "thenewstack.io", "infoq.com",
	// Research & analysis
	"arxiv.org", "acm.org", "ieee.org",
	"hbr.org", "mckinsey.com", "gartner.com",
	// Developer-focused
	"stackoverflow.blog", "martinfowler.com", "danluu.com",
}

// Title substrings that indicate low-signal content. Checked in order,
// first match wins.
var lowQualityTitlePatterns = []string{
	"top 10", "top 5", "top 20",
	"beginner's guide", "beginners guide",
	"ultimate guide", "complete guide",
	"everything you need to know",
	"what is", "introduction to",
	"for dummies", "101",
	"you won't believe",
}

var newsDomains = []string{"nytimes", "bbc", "reuters", "techcrunch", "wired", "theverge", "arstechnica"}

// Searcher is the high-level discovery interface. It tries Tavily,
// then Serper, then falls back to synthetic data; filters low-quality
// results; and deduplicates across sub-questions.
type Searcher struct {
	clients []Client
	config  model.SearchConfig
	log     *zap.SugaredLogger

	active Client
}

// NewSearcher builds the provider chain from configuration
func NewSearcher(cfg model.SearchConfig, log *zap.SugaredLogger) *Searcher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Searcher{
		clients: []Client{
			NewTavilyClient(cfg.TavilyAPIKey),
			NewSerperClient(cfg.SerperAPIKey),
			NewMockClient(),
		},
		config: cfg,
		log:    log,
	}
}

// client returns the first available backend, memoized for the run
func (s *Searcher) client() Client {
	if s.active == nil {
		for _, c := range s.clients {
			if c.Available() {
				s.active = c
				break
			}
		}
		s.log.Debugw("search backend selected", "backend", s.active.Name())
	}
	return s.active
}

// UsingMock reports whether discovery is running on synthetic data
func (s *Searcher) UsingMock() bool {
	return s.client().Name() == "mock"
}

// SearchAll runs discovery for every sub-question, deduplicating by URL
// across questions and capping the total source count.
func (s *Searcher) SearchAll(ctx context.Context, subQuestions []string) (*model.DiscoveryResults, error) {
	seen := make(map[string]bool)
	results := &model.DiscoveryResults{}

	for _, sq := range subQuestions {
		found, err := s.searchSingle(ctx, sq)
		if err != nil {
			s.log.Warnw("search failed for sub-question", "question", sq, "error", err)
			continue
		}

		unique := make([]*model.Source, 0, len(found.Sources))
		for _, src := range found.Sources {
			if seen[src.URL] {
				continue
			}
			seen[src.URL] = true
			unique = append(unique, src)
			results.AllSources = append(results.AllSources, src)
		}
		found.Sources = unique
		results.ByQuestion = append(results.ByQuestion, found)

		if len(results.AllSources) >= s.config.MaxTotalSources {
			break
		}
	}

	if len(results.AllSources) > s.config.MaxTotalSources {
		results.AllSources = results.AllSources[:s.config.MaxTotalSources]
	}

	return results, nil
}

// searchSingle discovers sources for one sub-question, reputable-first
func (s *Searcher) searchSingle(ctx context.Context, subQuestion string) (model.SearchResults, error) {
	raw, err := s.client().Search(ctx, enhanceQuery(subQuestion), s.config.MaxResultsPerQuery)
	if err != nil {
		return model.SearchResults{}, fmt.Errorf("search %q: %w", subQuestion, err)
	}

	var reputable, other []*model.Source
	for _, r := range raw {
		if !s.isValid(r.URL, r.Title) {
			continue
		}

		src := model.NewSource(r.URL, r.Title, r.Snippet, subQuestion)
		src.PublishedDate = r.PublishedDate
		src.SourceType = detectSourceType(src.Domain, src.URL)

		if isReputable(src.URL, src.Domain) {
			reputable = append(reputable, src)
		} else {
			other = append(other, src)
		}
	}

	sources := append(reputable, other...)
	if len(sources) > s.config.MaxPerQuestion {
		sources = sources[:s.config.MaxPerQuestion]
	}

	return model.SearchResults{SubQuestion: subQuestion, Sources: sources}, nil
}

// enhanceQuery appends one recency/practice hint not already present
func enhanceQuery(subQuestion string) string {
	enhancers := []string{"production", "real-world", fmt.Sprint(time.Now().Year())}
	lower := strings.ToLower(subQuestion)
	for _, e := range enhancers {
		if !strings.Contains(lower, strings.ToLower(e)) {
			return subQuestion + " " + e
		}
	}
	return subQuestion
}

// isValid applies the exclude-domain and low-quality title filters
func (s *Searcher) isValid(rawURL, title string) bool {
	if rawURL == "" || title == "" {
		return false
	}

	domain := model.ExtractDomain(rawURL)
	for _, excluded := range s.config.ExcludeDomains {
		if strings.Contains(domain, excluded) {
			return false
		}
	}

	titleLower := strings.ToLower(title)
	for _, pattern := range lowQualityTitlePatterns {
		if strings.Contains(titleLower, pattern) {
			return false
		}
	}

	return true
}

// isReputable checks the trusted-domain list plus engineering-blog URL hints
func isReputable(rawURL, domain string) bool {
	urlLower := strings.ToLower(rawURL)
	domainLower := strings.ToLower(domain)

	for _, reputable := range reputableDomains {
		if strings.Contains(domainLower, reputable) || strings.Contains(urlLower, reputable) {
			return true
		}
	}
	return strings.Contains(urlLower, "engineering") || strings.Contains(urlLower, "techblog")
}

// detectSourceType classifies a source from its domain and URL shape
func detectSourceType(domain, rawURL string) model.SourceType {
	domainLower := strings.ToLower(domain)
	urlLower := strings.ToLower(rawURL)

	for _, nd := range newsDomains {
		if strings.Contains(domainLower, nd) {
			return model.SourceTypeNews
		}
	}
	if strings.Contains(domainLower, "arxiv") || strings.Contains(domainLower, "acm.org") || strings.Contains(domainLower, "ieee") {
		return model.SourceTypeResearch
	}
	if strings.Contains(urlLower, "engineering") || strings.Contains(urlLower, "blog") {
		return model.SourceTypeBlog
	}
	if strings.Contains(domainLower, "docs.") || strings.Contains(urlLower, "documentation") {
		return model.SourceTypeOfficial
	}
	return model.SourceTypeUnknown
}

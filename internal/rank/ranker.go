// Package rank orders sources by decision usefulness. Scoring is
// deterministic: the same sources and claims always produce the same
// ranking, with no LLM involved.
package rank

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mkarev/decisive/internal/model"
)

// Scoring weights. Credibility dominates: a reputable domain matters
// more than being a few months fresher.
const (
	weightRecency     = 0.25
	weightCredibility = 0.35
	weightEvidence    = 0.25
	weightClaims      = 0.15
)

// Recency window in months
const (
	optimalAgeMonths = 6
	maxAgeMonths     = 24
)

// tier1Domains get full credibility. Matched by substring against the
// source domain and URL.
var tier1Domains = []string{
	"engineering.fb.com", "engineering.linkedin.com", "netflixtechblog.com",
	"uber.com", "blog.google", "aws.amazon.com", "cloud.google.com",
	"azure.microsoft.com", "openai.com", "anthropic.com", "deepmind.com",
	"stripe.com", "shopify.engineering", "github.blog", "slack.engineering",
	"arxiv.org", "acm.org", "ieee.org", "nature.com", "science.org",
	"nytimes.com", "wsj.com", "economist.com", "ft.com",
	"gartner.com", "mckinsey.com", "hbr.org", "forrester.com",
}

var tier2Domains = []string{
	"techcrunch.com", "wired.com", "arstechnica.com", "theverge.com",
	"thenewstack.io", "infoq.com", "zdnet.com", "venturebeat.com",
	"stackoverflow.blog", "dev.to", "hackernoon.com", "dzone.com",
	"medium.com",
}

// lowCredibilityPatterns in a title override any domain reputation
var lowCredibilityPatterns = []string{
	"top 10", "top 5", "best of",
	"beginners", "101", "ultimate guide",
	"seo", "marketing", "affiliate",
}

var percentPattern = regexp.MustCompile(`\d+%|\d+\s*percent`)

// SourceScore is the scoring breakdown for a single source
type SourceScore struct {
	Source *model.Source

	RecencyScore     float64
	CredibilityScore float64
	EvidenceScore    float64
	ClaimScore       float64
	TotalScore       float64

	Rank          int // 1-based position after sorting
	Justification string
	Claims        []model.Claim
}

func (s SourceScore) String() string {
	title := s.Source.Title
	if len(title) > 50 {
		title = title[:50]
	}
	return fmt.Sprintf("#%d (%.2f) %s...", s.Rank, s.TotalScore, title)
}

// RankingResult holds the ordered sources and the aggregate
// justification for the top of the list
type RankingResult struct {
	RankedSources []SourceScore
	Justification string
}

// Top returns the n best sources, fewer if less are available
func (r *RankingResult) Top(n int) []SourceScore {
	if n > len(r.RankedSources) {
		n = len(r.RankedSources)
	}
	return r.RankedSources[:n]
}

// TotalSources returns how many sources were ranked
func (r *RankingResult) TotalSources() int {
	return len(r.RankedSources)
}

// Ranker scores and orders sources. The clock is injectable so recency
// scoring is reproducible in tests.
type Ranker struct {
	now func() time.Time
}

// NewRanker creates a ranker using the wall clock
func NewRanker() *Ranker {
	return &Ranker{now: time.Now}
}

// NewRankerAt creates a ranker with a fixed reference time
func NewRankerAt(now time.Time) *Ranker {
	return &Ranker{now: func() time.Time { return now }}
}

// Rank scores every source and returns them sorted by descending total
// score. Ties keep their input order, so ranking is stable. Ranks are
// contiguous and 1-based.
func (r *Ranker) Rank(sources []*model.Source, claimsBySource map[string][]model.Claim) *RankingResult {
	scored := make([]SourceScore, 0, len(sources))
	for _, source := range sources {
		scored = append(scored, r.scoreSource(source, claimsBySource[source.URL]))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].TotalScore > scored[j].TotalScore
	})
	for i := range scored {
		scored[i].Rank = i + 1
	}

	topN := 3
	if topN > len(scored) {
		topN = len(scored)
	}

	return &RankingResult{
		RankedSources: scored,
		Justification: aggregateJustification(scored[:topN]),
	}
}

func (r *Ranker) scoreSource(source *model.Source, claims []model.Claim) SourceScore {
	recency := r.scoreRecency(source)
	credibility := scoreCredibility(source)
	evidence := scoreEvidence(source, claims)
	claimScore := scoreClaims(claims)

	total := recency*weightRecency +
		credibility*weightCredibility +
		evidence*weightEvidence +
		claimScore*weightClaims

	source.CredibilityScore = credibility

	return SourceScore{
		Source:           source,
		RecencyScore:     recency,
		CredibilityScore: credibility,
		EvidenceScore:    evidence,
		ClaimScore:       claimScore,
		TotalScore:       total,
		Justification:    sourceJustification(recency, credibility, evidence, claimScore),
		Claims:           claims,
	}
}

// scoreRecency maps publication age to a score. Undated sources sit in
// the middle rather than being penalized as old.
func (r *Ranker) scoreRecency(source *model.Source) float64 {
	if source.PublishedDate == nil {
		return 0.5
	}

	ageMonths := r.now().Sub(*source.PublishedDate).Hours() / 24 / 30

	switch {
	case ageMonths <= optimalAgeMonths:
		return 1.0
	case ageMonths >= maxAgeMonths:
		return 0.2
	default:
		position := (ageMonths - optimalAgeMonths) / (maxAgeMonths - optimalAgeMonths)
		return 1.0 - position*0.8
	}
}

// scoreCredibility rates the domain. Low-quality title patterns win
// over domain tier: a listicle on a tier-1 domain is still a listicle.
func scoreCredibility(source *model.Source) float64 {
	domain := strings.ToLower(source.Domain)
	urlLower := strings.ToLower(source.URL)
	titleLower := strings.ToLower(source.Title)

	for _, pattern := range lowCredibilityPatterns {
		if strings.Contains(titleLower, pattern) {
			return 0.2
		}
	}

	for _, tier1 := range tier1Domains {
		if strings.Contains(domain, tier1) || strings.Contains(urlLower, tier1) {
			return 1.0
		}
	}
	for _, tier2 := range tier2Domains {
		if strings.Contains(domain, tier2) || strings.Contains(urlLower, tier2) {
			return 0.7
		}
	}

	if strings.Contains(urlLower, "engineering") || strings.Contains(urlLower, "techblog") {
		return 0.8
	}
	if strings.Contains(urlLower, "blog") {
		return 0.5
	}
	return 0.4
}

// scoreEvidence rewards metrics, examples, and reported failures
func scoreEvidence(source *model.Source, claims []model.Claim) float64 {
	score := 0.0

	hasMetric, hasExample, hasFailure := false, false, false
	for _, c := range claims {
		switch c.ClaimType {
		case model.ClaimTypeMetric:
			hasMetric = true
		case model.ClaimTypeExample:
			hasExample = true
		case model.ClaimTypeFailure:
			hasFailure = true
		}
	}
	if hasMetric {
		score += 0.4
	}
	if hasExample {
		score += 0.3
	}
	if hasFailure {
		score += 0.3
	}

	content := strings.ToLower(source.Content)
	if percentPattern.MatchString(content) {
		score += 0.1
	}
	if strings.Contains(content, "case study") || strings.Contains(content, "real-world") {
		score += 0.1
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}

// scoreClaims rates claim quantity and the actionable share
func scoreClaims(claims []model.Claim) float64 {
	if len(claims) == 0 {
		return 0.3
	}

	var countScore float64
	switch {
	case len(claims) >= 5:
		countScore = 1.0
	case len(claims) >= 3:
		countScore = 0.8
	default:
		countScore = 0.5
	}

	actionable := 0
	for _, c := range claims {
		if c.Actionable() {
			actionable++
		}
	}
	actionableRatio := float64(actionable) / float64(len(claims))

	return countScore*0.6 + actionableRatio*0.4
}

// sourceJustification produces the short reason list attached to each
// scored source
func sourceJustification(recency, credibility, evidence, claims float64) string {
	var reasons []string

	if credibility >= 0.8 {
		reasons = append(reasons, "reputable source")
	} else if credibility >= 0.6 {
		reasons = append(reasons, "known outlet")
	}

	if recency >= 0.8 {
		reasons = append(reasons, "recent")
	} else if recency <= 0.3 {
		reasons = append(reasons, "older source")
	}

	if evidence >= 0.7 {
		reasons = append(reasons, "data-rich")
	}
	if claims >= 0.7 {
		reasons = append(reasons, "many insights")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "general coverage")
	}
	return strings.Join(reasons, ", ")
}

// aggregateJustification summarizes why the top sources ranked high
func aggregateJustification(top []SourceScore) string {
	if len(top) == 0 {
		return "No sources to rank."
	}

	lines := []string{"Top sources ranked by:"}
	for _, score := range top {
		lines = append(lines, fmt.Sprintf("  • %s: %s", score.Source.Domain, score.Justification))
	}
	return strings.Join(lines, "\n")
}

// Package pipeline orchestrates a full research run: validation,
// decomposition, discovery, extraction, ranking, gap analysis,
// clarification, and the final recommendation.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mkarev/decisive/internal/analysis"
	"github.com/mkarev/decisive/internal/decide"
	"github.com/mkarev/decisive/internal/extract"
	"github.com/mkarev/decisive/internal/llm"
	"github.com/mkarev/decisive/internal/model"
	"github.com/mkarev/decisive/internal/plan"
	"github.com/mkarev/decisive/internal/rank"
	"github.com/mkarev/decisive/internal/search"
)

// Pipeline wires the research stages together. Stages after
// decomposition degrade rather than abort: a failed search, fetch, or
// analysis call produces a weaker result, not an error.
type Pipeline struct {
	store          *model.SessionStore
	planner        *plan.Planner
	searcher       *search.Searcher
	extractor      *extract.ContentExtractor
	claimExtractor *extract.ClaimExtractor
	ranker         *rank.Ranker
	gapDetector    *analysis.GapDetector
	clarifier      *analysis.Clarifier
	decisionMaker  *decide.DecisionMaker

	config *model.Config
	log    *zap.SugaredLogger
}

// New builds a pipeline from configuration. An LLM provider is
// required: every reasoning stage depends on it.
func New(cfg *model.Config, log *zap.SugaredLogger) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("initialize LLM provider: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("no LLM provider configured")
	}

	fetcher := extract.NewFetcher(cfg.HTTP, cfg.Cache)

	return &Pipeline{
		store:          model.NewSessionStore(),
		planner:        plan.NewPlanner(provider, log),
		searcher:       search.NewSearcher(cfg.Search, log),
		extractor:      extract.NewContentExtractor(fetcher, cfg.Extract, log),
		claimExtractor: extract.NewClaimExtractor(provider, log),
		ranker:         rank.NewRanker(),
		gapDetector:    analysis.NewGapDetector(provider, log),
		clarifier:      analysis.NewClarifier(provider, log),
		decisionMaker:  decide.NewDecisionMaker(provider, log),
		config:         cfg,
		log:            log,
	}, nil
}

// Stats summarizes a completed run
type Stats struct {
	SourcesDiscovered int           `json:"sources_discovered"`
	SourcesAnalyzed   int           `json:"sources_analyzed"`
	ClaimsExtracted   int           `json:"claims_extracted"`
	GapsIdentified    int           `json:"gaps_identified"`
	Duration          time.Duration `json:"duration"`
}

// Result carries every artifact a research run produced
type Result struct {
	Session        *model.Session
	Decomposition  *plan.DecompositionResult
	Discovery      *model.DiscoveryResults
	Extraction     *extract.ExtractionSummary
	Evidence       *model.EvidenceSummary
	Ranking        *rank.RankingResult
	Gaps           *model.GapAnalysis
	Clarification  *model.ClarificationRequest
	Recommendation *model.Recommendation
	Stats          Stats
	UsedMockSearch bool
}

// Sessions exposes the session store for listing past runs
func (p *Pipeline) Sessions() *model.SessionStore {
	return p.store
}

// Run executes the full pipeline for one question. Validation and
// decomposition failures are fatal; everything downstream degrades.
func (p *Pipeline) Run(ctx context.Context, question string) (*Result, error) {
	start := time.Now()

	session, err := p.store.Create(question)
	if err != nil {
		return nil, err
	}
	p.log.Infow("session created", "session_id", session.ID)

	decomposition, err := p.planner.DecomposeFiltered(ctx, session.Question)
	if err != nil {
		return nil, err
	}
	session.SubQuestions = decomposition.SubQuestions
	p.log.Infow("question decomposed", "sub_questions", len(decomposition.SubQuestions))

	discovery, err := p.searcher.SearchAll(ctx, decomposition.SubQuestions)
	if err != nil {
		return nil, fmt.Errorf("discover sources: %w", err)
	}
	session.Sources = discovery.AllSources
	p.log.Infow("sources discovered",
		"sources", discovery.TotalSources(),
		"domains", len(discovery.UniqueDomains()),
		"mock", p.searcher.UsingMock())

	extraction := p.extractor.ExtractAll(ctx, discovery.AllSources)
	withContent := sourcesWithContent(extraction)
	p.log.Infow("content extracted",
		"successful", extraction.Successful,
		"failed", extraction.Failed,
		"fallbacks", extraction.FallbackCount)

	claimed := withContent
	if len(claimed) > p.config.Extract.MaxClaimSources {
		claimed = claimed[:p.config.Extract.MaxClaimSources]
	}
	evidence := p.claimExtractor.ExtractAll(ctx, claimed)
	session.Claims = evidence.AllClaims
	p.log.Infow("claims extracted",
		"claims", evidence.TotalClaims(),
		"actionable_ratio", evidence.ActionableRatio())

	ranking := p.ranker.Rank(claimed, claimsBySource(evidence))

	gaps := p.gapDetector.Analyze(ctx, session.Question, evidence)
	for _, u := range gaps.Unknowns {
		session.Gaps = append(session.Gaps, u.Description)
	}
	p.log.Infow("gaps identified",
		"unknowns", len(gaps.Unknowns),
		"conflicts", len(gaps.Conflicts),
		"assumptions", len(gaps.Assumptions))

	clarification := p.clarifier.GenerateQuestions(ctx, session.Question, gaps)
	for _, q := range clarification.Questions {
		session.Clarifications = append(session.Clarifications, q.Question)
	}

	recommendation := p.decisionMaker.MakeRecommendation(ctx, session.Question, evidence, gaps, ranking)
	session.Recommendation = recommendation.Decision
	p.log.Infow("recommendation ready", "confidence", recommendation.Confidence)

	return &Result{
		Session:        session,
		Decomposition:  decomposition,
		Discovery:      discovery,
		Extraction:     extraction,
		Evidence:       evidence,
		Ranking:        ranking,
		Gaps:           gaps,
		Clarification:  clarification,
		Recommendation: recommendation,
		Stats: Stats{
			SourcesDiscovered: discovery.TotalSources(),
			SourcesAnalyzed:   len(withContent),
			ClaimsExtracted:   evidence.TotalClaims(),
			GapsIdentified:    gaps.TotalGaps(),
			Duration:          time.Since(start),
		},
		UsedMockSearch: p.searcher.UsingMock(),
	}, nil
}

// sourcesWithContent keeps sources whose extraction yielded enough
// text to be worth claim extraction
func sourcesWithContent(extraction *extract.ExtractionSummary) []*model.Source {
	var out []*model.Source
	for _, r := range extraction.Results {
		if r.Success && r.ContentLength > 100 {
			out = append(out, r.Source)
		}
	}
	return out
}

// claimsBySource indexes extracted claims by source URL for the ranker
func claimsBySource(evidence *model.EvidenceSummary) map[string][]model.Claim {
	byURL := make(map[string][]model.Claim, len(evidence.ClaimsBySource))
	for _, sc := range evidence.ClaimsBySource {
		byURL[sc.SourceURL] = sc.Claims
	}
	return byURL
}

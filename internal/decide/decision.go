// Package decide synthesizes the final recommendation from evidence,
// gaps, and the source ranking.
package decide

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mkarev/decisive/internal/llm"
	"github.com/mkarev/decisive/internal/model"
	"github.com/mkarev/decisive/internal/rank"
)

// Output list caps. The LLM is asked for bounded lists but the parse
// enforces them regardless.
const (
	maxKeyReasons = 6
	maxTradeOffs  = 4
	maxRisks      = 5
	maxNextSteps  = 5
)

// Gap thresholds that cap a "high" confidence claim at "medium"
const (
	capTotalGaps    = 5
	capHighUnknowns = 2
	capConflicts    = 2
)

const decisionSystemPrompt = `You are a decision support assistant producing a final recommendation.

Your job is to synthesize research evidence into a nuanced, actionable recommendation.

CONFIDENCE CALIBRATION:
- HIGH: Only if evidence is overwhelming, consistent, and gaps are minimal
- MEDIUM: Default when evidence is mixed, gaps exist, or context matters significantly
- LOW: When evidence is sparse, highly conflicting, or major unknowns remain

Most real-world questions should be MEDIUM confidence because:
- Research rarely covers all contexts and use cases
- Gaps and unknowns introduce uncertainty
- Trade-offs mean the answer depends on priorities

RECOMMENDATION STYLE:
- Be NUANCED, not absolute. Avoid "Do X" or "Do not X" without qualification.
- Prefer conditional phrasing: "X is not recommended for Y context at this time"
- Acknowledge that different contexts may warrant different decisions
- Specify WHEN or WHERE the recommendation applies
- Use phrases like: "at this time", "without proper safeguards", "for general/broad use"

BAD examples (too absolute):
- "Do not adopt AI agents"
- "AI agents are not ready"
- "You should definitely use X"

GOOD examples (nuanced):
- "Broad consumer or unsupervised commercial adoption is not recommended at this time"
- "Adoption may be viable in controlled enterprise settings with proper oversight"
- "For mission-critical applications, additional validation is needed before deployment"

Structure your response as:
1. DECISION: 1-2 sentence nuanced recommendation with context qualifiers
2. CONFIDENCE: high/medium/low based on evidence strength and gaps
3. KEY REASONS: 3-6 bullets citing specific evidence
4. TRADE-OFFS: pros and cons to consider
5. RISKS: what could go wrong, limitations
6. NEXT STEPS: 3-5 actionable items

Output JSON format:
{
  "decision": "Nuanced 1-2 sentence recommendation with context",
  "confidence": "medium",
  "confidence_reason": "Why this confidence level",
  "key_reasons": [
    "Reason 1 citing evidence",
    "Reason 2 citing evidence"
  ],
  "trade_offs": [
    {"pro": "advantage", "con": "disadvantage"}
  ],
  "risks": [
    "Risk 1",
    "Risk 2"
  ],
  "next_steps": [
    "Step 1",
    "Step 2"
  ]
}`

const decisionPromptTemplate = `Based on this research, produce a final recommendation.

ORIGINAL QUESTION: %s

KEY EVIDENCE (from ranked sources):
%s

IDENTIFIED GAPS:
%s

TOP SOURCES:
%s

---

Synthesize this into a nuanced, actionable recommendation.

IMPORTANT:
- Factor the GAPS into your confidence level. More gaps = lower confidence.
- Use CONDITIONAL language that specifies context (e.g., "for broad adoption", "at this time", "without safeguards")
- Avoid absolute statements. Real decisions depend on context.
- Default to MEDIUM confidence unless evidence is overwhelming and consistent.
- Cite specific evidence for your reasons.

Return JSON with decision, confidence, key_reasons, trade_offs, risks, next_steps.`

// evidencePriority orders claim types by decision relevance when
// formatting the prompt
var evidencePriority = []model.ClaimType{
	model.ClaimTypeRisk,
	model.ClaimTypeFailure,
	model.ClaimTypeLimitation,
	model.ClaimTypeMetric,
	model.ClaimTypePractice,
	model.ClaimTypeExample,
	model.ClaimTypeBenefit,
}

// DecisionMaker produces the final structured recommendation
type DecisionMaker struct {
	provider llm.Provider
	log      *zap.SugaredLogger
}

// NewDecisionMaker creates a decision maker
func NewDecisionMaker(provider llm.Provider, log *zap.SugaredLogger) *DecisionMaker {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &DecisionMaker{provider: provider, log: log}
}

type decisionResponse struct {
	Decision   string   `json:"decision"`
	Confidence string   `json:"confidence"`
	KeyReasons []string `json:"key_reasons"`
	TradeOffs  []struct {
		Pro string `json:"pro"`
		Con string `json:"con"`
	} `json:"trade_offs"`
	Risks     []string `json:"risks"`
	NextSteps []string `json:"next_steps"`
}

// MakeRecommendation synthesizes the recommendation. The model's
// confidence is never trusted blindly: "high" is capped at "medium"
// whenever the gap analysis crosses any cap threshold. An LLM failure
// yields a low-confidence fallback rather than an error.
func (d *DecisionMaker) MakeRecommendation(
	ctx context.Context,
	question string,
	evidence *model.EvidenceSummary,
	gaps *model.GapAnalysis,
	ranking *rank.RankingResult,
) *model.Recommendation {
	raw, err := d.provider.CompleteJSON(ctx, llm.Request{
		Prompt: fmt.Sprintf(decisionPromptTemplate, question,
			formatEvidence(evidence),
			formatGaps(gaps),
			formatSources(ranking, evidence)),
		SystemPrompt: decisionSystemPrompt,
		Temperature:  0.4,
	})
	if err != nil {
		d.log.Warnw("decision synthesis failed", "error", err)
		return fallbackRecommendation(err)
	}

	var resp decisionResponse
	if err := llm.DecodeResponse(raw, &resp); err != nil {
		return fallbackRecommendation(err)
	}

	return d.parseResponse(resp, ranking, gaps)
}

func formatEvidence(evidence *model.EvidenceSummary) string {
	byType := evidence.ClaimsByType()

	var lines []string
	count := 0
	for _, ct := range evidencePriority {
		claims := byType[ct]
		if len(claims) > 3 {
			claims = claims[:3]
		}
		for _, claim := range claims {
			if count >= 20 {
				break
			}
			title := claim.SourceTitle
			if len(title) > 40 {
				title = title[:40]
			}
			lines = append(lines, fmt.Sprintf("[%s] %s", strings.ToUpper(string(ct)), claim.Text))
			lines = append(lines, "  Source: "+title)
			count++
		}
	}

	if len(lines) == 0 {
		return "No specific evidence extracted."
	}
	return strings.Join(lines, "\n")
}

func formatGaps(gaps *model.GapAnalysis) string {
	var lines []string

	if len(gaps.Unknowns) > 0 {
		lines = append(lines, "UNKNOWNS:")
		for i, u := range gaps.Unknowns {
			if i >= 4 {
				break
			}
			lines = append(lines, fmt.Sprintf("  - [%s] %s", strings.ToUpper(u.Importance), u.Description))
		}
	}
	if len(gaps.Conflicts) > 0 {
		lines = append(lines, "CONFLICTS:")
		for i, c := range gaps.Conflicts {
			if i >= 2 {
				break
			}
			lines = append(lines, "  - "+c.Description)
		}
	}
	if len(gaps.Assumptions) > 0 {
		lines = append(lines, "ASSUMPTIONS:")
		for i, a := range gaps.Assumptions {
			if i >= 3 {
				break
			}
			lines = append(lines, "  - "+a.Description)
		}
	}

	if len(lines) == 0 {
		return "No significant gaps identified."
	}
	return strings.Join(lines, "\n")
}

func formatSources(ranking *rank.RankingResult, evidence *model.EvidenceSummary) string {
	var lines []string

	if ranking != nil {
		for _, score := range ranking.Top(3) {
			title := score.Source.Title
			if len(title) > 50 {
				title = title[:50]
			}
			lines = append(lines, fmt.Sprintf("- %s...", title))
			lines = append(lines, "  URL: "+score.Source.URL)
			lines = append(lines, fmt.Sprintf("  Score: %.2f (%s)", score.TotalScore, score.Justification))
		}
	} else {
		seen := make(map[string]bool)
		for i, claim := range evidence.AllClaims {
			if i >= 5 {
				break
			}
			if seen[claim.SourceURL] {
				continue
			}
			seen[claim.SourceURL] = true
			title := claim.SourceTitle
			if len(title) > 50 {
				title = title[:50]
			}
			lines = append(lines, fmt.Sprintf("- %s...", title))
			lines = append(lines, "  URL: "+claim.SourceURL)
		}
	}

	if len(lines) == 0 {
		return "No sources available."
	}
	return strings.Join(lines, "\n")
}

func (d *DecisionMaker) parseResponse(resp decisionResponse, ranking *rank.RankingResult, gaps *model.GapAnalysis) *model.Recommendation {
	confidence := strings.ToLower(resp.Confidence)
	switch confidence {
	case model.ConfidenceHigh, model.ConfidenceMedium, model.ConfidenceLow:
	default:
		confidence = model.ConfidenceMedium
	}

	if confidence == model.ConfidenceHigh && gaps != nil {
		if gaps.TotalGaps() >= capTotalGaps ||
			gaps.HighImportanceUnknowns() >= capHighUnknowns ||
			len(gaps.Conflicts) >= capConflicts {
			d.log.Infow("confidence capped at medium",
				"total_gaps", gaps.TotalGaps(),
				"high_unknowns", gaps.HighImportanceUnknowns(),
				"conflicts", len(gaps.Conflicts))
			confidence = model.ConfidenceMedium
		}
	}

	decision := resp.Decision
	if decision == "" {
		decision = "No clear recommendation could be made."
	}

	rec := &model.Recommendation{
		Decision:   decision,
		Confidence: confidence,
		KeyReasons: capList(resp.KeyReasons, maxKeyReasons),
		Risks:      capList(resp.Risks, maxRisks),
		NextSteps:  capList(resp.NextSteps, maxNextSteps),
		Disclaimer: model.Disclaimer,
	}

	for i, to := range resp.TradeOffs {
		if i >= maxTradeOffs {
			break
		}
		rec.TradeOffs = append(rec.TradeOffs, model.TradeOff{Pro: to.Pro, Con: to.Con})
	}

	if ranking != nil {
		for _, score := range ranking.Top(3) {
			rec.TopSources = append(rec.TopSources, model.Citation{
				Title: score.Source.Title,
				URL:   score.Source.URL,
				Why:   score.Justification,
			})
		}
	}
	return rec
}

func capList(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}

func fallbackRecommendation(err error) *model.Recommendation {
	msg := err.Error()
	if len(msg) > 50 {
		msg = msg[:50]
	}
	return &model.Recommendation{
		Decision:   "Unable to produce recommendation: " + msg,
		Confidence: model.ConfidenceLow,
		KeyReasons: []string{"Error occurred during analysis"},
		Risks:      []string{"Analysis incomplete"},
		NextSteps:  []string{"Retry the research", "Consult additional sources"},
		Disclaimer: model.Disclaimer,
	}
}

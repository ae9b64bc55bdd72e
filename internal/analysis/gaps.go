// Package analysis finds the weaknesses in collected evidence: gaps,
// conflicts, assumptions, and the clarifying questions they raise.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mkarev/decisive/internal/llm"
	"github.com/mkarev/decisive/internal/model"
)

// maxClaimsForAnalysis limits how many claims go to the gap prompt
const maxClaimsForAnalysis = 30

const gapSystemPrompt = `You are a critical analysis assistant. Your job is to identify gaps, conflicts, and assumptions in research evidence.

You help decision-makers understand:
1. What we DON'T know (unknowns/gaps)
2. Where sources DISAGREE (conflicts)
3. What is being ASSUMED without evidence (assumptions)

Rules:
- Be specific and actionable
- Every decision has uncertainty - always find at least 3 unknowns
- Look for implicit assumptions that could change the decision
- Identify when sources contradict each other
- Focus on gaps that would affect a real decision

For UNKNOWNS, consider:
- Missing long-term data
- Lack of cost/ROI information
- Unclear failure rates or reliability metrics
- Missing information about edge cases
- Gaps in specific industry/context applicability

For CONFLICTS, look for:
- Sources claiming opposite outcomes
- Disagreement on best practices
- Contradictory statistics or metrics

For ASSUMPTIONS, identify:
- Implicit context (e.g., "assumes enterprise scale")
- Hidden prerequisites (e.g., "assumes skilled team")
- Unstated conditions for success

Output JSON format:
{
  "unknowns": [
    {"description": "...", "importance": "high|medium|low"}
  ],
  "conflicts": [
    {"description": "...", "claim_a": "...", "claim_b": "...", "source_a": "...", "source_b": "..."}
  ],
  "assumptions": [
    {"description": "...", "risk": "what could go wrong if false"}
  ]
}`

const gapPromptTemplate = `Analyze this research evidence for gaps, conflicts, and assumptions.

ORIGINAL QUESTION: %s

CLAIMS EXTRACTED FROM SOURCES:
%s

---

Identify:
1. UNKNOWNS: What important information is MISSING? What questions remain unanswered? (at least 3)
2. CONFLICTS: Do any sources DISAGREE with each other? (identify if present)
3. ASSUMPTIONS: What is being ASSUMED without explicit evidence? (at least 2)

Think like a skeptical engineer reviewing this for a design doc.

Return JSON with unknowns, conflicts, and assumptions.`

// GapDetector finds unknowns, conflicts, and assumptions in the
// collected claims
type GapDetector struct {
	provider llm.Provider
	log      *zap.SugaredLogger
}

// NewGapDetector creates a gap detector
func NewGapDetector(provider llm.Provider, log *zap.SugaredLogger) *GapDetector {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &GapDetector{provider: provider, log: log}
}

type gapResponse struct {
	Unknowns []struct {
		Description string `json:"description"`
		Importance  string `json:"importance"`
	} `json:"unknowns"`
	Conflicts []struct {
		Description string `json:"description"`
		ClaimA      string `json:"claim_a"`
		ClaimB      string `json:"claim_b"`
		SourceA     string `json:"source_a"`
		SourceB     string `json:"source_b"`
	} `json:"conflicts"`
	Assumptions []struct {
		Description string `json:"description"`
		Risk        string `json:"risk"`
	} `json:"assumptions"`
}

// Analyze finds gaps in the evidence. An LLM failure degrades to a
// single high-importance unknown instead of aborting the run; no
// evidence at all returns a fixed set of unknowns.
func (g *GapDetector) Analyze(ctx context.Context, question string, evidence *model.EvidenceSummary) *model.GapAnalysis {
	claimsText := formatClaims(evidence)
	if claimsText == "" {
		return emptyEvidenceResult(question)
	}

	raw, err := g.provider.CompleteJSON(ctx, llm.Request{
		Prompt:       fmt.Sprintf(gapPromptTemplate, question, claimsText),
		SystemPrompt: gapSystemPrompt,
		Temperature:  0.4,
	})
	if err != nil {
		g.log.Warnw("gap analysis failed", "error", err)
		return failedResult(question, err)
	}

	var resp gapResponse
	if err := llm.DecodeResponse(raw, &resp); err != nil {
		return failedResult(question, err)
	}

	return parseGaps(question, resp)
}

func formatClaims(evidence *model.EvidenceSummary) string {
	var lines []string
	for i, claim := range evidence.AllClaims {
		if i >= maxClaimsForAnalysis {
			break
		}
		title := claim.SourceTitle
		if len(title) > 30 {
			title = title[:30] + "..."
		}
		lines = append(lines, fmt.Sprintf("%d. [%s] %s", i+1, strings.ToUpper(string(claim.ClaimType)), claim.Text))
		lines = append(lines, fmt.Sprintf("   Source: %s", title), "")
	}
	return strings.Join(lines, "\n")
}

func parseGaps(question string, resp gapResponse) *model.GapAnalysis {
	result := &model.GapAnalysis{Question: question}

	for _, item := range resp.Unknowns {
		if item.Description == "" {
			continue
		}
		importance := item.Importance
		if importance == "" {
			importance = model.ImportanceMedium
		}
		result.Unknowns = append(result.Unknowns, model.Unknown{
			Description: item.Description,
			Importance:  importance,
		})
	}
	for _, item := range resp.Conflicts {
		if item.Description == "" {
			continue
		}
		result.Conflicts = append(result.Conflicts, model.Conflict{
			Description: item.Description,
			ClaimA:      item.ClaimA,
			ClaimB:      item.ClaimB,
			SourceA:     item.SourceA,
			SourceB:     item.SourceB,
		})
	}
	for _, item := range resp.Assumptions {
		if item.Description == "" {
			continue
		}
		risk := item.Risk
		if risk == "" {
			risk = "Unknown risk"
		}
		result.Assumptions = append(result.Assumptions, model.Assumption{
			Description: item.Description,
			Risk:        risk,
		})
	}
	return result
}

func failedResult(question string, err error) *model.GapAnalysis {
	msg := err.Error()
	if len(msg) > 50 {
		msg = msg[:50]
	}
	return &model.GapAnalysis{
		Question: question,
		Unknowns: []model.Unknown{
			{Description: "Analysis failed: " + msg, Importance: model.ImportanceHigh},
		},
	}
}

func emptyEvidenceResult(question string) *model.GapAnalysis {
	return &model.GapAnalysis{
		Question: question,
		Unknowns: []model.Unknown{
			{Description: "Insufficient evidence gathered to analyze", Importance: model.ImportanceHigh},
			{Description: "No sources could be processed for claims", Importance: model.ImportanceHigh},
			{Description: "Research may need to be repeated with different sources", Importance: model.ImportanceMedium},
		},
	}
}

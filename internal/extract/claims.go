package extract

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mkarev/decisive/internal/llm"
	"github.com/mkarev/decisive/internal/model"
)

const (
	maxClaimsPerSource = 7
	minClaimLength     = 20
	maxContentForLLM   = 8000
)

const claimSystemPrompt = `You are an evidence extraction assistant. Your job is to extract specific, atomic claims from article content.

Rules:
1. Extract 3-7 claims per article
2. Each claim must be a specific, concrete assertion
3. Claims must be attributable to the source (things the article actually states)
4. Categorize each claim as one of: benefit, risk, limitation, example, metric, practice, failure

AVOID extracting:
- Generic statements like "AI is transforming industries"
- Vague claims like "companies are adopting AI"
- Marketing fluff or hype
- Opinions without evidence

PREFER extracting:
- Specific failures or problems reported
- Quantitative data or metrics
- Concrete examples or case studies
- Specific risks or limitations mentioned
- Best practices or recommendations with reasoning

At least 1 claim should be about risks, limitations, or failures.

Output format: JSON with key "claims" containing array of objects:
{
  "claims": [
    {"text": "claim text here", "type": "risk|benefit|limitation|example|metric|practice|failure"}
  ]
}`

const claimPromptTemplate = `Extract 3-7 specific, evidence-based claims from this article content.

ARTICLE TITLE: %s
ARTICLE URL: %s

CONTENT:
%s

---

Extract claims that would help someone DECIDE whether to adopt or trust this topic.
Focus on: specific evidence, reported problems, quantitative data, concrete examples.
Avoid: generic statements, marketing language, vague assertions.

Return JSON: {"claims": [{"text": "...", "type": "risk|benefit|limitation|example|metric|practice|failure"}]}`

// genericPatterns flag claims that assert nothing decision-relevant
var genericPatterns = []string{
	"is transforming",
	"is revolutionizing",
	"is changing the world",
	"has the potential",
	"is becoming increasingly",
	"is gaining traction",
	"is on the rise",
	"is here to stay",
	"is the future",
	"companies are adopting",
	"organizations are using",
	"the industry is moving",
}

// ClaimExtractor pulls atomic, typed claims out of source content
type ClaimExtractor struct {
	provider llm.Provider
	log      *zap.SugaredLogger
}

// NewClaimExtractor creates a claim extractor backed by the given provider
func NewClaimExtractor(provider llm.Provider, log *zap.SugaredLogger) *ClaimExtractor {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ClaimExtractor{provider: provider, log: log}
}

// claimResponse matches the JSON the model is asked for
type claimResponse struct {
	Claims []struct {
		Text string `json:"text"`
		Type string `json:"type"`
	} `json:"claims"`
}

// ExtractFromSource extracts claims from a single source. A failed LLM
// call yields an empty claim list with the error recorded, never an
// error return: one bad source must not stop the rest.
func (e *ClaimExtractor) ExtractFromSource(ctx context.Context, source *model.Source) model.SourceClaims {
	sc := model.SourceClaims{
		SourceURL:   source.URL,
		SourceTitle: source.Title,
	}

	content := source.Content
	if len(content) < minContentLength {
		sc.ExtractionError = "insufficient content"
		return sc
	}
	if len(content) > maxContentForLLM {
		content = content[:maxContentForLLM] + "..."
	}

	raw, err := e.provider.CompleteJSON(ctx, llm.Request{
		Prompt:       fmt.Sprintf(claimPromptTemplate, source.Title, source.URL, content),
		SystemPrompt: claimSystemPrompt,
		Temperature:  0.3,
	})
	if err != nil {
		e.log.Debugw("claim extraction failed", "url", source.URL, "error", err)
		sc.ExtractionError = truncateError(err)
		return sc
	}

	var resp claimResponse
	if err := llm.DecodeResponse(raw, &resp); err != nil {
		sc.ExtractionError = truncateError(err)
		return sc
	}

	sc.Claims = e.parseClaims(resp, source)
	return sc
}

// parseClaims converts raw model output into validated, filtered claims
func (e *ClaimExtractor) parseClaims(resp claimResponse, source *model.Source) []model.Claim {
	var claims []model.Claim
	for _, raw := range resp.Claims {
		text := strings.TrimSpace(raw.Text)
		if len(text) < minClaimLength {
			continue
		}
		if isGeneric(text) {
			continue
		}
		claims = append(claims, model.Claim{
			Text:        text,
			SourceURL:   source.URL,
			SourceTitle: source.Title,
			ClaimType:   model.ParseClaimType(raw.Type),
		})
		if len(claims) >= maxClaimsPerSource {
			break
		}
	}
	return claims
}

func isGeneric(text string) bool {
	lower := strings.ToLower(text)
	for _, pattern := range genericPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

func truncateError(err error) string {
	msg := err.Error()
	if len(msg) > 100 {
		msg = msg[:100]
	}
	return msg
}

// ExtractAll extracts claims from every source that has content and
// builds the combined evidence summary
func (e *ClaimExtractor) ExtractAll(ctx context.Context, sources []*model.Source) *model.EvidenceSummary {
	summary := &model.EvidenceSummary{}

	for _, source := range sources {
		if source.Content == "" {
			continue
		}
		sc := e.ExtractFromSource(ctx, source)
		summary.ClaimsBySource = append(summary.ClaimsBySource, sc)
		summary.AllClaims = append(summary.AllClaims, sc.Claims...)
	}
	return summary
}

package decide

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mkarev/decisive/internal/llm"
	"github.com/mkarev/decisive/internal/model"
	"github.com/mkarev/decisive/internal/rank"
)

type stubProvider struct {
	response string
	err      error
	lastReq  llm.Request
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(ctx context.Context, req llm.Request) (string, error) {
	s.lastReq = req
	return s.response, s.err
}

func (s *stubProvider) CompleteJSON(ctx context.Context, req llm.Request) (json.RawMessage, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.response), nil
}

const fullResponse = `{
	"decision": "Adoption may be viable in controlled settings with oversight.",
	"confidence": "high",
	"key_reasons": ["r1", "r2", "r3", "r4", "r5", "r6", "r7"],
	"trade_offs": [
		{"pro": "p1", "con": "c1"}, {"pro": "p2", "con": "c2"},
		{"pro": "p3", "con": "c3"}, {"pro": "p4", "con": "c4"}, {"pro": "p5", "con": "c5"}
	],
	"risks": ["k1", "k2", "k3", "k4", "k5", "k6"],
	"next_steps": ["s1", "s2", "s3", "s4", "s5", "s6"]
}`

func someEvidence() *model.EvidenceSummary {
	return &model.EvidenceSummary{AllClaims: []model.Claim{
		{Text: "Latency regressed 20% under load", ClaimType: model.ClaimTypeRisk, SourceTitle: "T", SourceURL: "https://a.com/1"},
	}}
}

func gapsWith(unknownsHigh, unknownsMedium, conflicts, assumptions int) *model.GapAnalysis {
	g := &model.GapAnalysis{Question: "q"}
	for i := 0; i < unknownsHigh; i++ {
		g.Unknowns = append(g.Unknowns, model.Unknown{Description: "u", Importance: model.ImportanceHigh})
	}
	for i := 0; i < unknownsMedium; i++ {
		g.Unknowns = append(g.Unknowns, model.Unknown{Description: "u", Importance: model.ImportanceMedium})
	}
	for i := 0; i < conflicts; i++ {
		g.Conflicts = append(g.Conflicts, model.Conflict{Description: "c"})
	}
	for i := 0; i < assumptions; i++ {
		g.Assumptions = append(g.Assumptions, model.Assumption{Description: "a", Risk: "r"})
	}
	return g
}

func TestMakeRecommendationCapsListsAndKeepsHighConfidence(t *testing.T) {
	stub := &stubProvider{response: fullResponse}
	d := NewDecisionMaker(stub, nil)

	// One medium unknown: no cap condition fires
	rec := d.MakeRecommendation(context.Background(), "q", someEvidence(), gapsWith(0, 1, 0, 0), nil)

	if rec.Confidence != model.ConfidenceHigh {
		t.Errorf("Confidence = %q, want high with a single minor gap", rec.Confidence)
	}
	if len(rec.KeyReasons) != maxKeyReasons {
		t.Errorf("KeyReasons = %d, want %d", len(rec.KeyReasons), maxKeyReasons)
	}
	if len(rec.TradeOffs) != maxTradeOffs {
		t.Errorf("TradeOffs = %d, want %d", len(rec.TradeOffs), maxTradeOffs)
	}
	if len(rec.Risks) != maxRisks {
		t.Errorf("Risks = %d, want %d", len(rec.Risks), maxRisks)
	}
	if len(rec.NextSteps) != maxNextSteps {
		t.Errorf("NextSteps = %d, want %d", len(rec.NextSteps), maxNextSteps)
	}
	if rec.Disclaimer != model.Disclaimer {
		t.Error("disclaimer must always be attached")
	}
	if stub.lastReq.Temperature != 0.4 {
		t.Errorf("Temperature = %v, want 0.4", stub.lastReq.Temperature)
	}
}

func TestConfidenceCapping(t *testing.T) {
	tests := []struct {
		name string
		gaps *model.GapAnalysis
		want string
	}{
		{"five total gaps", gapsWith(0, 2, 1, 2), model.ConfidenceMedium},
		{"two high unknowns", gapsWith(2, 0, 0, 0), model.ConfidenceMedium},
		{"two conflicts", gapsWith(0, 0, 2, 0), model.ConfidenceMedium},
		{"one gap only", gapsWith(1, 0, 0, 0), model.ConfidenceHigh},
		{"four gaps one conflict", gapsWith(1, 2, 1, 0), model.ConfidenceHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecisionMaker(&stubProvider{response: fullResponse}, nil)
			rec := d.MakeRecommendation(context.Background(), "q", someEvidence(), tt.gaps, nil)
			if rec.Confidence != tt.want {
				t.Errorf("Confidence = %q, want %q", rec.Confidence, tt.want)
			}
		})
	}
}

func TestLowAndMediumConfidenceNeverRaised(t *testing.T) {
	resp := strings.Replace(fullResponse, `"confidence": "high"`, `"confidence": "low"`, 1)
	d := NewDecisionMaker(&stubProvider{response: resp}, nil)

	rec := d.MakeRecommendation(context.Background(), "q", someEvidence(), gapsWith(0, 0, 0, 0), nil)
	if rec.Confidence != model.ConfidenceLow {
		t.Errorf("Confidence = %q, want low untouched", rec.Confidence)
	}
}

func TestUnknownConfidenceDefaultsToMedium(t *testing.T) {
	resp := strings.Replace(fullResponse, `"confidence": "high"`, `"confidence": "certain"`, 1)
	d := NewDecisionMaker(&stubProvider{response: resp}, nil)

	rec := d.MakeRecommendation(context.Background(), "q", someEvidence(), gapsWith(0, 0, 0, 0), nil)
	if rec.Confidence != model.ConfidenceMedium {
		t.Errorf("Confidence = %q, want medium", rec.Confidence)
	}
}

func TestTopSourcesComeFromRanking(t *testing.T) {
	src := model.NewSource("https://netflixtechblog.com/a", "Chaos Engineering Lessons", "s", "q")
	ranking := rank.NewRanker().Rank([]*model.Source{src}, nil)

	d := NewDecisionMaker(&stubProvider{response: fullResponse}, nil)
	rec := d.MakeRecommendation(context.Background(), "q", someEvidence(), gapsWith(0, 0, 0, 0), ranking)

	if len(rec.TopSources) != 1 {
		t.Fatalf("TopSources = %d, want 1", len(rec.TopSources))
	}
	cite := rec.TopSources[0]
	if cite.URL != "https://netflixtechblog.com/a" || cite.Title != "Chaos Engineering Lessons" {
		t.Errorf("citation = %+v", cite)
	}
	if cite.Why == "" {
		t.Error("citation should carry the ranking justification")
	}
}

func TestFallbackOnProviderError(t *testing.T) {
	d := NewDecisionMaker(&stubProvider{err: errors.New("model overloaded")}, nil)

	rec := d.MakeRecommendation(context.Background(), "q", someEvidence(), gapsWith(1, 0, 0, 0), nil)

	if rec.Confidence != model.ConfidenceLow {
		t.Errorf("Confidence = %q, want low", rec.Confidence)
	}
	if !strings.HasPrefix(rec.Decision, "Unable to produce recommendation:") {
		t.Errorf("Decision = %q", rec.Decision)
	}
	if rec.Disclaimer != model.Disclaimer {
		t.Error("fallback must still carry the disclaimer")
	}
}

func TestPromptPrioritizesActionableEvidence(t *testing.T) {
	stub := &stubProvider{response: fullResponse}
	d := NewDecisionMaker(stub, nil)

	evidence := &model.EvidenceSummary{AllClaims: []model.Claim{
		{Text: "benefit claim", ClaimType: model.ClaimTypeBenefit, SourceTitle: "B"},
		{Text: "risk claim", ClaimType: model.ClaimTypeRisk, SourceTitle: "R"},
	}}
	d.MakeRecommendation(context.Background(), "q", evidence, gapsWith(0, 0, 0, 0), nil)

	prompt := stub.lastReq.Prompt
	riskIdx := strings.Index(prompt, "[RISK] risk claim")
	benefitIdx := strings.Index(prompt, "[BENEFIT] benefit claim")
	if riskIdx == -1 || benefitIdx == -1 {
		t.Fatal("both claims should appear in the prompt")
	}
	if riskIdx > benefitIdx {
		t.Error("risk evidence should come before benefit evidence")
	}
}

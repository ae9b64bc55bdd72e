package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mkarev/decisive/internal/model"
)

// chatHandler fakes the OpenAI chat endpoint, picking a canned answer
// by recognizing which stage's prompt arrived
func chatHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode chat request: %v", err)
		}
		prompt := req.Messages[len(req.Messages)-1].Content

		var content string
		switch {
		case strings.Contains(prompt, "Break down this decision question"):
			content = `{"sub_questions": [
				"What evidence suggests serverless reduces cost in production?",
				"What failures or limitations have teams reported?",
				"What risks remain around vendor lock-in?",
				"What conditions are required for success?",
				"What do practitioners report about operations?"
			]}`
		case strings.Contains(prompt, "Extract 3-7 specific, evidence-based claims"):
			content = `{"claims": [
				{"text": "Cold starts added 800ms latency at the 99th percentile", "type": "metric"},
				{"text": "One team rolled back after costs tripled under sustained load", "type": "failure"},
				{"text": "Fine-grained IAM policies were required before production approval", "type": "practice"}
			]}`
		case strings.Contains(prompt, "Analyze this research evidence for gaps"):
			content = `{
				"unknowns": [
					{"description": "No multi-year cost data", "importance": "high"},
					{"description": "Unclear behavior at sustained scale", "importance": "high"},
					{"description": "Limited data for regulated industries", "importance": "medium"}
				],
				"conflicts": [{"description": "Sources disagree on cost outcomes", "claim_a": "cheaper", "claim_b": "tripled", "source_a": "a", "source_b": "b"}],
				"assumptions": [{"description": "Assumes bursty traffic", "risk": "Steady load changes the economics"}]
			}`
		case strings.Contains(prompt, "generate 1-3 clarifying questions"):
			content = `{"context": "Cost outcomes depend on traffic shape",
				"questions": [{"question": "Is your traffic bursty or steady?", "why_it_matters": "It decides the cost model", "priority": 1}]}`
		case strings.Contains(prompt, "produce a final recommendation"):
			content = `{
				"decision": "Adoption may be viable for bursty workloads with cost monitoring in place.",
				"confidence": "high",
				"key_reasons": ["Latency data is consistent", "Rollback stories cluster around steady load"],
				"trade_offs": [{"pro": "No server management", "con": "Cost unpredictability"}],
				"risks": ["Vendor lock-in"],
				"next_steps": ["Run a pilot", "Set cost alerts"]
			}`
		default:
			t.Errorf("unrecognized prompt: %.80s", prompt)
			content = `{}`
		}

		resp := map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{
				{"index": 0, "finish_reason": "stop", "message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func testPipeline(t *testing.T) *Pipeline {
	server := httptest.NewServer(chatHandler(t))
	t.Cleanup(server.Close)

	cfg := model.DefaultConfig()
	cfg.LLM.Provider = "openai"
	cfg.LLM.APIKey = "test-key"
	cfg.LLM.BaseURL = server.URL
	// Mock search domains are unreachable; fail fetches fast and rely
	// on snippet fallback
	cfg.HTTP.Timeout = 200 * time.Millisecond
	cfg.Cache.Enabled = false

	p, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRunFullPipeline(t *testing.T) {
	p := testPipeline(t)

	result, err := p.Run(context.Background(), "Should we adopt serverless for our platform?")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(result.Session.ID, "run_") {
		t.Errorf("session ID = %q", result.Session.ID)
	}
	if len(result.Decomposition.SubQuestions) != 5 {
		t.Errorf("sub-questions = %d, want 5", len(result.Decomposition.SubQuestions))
	}
	if !result.UsedMockSearch {
		t.Error("no API keys configured, search should use synthetic data")
	}
	if result.Discovery.TotalSources() == 0 {
		t.Fatal("no sources discovered")
	}
	if result.Stats.SourcesAnalyzed == 0 {
		t.Error("snippet fallback should leave analyzable sources")
	}
	if result.Evidence.TotalClaims() == 0 {
		t.Error("no claims extracted")
	}
	if result.Gaps.TotalGaps() != 5 {
		t.Errorf("TotalGaps = %d, want 5", result.Gaps.TotalGaps())
	}
	if len(result.Clarification.Questions) != 1 {
		t.Errorf("clarifying questions = %d, want 1", len(result.Clarification.Questions))
	}

	// 5 gaps and 2 high-importance unknowns: the model's "high" must
	// come back as "medium"
	if result.Recommendation.Confidence != model.ConfidenceMedium {
		t.Errorf("Confidence = %q, want medium after gap capping", result.Recommendation.Confidence)
	}
	if result.Recommendation.Disclaimer != model.Disclaimer {
		t.Error("recommendation missing disclaimer")
	}
	if len(result.Recommendation.TopSources) == 0 {
		t.Error("recommendation should cite top-ranked sources")
	}

	// Session captures the run's artifacts
	s := result.Session
	if len(s.SubQuestions) != 5 || len(s.Sources) == 0 || len(s.Claims) == 0 {
		t.Errorf("session not populated: subq=%d sources=%d claims=%d",
			len(s.SubQuestions), len(s.Sources), len(s.Claims))
	}
	if s.Recommendation != result.Recommendation.Decision {
		t.Error("session should record the final decision")
	}
	if p.Sessions().Count() != 1 {
		t.Errorf("store count = %d, want 1", p.Sessions().Count())
	}
	if result.Stats.Duration <= 0 {
		t.Error("stats duration not measured")
	}
}

func TestRunRejectsInvalidQuestion(t *testing.T) {
	p := testPipeline(t)

	_, err := p.Run(context.Background(), "AI?")
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *model.InputValidationError
	if !errors.As(err, &verr) {
		t.Errorf("error type = %T, want InputValidationError", err)
	}
	if p.Sessions().Count() != 0 {
		t.Error("no session should exist after a rejected question")
	}
}

func TestNewRequiresProvider(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = ""
	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected error without an LLM provider")
	}

	cfg.LLM.Provider = "openai"
	cfg.LLM.APIKey = ""
	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected error without an API key")
	}
}

func TestClaimsBySource(t *testing.T) {
	evidence := &model.EvidenceSummary{
		ClaimsBySource: []model.SourceClaims{
			{SourceURL: "https://a.com/1", Claims: []model.Claim{{Text: "x", ClaimType: model.ClaimTypeRisk}}},
			{SourceURL: "https://b.com/2"},
		},
	}
	m := claimsBySource(evidence)
	if len(m["https://a.com/1"]) != 1 {
		t.Errorf("claims for a.com = %d", len(m["https://a.com/1"]))
	}
	if len(m["https://b.com/2"]) != 0 {
		t.Error("empty source should map to no claims")
	}
}

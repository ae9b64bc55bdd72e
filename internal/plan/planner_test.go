package plan

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mkarev/decisive/internal/llm"
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

func TestDecomposeDeduplicatesAndCaps(t *testing.T) {
	stub := &stubProvider{response: `{"sub_questions": [
		"What evidence suggests serverless reduces operational cost?",
		"what evidence suggests serverless reduces operational cost?",
		"  ",
		"What failures or limitations have teams reported with cold starts?",
		"What risks remain around vendor lock-in?",
		"What conditions are required for cost-effective adoption?",
		"What do practitioners report about debugging experience?",
		"What evidence supports latency improvements?",
		"What guardrails are needed for production workloads?",
		"What monitoring practices do adopters recommend?",
		"What security risks have been reported?"
	]}`}

	p := NewPlanner(stub, nil)
	result, err := p.Decompose(context.Background(), "Should we adopt serverless?")
	if err != nil {
		t.Fatal(err)
	}

	if len(result.SubQuestions) != maxSubQuestions {
		t.Errorf("got %d sub-questions, want cap of %d", len(result.SubQuestions), maxSubQuestions)
	}
	if result.OriginalQuestion != "Should we adopt serverless?" {
		t.Errorf("OriginalQuestion = %q", result.OriginalQuestion)
	}

	seen := make(map[string]bool)
	for _, sq := range result.SubQuestions {
		lower := strings.ToLower(sq)
		if seen[lower] {
			t.Errorf("duplicate survived: %q", sq)
		}
		seen[lower] = true
	}
	if stub.lastReq.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", stub.lastReq.Temperature)
	}
}

func TestDecomposeProviderError(t *testing.T) {
	p := NewPlanner(&stubProvider{err: errors.New("timeout")}, nil)
	if _, err := p.Decompose(context.Background(), "Should we adopt serverless?"); err == nil {
		t.Fatal("expected error from failed provider call")
	}
}

func TestDecomposeFilteredDropsVagueQuestions(t *testing.T) {
	stub := &stubProvider{response: `{"sub_questions": [
		"What is serverless computing?",
		"Tell me more about AWS Lambda",
		"What failures or limitations have teams reported in production?",
		"What risks remain around vendor lock-in?",
		"What conditions are required for cost-effective adoption?",
		"What do practitioners report about operational overhead?",
		"What evidence suggests cost savings at scale?"
	]}`}

	p := NewPlanner(stub, nil)
	result, err := p.DecomposeFiltered(context.Background(), "Should we adopt serverless?")
	if err != nil {
		t.Fatal(err)
	}

	if len(result.SubQuestions) != 5 {
		t.Fatalf("got %d sub-questions, want 5 after filtering", len(result.SubQuestions))
	}
	for _, sq := range result.SubQuestions {
		lower := strings.ToLower(sq)
		if strings.Contains(lower, "what is") || strings.Contains(lower, "tell me more") {
			t.Errorf("vague question survived: %q", sq)
		}
	}
}

func TestDecomposeFilteredKeepsAllWhenTooFewSurvive(t *testing.T) {
	// Filtering would leave 2 questions; the unfiltered set wins
	stub := &stubProvider{response: `{"sub_questions": [
		"What is serverless computing?",
		"Tell me more about AWS Lambda",
		"Explain the cold start problem",
		"What risks remain around vendor lock-in?",
		"What do practitioners report about operational overhead?"
	]}`}

	p := NewPlanner(stub, nil)
	result, err := p.DecomposeFiltered(context.Background(), "Should we adopt serverless?")
	if err != nil {
		t.Fatal(err)
	}

	if len(result.SubQuestions) != 5 {
		t.Errorf("got %d sub-questions, want unfiltered 5", len(result.SubQuestions))
	}
}

func TestDecomposeFilteredDropsRestatedOriginal(t *testing.T) {
	stub := &stubProvider{response: `{"sub_questions": [
		"Should we adopt serverless?",
		"What failures or limitations have teams reported in production?",
		"What risks remain around vendor lock-in?",
		"What conditions are required for cost-effective adoption?",
		"What do practitioners report about operational overhead?",
		"What evidence suggests cost savings at scale?"
	]}`}

	p := NewPlanner(stub, nil)
	result, err := p.DecomposeFiltered(context.Background(), "Should we adopt serverless?")
	if err != nil {
		t.Fatal(err)
	}

	for _, sq := range result.SubQuestions {
		if strings.EqualFold(sq, "Should we adopt serverless?") {
			t.Errorf("restated original survived filtering")
		}
	}
	if len(result.SubQuestions) != 5 {
		t.Errorf("got %d sub-questions, want 5", len(result.SubQuestions))
	}
}

func TestDecompositionResultString(t *testing.T) {
	r := &DecompositionResult{
		OriginalQuestion: "Should we adopt serverless?",
		SubQuestions:     []string{"What risks remain?", "What evidence exists?"},
	}
	s := r.String()
	if !strings.Contains(s, "1. What risks remain?") || !strings.Contains(s, "2. What evidence exists?") {
		t.Errorf("String() = %q", s)
	}
}

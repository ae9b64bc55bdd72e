package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mkarev/decisive/internal/model"
)

func gapsWithEverything() *model.GapAnalysis {
	return &model.GapAnalysis{
		Question: "Should we adopt X?",
		Unknowns: []model.Unknown{
			{Description: "No long-term cost data", Importance: model.ImportanceHigh},
		},
		Conflicts: []model.Conflict{
			{Description: "Sources disagree on latency"},
		},
		Assumptions: []model.Assumption{
			{Description: "Assumes enterprise scale", Risk: "SMB costs differ"},
		},
	}
}

func TestGenerateQuestionsParsesResponse(t *testing.T) {
	stub := &stubProvider{response: `{
		"context": "Key gaps affect the recommendation",
		"questions": [
			{"question": "What is your team size?", "why_it_matters": "Scale changes the tradeoff", "priority": 2, "example_answers": ["Under 10", "Over 100"]},
			{"question": "Is downtime acceptable?", "priority": 1},
			{"question": ""},
			{"question": "Q3?", "priority": 3},
			{"question": "Q4?", "priority": 4}
		]
	}`}

	c := NewClarifier(stub, nil)
	req := c.GenerateQuestions(context.Background(), "Should we adopt X?", gapsWithEverything())

	if len(req.Questions) != maxClarifyingQuestions {
		t.Fatalf("got %d questions, want cap of %d", len(req.Questions), maxClarifyingQuestions)
	}
	if req.Context != "Key gaps affect the recommendation" {
		t.Errorf("Context = %q", req.Context)
	}
	if req.Questions[1].WhyItMatters != "Affects the recommendation" {
		t.Errorf("missing why_it_matters should default, got %q", req.Questions[1].WhyItMatters)
	}

	top := req.TopQuestion()
	if top == nil || top.Question != "Is downtime acceptable?" {
		t.Errorf("TopQuestion = %+v, want the priority-1 question", top)
	}
	if stub.lastReq.Temperature != 0.5 {
		t.Errorf("Temperature = %v, want 0.5", stub.lastReq.Temperature)
	}
}

func TestGenerateQuestionsNoGaps(t *testing.T) {
	stub := &stubProvider{response: `{}`}
	c := NewClarifier(stub, nil)

	req := c.GenerateQuestions(context.Background(), "q", &model.GapAnalysis{Question: "q"})

	if stub.calls != 0 {
		t.Error("no LLM call should be made when there are no gaps")
	}
	if len(req.Questions) != 0 {
		t.Errorf("got %d questions, want none", len(req.Questions))
	}
	if !strings.Contains(req.Context, "No significant gaps") {
		t.Errorf("Context = %q", req.Context)
	}
	if req.TopQuestion() != nil {
		t.Error("TopQuestion on empty request should be nil")
	}
}

func TestGenerateQuestionsFallbackOnError(t *testing.T) {
	c := NewClarifier(&stubProvider{err: errors.New("boom")}, nil)

	req := c.GenerateQuestions(context.Background(), "q", gapsWithEverything())

	if len(req.Questions) != 1 {
		t.Fatalf("got %d questions, want 1 fallback", len(req.Questions))
	}
	if req.Questions[0].Question != "What is your primary use case and risk tolerance?" {
		t.Errorf("fallback question = %q", req.Questions[0].Question)
	}
	if !strings.HasPrefix(req.Context, "Default question due to:") {
		t.Errorf("Context = %q", req.Context)
	}
}

func TestGenerateQuestionsPromptIncludesGaps(t *testing.T) {
	stub := &stubProvider{response: `{"context": "c", "questions": []}`}
	c := NewClarifier(stub, nil)

	c.GenerateQuestions(context.Background(), "Should we adopt X?", gapsWithEverything())

	prompt := stub.lastReq.Prompt
	for _, want := range []string{
		"[HIGH] No long-term cost data",
		"- Sources disagree on latency",
		"Assumes enterprise scale (Risk: SMB costs differ)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGenerateQuestionsOnlyConflicts(t *testing.T) {
	stub := &stubProvider{response: `{"context": "c", "questions": [{"question": "Q?", "priority": 1}]}`}
	c := NewClarifier(stub, nil)

	gaps := &model.GapAnalysis{
		Question:  "q",
		Conflicts: []model.Conflict{{Description: "disagreement"}},
	}
	c.GenerateQuestions(context.Background(), "q", gaps)

	if !strings.Contains(stub.lastReq.Prompt, "None identified") {
		t.Error("empty gap sections should read as None identified")
	}
}

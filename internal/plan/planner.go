// Package plan breaks a decision question into researchable
// sub-questions.
package plan

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mkarev/decisive/internal/llm"
)

const (
	minSubQuestions = 4
	maxSubQuestions = 7
)

const decompositionSystemPrompt = `You are a decision support assistant. Your job is to break down complex decision questions into sub-questions that gather evidence FOR and AGAINST a decision.

You are NOT writing a literature review. You are helping someone DECIDE.

Rules:
1. Generate 4-7 sub-questions
2. Each sub-question must help answer: "Should I do this? What are the risks?"
3. Avoid duplicates or overly similar questions
4. Cover decision-relevant angles:
   - What evidence supports this working in practice?
   - What failures or limitations have been reported?
   - What risks remain unresolved or poorly understood?
   - What guardrails or conditions are required for success?
   - What do practitioners recommend based on real experience?
5. Make questions specific and evidence-focused
6. Start questions with phrases like:
   - "What evidence suggests..."
   - "What failures or limitations..."
   - "What risks remain..."
   - "What conditions are required..."
   - "What do practitioners report..."
7. AVOID academic/literature phrasing like:
   - "What are the latest research papers..."
   - "What studies have been published..."
   - "What is the current state of research..."

Output format: JSON with a single key "sub_questions" containing an array of strings.`

const decompositionPromptTemplate = `Break down this decision question into 4-7 evidence-gathering sub-questions:

QUESTION: %s

Generate sub-questions that help someone DECIDE, not just learn. Focus on:
- Evidence of success or failure in real-world use
- Reported risks, failures, and limitations
- Conditions required for success
- Practitioner recommendations

Avoid academic phrasing. Use decision-oriented language.

Return JSON: {"sub_questions": ["question1", "question2", ...]}`

// vaguePatterns mark sub-questions that gather background instead of
// evidence
var vaguePatterns = []string{
	"tell me more",
	"explain",
	"what is",
	"define",
}

// DecompositionResult pairs the original question with its research
// sub-questions
type DecompositionResult struct {
	OriginalQuestion string   `json:"original_question"`
	SubQuestions     []string `json:"sub_questions"`
}

func (d *DecompositionResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Original: %s\n\nSub-questions:\n", d.OriginalQuestion)
	for i, sq := range d.SubQuestions {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, sq)
	}
	return sb.String()
}

// Planner decomposes decision questions with an LLM
type Planner struct {
	provider llm.Provider
	log      *zap.SugaredLogger
}

// NewPlanner creates a planner
func NewPlanner(provider llm.Provider, log *zap.SugaredLogger) *Planner {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Planner{provider: provider, log: log}
}

type decompositionResponse struct {
	SubQuestions []string `json:"sub_questions"`
}

// Decompose generates 4-7 sub-questions for the given question.
// Output is deduplicated case-insensitively and capped at the maximum.
func (p *Planner) Decompose(ctx context.Context, question string) (*DecompositionResult, error) {
	raw, err := p.provider.CompleteJSON(ctx, llm.Request{
		Prompt:       fmt.Sprintf(decompositionPromptTemplate, question),
		SystemPrompt: decompositionSystemPrompt,
		Temperature:  0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("decompose question: %w", err)
	}

	var resp decompositionResponse
	if err := llm.DecodeResponse(raw, &resp); err != nil {
		return nil, fmt.Errorf("decompose question: %w", err)
	}

	cleaned := dedupe(resp.SubQuestions)
	if len(cleaned) < minSubQuestions {
		p.log.Warnw("fewer sub-questions than expected", "count", len(cleaned))
	}

	return &DecompositionResult{
		OriginalQuestion: question,
		SubQuestions:     cleaned,
	}, nil
}

// DecomposeFiltered decomposes and then drops vague sub-questions and
// restatements of the original. The filtered list is only used when
// enough questions survive; otherwise the unfiltered set stands.
func (p *Planner) DecomposeFiltered(ctx context.Context, question string) (*DecompositionResult, error) {
	result, err := p.Decompose(ctx, question)
	if err != nil {
		return nil, err
	}

	originalNorm := strings.TrimRight(strings.ToLower(question), "?")

	var filtered []string
	for _, sq := range result.SubQuestions {
		lower := strings.ToLower(sq)
		if containsAny(lower, vaguePatterns) {
			continue
		}
		if strings.TrimRight(lower, "?") == originalNorm {
			continue
		}
		filtered = append(filtered, sq)
	}

	if len(filtered) >= minSubQuestions {
		result.SubQuestions = filtered
	}
	return result, nil
}

// dedupe strips whitespace, drops empties, removes case-insensitive
// duplicates, and caps the list
func dedupe(questions []string) []string {
	seen := make(map[string]bool)
	var cleaned []string

	for _, q := range questions {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		lower := strings.ToLower(q)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		cleaned = append(cleaned, q)
	}

	if len(cleaned) > maxSubQuestions {
		cleaned = cleaned[:maxSubQuestions]
	}
	return cleaned
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

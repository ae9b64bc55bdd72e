package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mkarev/decisive/internal/llm"
	"github.com/mkarev/decisive/internal/model"
)

const maxClarifyingQuestions = 3

const clarifierSystemPrompt = `You are a decision support assistant. Based on identified gaps in research, you generate clarifying questions to ask the user.

Your questions must:
1. Be decision-shaping (the answer changes the recommendation)
2. Be answerable in one sentence
3. Use plain English (no jargon)
4. Not be redundant with each other
5. Focus on the most important gaps

Good questions:
- "Is your goal to deploy AI in high-stakes decisions or low-risk assistive tasks?"
- "Do you have an existing team with AI/ML experience?"
- "What is your acceptable failure rate for this system?"
- "Is full automation required, or is human-in-the-loop acceptable?"

Bad questions (avoid):
- "What is your opinion on AI?" (too vague)
- "Have you considered the implications of transformer architectures?" (too technical)
- "Do you want to use AI?" (doesn't shape decision)

Generate 1-3 questions that would most change the recommendation based on the gaps.

Output JSON:
{
  "context": "Brief explanation of why clarification is needed",
  "questions": [
    {
      "question": "The question in plain English",
      "why_it_matters": "How the answer affects the recommendation",
      "priority": 1,
      "example_answers": ["Answer option 1", "Answer option 2"]
    }
  ]
}`

const clarifierPromptTemplate = `Based on these research gaps, generate 1-3 clarifying questions to ask the user.

ORIGINAL QUESTION: %s

IDENTIFIED GAPS:

UNKNOWNS:
%s

CONFLICTS:
%s

ASSUMPTIONS:
%s

---

Generate questions that:
1. Would most change the recommendation if answered
2. Are answerable in one sentence
3. Use plain, non-technical language

Return JSON with context and questions array.`

// Clarifier turns research gaps into questions for the user
type Clarifier struct {
	provider llm.Provider
	log      *zap.SugaredLogger
}

// NewClarifier creates a clarifier
func NewClarifier(provider llm.Provider, log *zap.SugaredLogger) *Clarifier {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Clarifier{provider: provider, log: log}
}

type clarifierResponse struct {
	Context   string `json:"context"`
	Questions []struct {
		Question       string   `json:"question"`
		WhyItMatters   string   `json:"why_it_matters"`
		Priority       int      `json:"priority"`
		ExampleAnswers []string `json:"example_answers"`
	} `json:"questions"`
}

// GenerateQuestions produces 1-3 clarifying questions from the gap
// analysis. No gaps means no questions; an LLM failure degrades to a
// single default question.
func (c *Clarifier) GenerateQuestions(ctx context.Context, question string, gaps *model.GapAnalysis) *model.ClarificationRequest {
	if gaps.TotalGaps() == 0 {
		return &model.ClarificationRequest{
			Context: "No significant gaps identified that require clarification.",
		}
	}

	raw, err := c.provider.CompleteJSON(ctx, llm.Request{
		Prompt: fmt.Sprintf(clarifierPromptTemplate, question,
			orNone(formatUnknowns(gaps)),
			orNone(formatConflicts(gaps)),
			orNone(formatAssumptions(gaps))),
		SystemPrompt: clarifierSystemPrompt,
		Temperature:  0.5,
	})
	if err != nil {
		c.log.Warnw("clarifier failed", "error", err)
		return fallbackRequest(err)
	}

	var resp clarifierResponse
	if err := llm.DecodeResponse(raw, &resp); err != nil {
		return fallbackRequest(err)
	}

	return parseClarification(resp)
}

func formatUnknowns(gaps *model.GapAnalysis) string {
	var lines []string
	for i, u := range gaps.Unknowns {
		if i >= 5 {
			break
		}
		lines = append(lines, fmt.Sprintf("- [%s] %s", strings.ToUpper(u.Importance), u.Description))
	}
	return strings.Join(lines, "\n")
}

func formatConflicts(gaps *model.GapAnalysis) string {
	var lines []string
	for i, c := range gaps.Conflicts {
		if i >= 3 {
			break
		}
		lines = append(lines, "- "+c.Description)
	}
	return strings.Join(lines, "\n")
}

func formatAssumptions(gaps *model.GapAnalysis) string {
	var lines []string
	for i, a := range gaps.Assumptions {
		if i >= 4 {
			break
		}
		lines = append(lines, fmt.Sprintf("- %s (Risk: %s)", a.Description, a.Risk))
	}
	return strings.Join(lines, "\n")
}

func orNone(s string) string {
	if s == "" {
		return "None identified"
	}
	return s
}

func parseClarification(resp clarifierResponse) *model.ClarificationRequest {
	context := resp.Context
	if context == "" {
		context = "Clarification needed to refine recommendation."
	}

	req := &model.ClarificationRequest{Context: context}
	for i, item := range resp.Questions {
		if len(req.Questions) >= maxClarifyingQuestions {
			break
		}
		if item.Question == "" {
			continue
		}
		why := item.WhyItMatters
		if why == "" {
			why = "Affects the recommendation"
		}
		priority := item.Priority
		if priority == 0 {
			priority = i + 1
		}
		req.Questions = append(req.Questions, model.ClarifyingQuestion{
			Question:       item.Question,
			WhyItMatters:   why,
			Priority:       priority,
			ExampleAnswers: item.ExampleAnswers,
		})
	}
	return req
}

func fallbackRequest(err error) *model.ClarificationRequest {
	msg := err.Error()
	if len(msg) > 50 {
		msg = msg[:50]
	}
	return &model.ClarificationRequest{
		Questions: []model.ClarifyingQuestion{{
			Question:       "What is your primary use case and risk tolerance?",
			WhyItMatters:   "Understanding your context helps tailor the recommendation",
			Priority:       1,
			ExampleAnswers: []string{"Low-risk assistive use", "High-stakes autonomous use"},
		}},
		Context: "Default question due to: " + msg,
	}
}

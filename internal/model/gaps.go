package model

// Importance tiers for unknowns
const (
	ImportanceHigh   = "high"
	ImportanceMedium = "medium"
	ImportanceLow    = "low"
)

// Unknown is a gap in knowledge - something the evidence does not answer
type Unknown struct {
	Description string `json:"description"`
	Importance  string `json:"importance"` // high, medium, low
}

// Conflict is a disagreement between two sources
type Conflict struct {
	Description string `json:"description"`
	ClaimA      string `json:"claim_a"`
	ClaimB      string `json:"claim_b"`
	SourceA     string `json:"source_a"`
	SourceB     string `json:"source_b"`
}

// Assumption is an implicit premise in the evidence, with the risk
// if it turns out false
type Assumption struct {
	Description string `json:"description"`
	Risk        string `json:"risk"`
}

// GapAnalysis is the complete gap analysis for one question
type GapAnalysis struct {
	Question    string       `json:"question"`
	Unknowns    []Unknown    `json:"unknowns"`
	Conflicts   []Conflict   `json:"conflicts"`
	Assumptions []Assumption `json:"assumptions"`
}

// TotalGaps returns the combined count of unknowns, conflicts, and assumptions
func (g *GapAnalysis) TotalGaps() int {
	return len(g.Unknowns) + len(g.Conflicts) + len(g.Assumptions)
}

// HighImportanceUnknowns counts unknowns flagged as high importance
func (g *GapAnalysis) HighImportanceUnknowns() int {
	count := 0
	for _, u := range g.Unknowns {
		if u.Importance == ImportanceHigh {
			count++
		}
	}
	return count
}

// HasCriticalGaps reports whether any high-importance unknown exists
func (g *GapAnalysis) HasCriticalGaps() bool {
	return g.HighImportanceUnknowns() > 0
}

// ClarifyingQuestion is a question to put back to the user when gaps
// would change the recommendation
type ClarifyingQuestion struct {
	Question       string   `json:"question"`
	WhyItMatters   string   `json:"why_it_matters"`
	Priority       int      `json:"priority"` // 1 = highest
	ExampleAnswers []string `json:"example_answers,omitempty"`
}

// ClarificationRequest is the set of clarifying questions for one run
type ClarificationRequest struct {
	Questions []ClarifyingQuestion `json:"questions"`
	Context   string               `json:"context"` // Why we are asking
}

// TopQuestion returns the highest priority question, or nil if none
func (r *ClarificationRequest) TopQuestion() *ClarifyingQuestion {
	var top *ClarifyingQuestion
	for i := range r.Questions {
		if top == nil || r.Questions[i].Priority < top.Priority {
			top = &r.Questions[i]
		}
	}
	return top
}

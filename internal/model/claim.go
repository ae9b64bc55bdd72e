package model

// ClaimType categorizes the nature of an extracted claim
type ClaimType string

const (
	ClaimTypeBenefit    ClaimType = "benefit"    // Positive outcomes, advantages
	ClaimTypeRisk       ClaimType = "risk"       // Dangers, concerns, threats
	ClaimTypeLimitation ClaimType = "limitation" // Current constraints, gaps
	ClaimTypeExample    ClaimType = "example"    // Case study, real-world instance
	ClaimTypeMetric     ClaimType = "metric"     // Quantitative data, statistics
	ClaimTypePractice   ClaimType = "practice"   // Recommendation with reasoning
	ClaimTypeFailure    ClaimType = "failure"    // Reported failure or problem
	ClaimTypeUnknown    ClaimType = "unknown"
)

// ParseClaimType maps a type string from the LLM to a ClaimType.
// Unrecognized strings become ClaimTypeUnknown rather than an error.
func ParseClaimType(s string) ClaimType {
	switch ClaimType(s) {
	case ClaimTypeBenefit, ClaimTypeRisk, ClaimTypeLimitation, ClaimTypeExample,
		ClaimTypeMetric, ClaimTypePractice, ClaimTypeFailure:
		return ClaimType(s)
	default:
		return ClaimTypeUnknown
	}
}

// Claim is a single atomic assertion extracted from a source.
// Immutable once created.
type Claim struct {
	Text        string    `json:"text"`
	SourceURL   string    `json:"source_url"`
	SourceTitle string    `json:"source_title"`
	ClaimType   ClaimType `json:"claim_type"`
	Confidence  float64   `json:"confidence"` // Extraction confidence
}

// Actionable reports whether the claim is directly decision-relevant
// (risk, limitation, practice, or failure)
func (c Claim) Actionable() bool {
	switch c.ClaimType {
	case ClaimTypeRisk, ClaimTypeLimitation, ClaimTypePractice, ClaimTypeFailure:
		return true
	}
	return false
}

// SourceClaims holds the claims extracted from a single source.
// ExtractionError is set when extraction failed for that source.
type SourceClaims struct {
	SourceURL       string  `json:"source_url"`
	SourceTitle     string  `json:"source_title"`
	Claims          []Claim `json:"claims"`
	ExtractionError string  `json:"extraction_error,omitempty"`
}

// ActionableCount returns how many of the source's claims are actionable
func (s SourceClaims) ActionableCount() int {
	count := 0
	for _, c := range s.Claims {
		if c.Actionable() {
			count++
		}
	}
	return count
}

// EvidenceSummary aggregates all claims across sources.
// Built once per pipeline run, read-only thereafter.
type EvidenceSummary struct {
	AllClaims      []Claim        `json:"all_claims"`
	ClaimsBySource []SourceClaims `json:"claims_by_source"`
}

// TotalClaims returns the number of claims across all sources
func (e *EvidenceSummary) TotalClaims() int {
	return len(e.AllClaims)
}

// SourcesProcessed returns how many sources went through extraction
func (e *EvidenceSummary) SourcesProcessed() int {
	return len(e.ClaimsBySource)
}

// ActionableRatio returns the fraction of claims that are actionable
func (e *EvidenceSummary) ActionableRatio() float64 {
	if len(e.AllClaims) == 0 {
		return 0.0
	}
	actionable := 0
	for _, c := range e.AllClaims {
		if c.Actionable() {
			actionable++
		}
	}
	return float64(actionable) / float64(len(e.AllClaims))
}

// ClaimsByType groups all claims by their type
func (e *EvidenceSummary) ClaimsByType() map[ClaimType][]Claim {
	result := make(map[ClaimType][]Claim)
	for _, c := range e.AllClaims {
		result[c.ClaimType] = append(result[c.ClaimType], c)
	}
	return result
}

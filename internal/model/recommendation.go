package model

// Confidence tiers for the final recommendation
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Disclaimer is appended verbatim to every recommendation
const Disclaimer = "This analysis is for informational purposes only. " +
	"It is not professional advice for legal, medical, or financial decisions. " +
	"Always consult qualified professionals for important decisions."

// TradeOff pairs an advantage with its corresponding disadvantage
type TradeOff struct {
	Pro string `json:"pro"`
	Con string `json:"con"`
}

// Citation points at one of the top-ranked sources backing the recommendation
type Citation struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Why   string `json:"why"` // Ranking justification
}

// Recommendation is the terminal output of a research run
type Recommendation struct {
	Decision   string `json:"decision"`
	Confidence string `json:"confidence"` // high, medium, low

	KeyReasons []string   `json:"key_reasons"`
	TradeOffs  []TradeOff `json:"trade_offs"`
	Risks      []string   `json:"risks"`
	NextSteps  []string   `json:"next_steps"`

	TopSources []Citation `json:"top_sources"`
	Disclaimer string     `json:"disclaimer"`
}

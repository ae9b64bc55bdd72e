package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mkarev/decisive/internal/pipeline"
)

const divider = "═══════════════════════════════════════════════════════════"

// renderResult prints a completed research run in reading order:
// recommendation first, then the reasoning behind it.
func renderResult(w io.Writer, result *pipeline.Result) {
	rec := result.Recommendation

	fmt.Fprintln(w, divider)
	fmt.Fprintf(w, "  Recommendation  [confidence: %s]\n", strings.ToUpper(rec.Confidence))
	fmt.Fprintln(w, divider)
	fmt.Fprintln(w)
	fmt.Fprintln(w, rec.Decision)
	fmt.Fprintln(w)

	if len(rec.KeyReasons) > 0 {
		fmt.Fprintln(w, "Key reasons:")
		for _, r := range rec.KeyReasons {
			fmt.Fprintf(w, "  • %s\n", r)
		}
		fmt.Fprintln(w)
	}

	if len(rec.TradeOffs) > 0 {
		fmt.Fprintln(w, "Trade-offs:")
		for _, to := range rec.TradeOffs {
			fmt.Fprintf(w, "  + %s\n", to.Pro)
			fmt.Fprintf(w, "  - %s\n", to.Con)
		}
		fmt.Fprintln(w)
	}

	if len(rec.Risks) > 0 {
		fmt.Fprintln(w, "Risks:")
		for _, r := range rec.Risks {
			fmt.Fprintf(w, "  • %s\n", r)
		}
		fmt.Fprintln(w)
	}

	if len(rec.NextSteps) > 0 {
		fmt.Fprintln(w, "Next steps:")
		for i, s := range rec.NextSteps {
			fmt.Fprintf(w, "  %d. %s\n", i+1, s)
		}
		fmt.Fprintln(w)
	}

	gaps := result.Gaps
	if gaps.TotalGaps() > 0 {
		fmt.Fprintln(w, "What the evidence does not answer:")
		for i, u := range gaps.Unknowns {
			if i >= 5 {
				break
			}
			fmt.Fprintf(w, "  ? [%s] %s\n", u.Importance, u.Description)
		}
		for i, c := range gaps.Conflicts {
			if i >= 3 {
				break
			}
			fmt.Fprintf(w, "  ! conflict: %s\n", c.Description)
		}
		for i, a := range gaps.Assumptions {
			if i >= 3 {
				break
			}
			fmt.Fprintf(w, "  ~ assumes: %s\n", a.Description)
		}
		fmt.Fprintln(w)
	}

	if len(result.Clarification.Questions) > 0 {
		fmt.Fprintln(w, "Worth clarifying:")
		for _, q := range result.Clarification.Questions {
			fmt.Fprintf(w, "  • %s\n", q.Question)
			if q.WhyItMatters != "" {
				fmt.Fprintf(w, "    (%s)\n", q.WhyItMatters)
			}
		}
		fmt.Fprintln(w)
	}

	if len(rec.TopSources) > 0 {
		fmt.Fprintln(w, "Top sources:")
		for i, c := range rec.TopSources {
			fmt.Fprintf(w, "  %d. %s\n", i+1, c.Title)
			fmt.Fprintf(w, "     %s (%s)\n", c.URL, c.Why)
		}
		fmt.Fprintln(w)
	}

	if result.Ranking.TotalSources() > 0 {
		fmt.Fprintln(w, result.Ranking.Justification)
		fmt.Fprintln(w)
	}

	stats := result.Stats
	fmt.Fprintf(w, "Session %s: %d sources discovered, %d analyzed, %d claims, %d gaps (%.1fs)\n",
		result.Session.ID,
		stats.SourcesDiscovered, stats.SourcesAnalyzed,
		stats.ClaimsExtracted, stats.GapsIdentified,
		stats.Duration.Seconds())

	if result.UsedMockSearch {
		fmt.Fprintln(w, "Note: no search API key configured; results are synthetic placeholders.")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, rec.Disclaimer)
}

package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/refixai/refix/internal/core/review"
	"github.com/refixai/refix/internal/core/styles"
)

const dashboardWidth = 100

// dashboardMarkdown renders a structured review as markdown: score header,
// optional trend, then one section per panel numbered from 1 so chat can
// address them.
func dashboardMarkdown(r review.Review, s *review.Structured, history []review.ScoreEntry) string {
	var b strings.Builder

	band := review.BandFor(s.OverallScore)
	fmt.Fprintf(&b, "# Overall score: %d / 100 (%s)\n\n", s.OverallScore, band)

	if delta, ok := review.Trend(history); ok {
		switch {
		case delta > 0:
			fmt.Fprintf(&b, "Up **%d** since the previous review.\n\n", delta)
		case delta < 0:
			fmt.Fprintf(&b, "Down **%d** since the previous review.\n\n", -delta)
		default:
			b.WriteString("Unchanged since the previous review.\n\n")
		}
	}

	if !r.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Review `%s`, %s\n\n", r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	if len(s.Panels) == 0 {
		b.WriteString("No findings.\n")
		return b.String()
	}

	for i, p := range s.Panels {
		fmt.Fprintf(&b, "## %d. [%s] %s\n\n", i+1, p.Category, p.Title)
		if p.FileName != "" {
			fmt.Fprintf(&b, "`%s:%d`\n\n", p.FileName, p.LineNumber)
		}
		b.WriteString(strings.TrimSpace(p.Details))
		b.WriteString("\n\n")
	}
	return b.String()
}

// renderDashboard renders r for the terminal. Legacy content is printed as
// plain text; structured content goes through glamour with the active theme.
func renderDashboard(r review.Review, history []review.ScoreEntry, width int) (string, error) {
	content := r.Parse()
	if content.IsLegacy() {
		header := styles.CommandHeaderStyle.Render("Review " + r.ID.String())
		return header + "\n\n" + content.Legacy + "\n", nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}

	out, err := renderer.Render(dashboardMarkdown(r, content.Structured, history))
	if err != nil {
		return "", fmt.Errorf("render review: %w", err)
	}

	score := styles.ScoreStyle(string(review.BandFor(content.Structured.OverallScore))).
		Render(fmt.Sprintf("%s %d", styles.IconSparkle, content.Structured.OverallScore))
	return score + "\n" + out, nil
}

package present

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
)

const gaugeWidth = 20

// RenderText writes a terminal rendering of the view.
func RenderText(w io.Writer, v View) error {
	var b strings.Builder

	if v.Role != "" {
		fmt.Fprintf(&b, "Role: %s\n\n", v.Role)
	}

	if v.Failed() {
		fmt.Fprintf(&b, "Analysis failed: %s\n", v.Failure)
		_, err := io.WriteString(w, b.String())
		return err
	}

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, card := range v.Cards {
		fmt.Fprintf(tw, "%s %s\t%s\t%s\n", card.Icon, card.Title, formatScore(card.Value), card.Label)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(v.Gauges) > 0 {
		b.WriteString("\n")
	}
	for _, g := range v.Gauges {
		fmt.Fprintf(&b, "%-16s %s %s%s\n", g.Title, gaugeBar(g.Value), formatScore(g.Value), bandLabel(g))
	}

	writeList(&b, "Strengths", v.Strengths)
	writeList(&b, "Improvements", v.Suggestions)

	if v.Narrative != "" {
		b.WriteString("\nAI Analysis Report\n\n")
		b.WriteString(v.Narrative)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "  • %s\n", item)
	}
}

func gaugeBar(value float64) string {
	filled := int(math.Round(clamp(value, 0, 100) / 100 * gaugeWidth))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", gaugeWidth-filled) + "]"
}

func bandLabel(g Gauge) string {
	if g.Band < 0 || g.Band >= len(g.Steps) {
		return ""
	}
	step := g.Steps[g.Band]
	return fmt.Sprintf("  (%s-%s)", formatScore(step.From), formatScore(step.To))
}

func formatScore(value float64) string {
	if value == math.Trunc(value) {
		return fmt.Sprintf("%.0f", value)
	}
	return fmt.Sprintf("%.1f", value)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

package present

import (
	"fmt"
	"strings"
)

// sectionMarker maps a heading emitted by the analyzer to its styled title.
type sectionMarker struct {
	Marker string
	Title  string
}

var sectionMarkers = []sectionMarker{
	{Marker: "## Overall Assessment", Title: "🎯 Overall Assessment"},
	{Marker: "## Professional Profile Analysis", Title: "👤 Professional Profile Analysis"},
	{Marker: "## Skills Analysis", Title: "🛠️ Skills Analysis"},
	{Marker: "## Experience Analysis", Title: "💼 Experience Analysis"},
	{Marker: "## Education Analysis", Title: "🎓 Education Analysis"},
	{Marker: "## Key Strengths", Title: "✅ Key Strengths"},
	{Marker: "## Areas for Improvement", Title: "🎯 Areas for Improvement"},
	{Marker: "## ATS Optimization Assessment", Title: "🤖 ATS Optimization Assessment"},
	{Marker: "## Recommended Courses", Title: "📚 Recommended Courses"},
	{Marker: "## Resume Score", Title: "⭐ Resume Score"},
	{Marker: "## Role Alignment Analysis", Title: "🎯 Role Alignment Analysis"},
	{Marker: "## Job Match Analysis", Title: "🤝 Job Match Analysis"},
}

const headingTemplate = `<div class="analysis-heading">%s</div>`

// StyleHeading wraps a section title the way the formatted narrative does.
func StyleHeading(title string) string {
	return fmt.Sprintf(headingTemplate, title)
}

var narrativeReplacer = newNarrativeReplacer()

func newNarrativeReplacer() *strings.Replacer {
	pairs := make([]string, 0, len(sectionMarkers)*2)
	for _, m := range sectionMarkers {
		pairs = append(pairs, m.Marker, StyleHeading(m.Title))
	}
	return strings.NewReplacer(pairs...)
}

// FormatNarrative replaces every recognized section marker with its styled
// heading. Substitution is a single left-to-right scan over the input, so an
// inserted heading is never matched again by another marker. Markers are
// tried in table order at each position.
func FormatNarrative(text string) string {
	if text == "" {
		return ""
	}
	return narrativeReplacer.Replace(text)
}

// markers returns the recognized section markers in table order.
func markers() []string {
	out := make([]string, 0, len(sectionMarkers))
	for _, m := range sectionMarkers {
		out = append(out, m.Marker)
	}
	return out
}

// Package present turns analysis results into display-ready structures:
// score cards, gauges, formatted narrative and a failure notice. It has no
// side effects.
package present

import (
	"github.com/spigell/resume-studio/internal/analysis"
	"github.com/spigell/resume-studio/internal/score"
)

// ScoreCard is a single labelled score badge.
type ScoreCard struct {
	Title string  `json:"title"`
	Icon  string  `json:"icon"`
	Value float64 `json:"value"`
	score.Classification
	Color string `json:"color"`
}

// Gauge is a dial visual for a score. Band indexes the step holding Value.
type Gauge struct {
	Title     string            `json:"title"`
	Value     float64           `json:"value"`
	Tier      score.Tier        `json:"tier"`
	Color     string            `json:"color"`
	Steps     []score.GaugeStep `json:"steps"`
	Band      int               `json:"band"`
	Threshold float64           `json:"threshold"`
}

// View is everything needed to render an analysis result.
type View struct {
	Role        string      `json:"role"`
	Failure     string      `json:"failure,omitempty"`
	Cards       []ScoreCard `json:"cards,omitempty"`
	Gauges      []Gauge     `json:"gauges,omitempty"`
	Strengths   []string    `json:"strengths,omitempty"`
	Suggestions []string    `json:"suggestions,omitempty"`
	Narrative   string      `json:"narrative,omitempty"`
}

// Failed reports whether the view is a failure notice.
func (v View) Failed() bool { return v.Failure != "" }

type scoreField struct {
	title string
	icon  string
	value func(r *analysis.Result) *float64
}

var cardFields = []scoreField{
	{title: "Resume Score", icon: "⭐", value: func(r *analysis.Result) *float64 { return &r.ResumeScore }},
	{title: "ATS Score", icon: "🎯", value: func(r *analysis.Result) *float64 { return r.ATSScore }},
	{title: "Keywords", icon: "🔑", value: func(r *analysis.Result) *float64 { return r.KeywordMatch }},
	{title: "Format", icon: "📄", value: func(r *analysis.Result) *float64 { return r.FormatScore }},
	{title: "Sections", icon: "📋", value: func(r *analysis.Result) *float64 { return r.SectionScore }},
}

// Present builds the view for result. usedCustomJob enables the job match
// gauge when the result carries a job match score.
func Present(result *analysis.Result, role string, usedCustomJob bool) View {
	view := View{Role: role}

	if result == nil {
		view.Failure = "no analysis result available"
		return view
	}
	if result.IsError() {
		view.Failure = result.Error
		return view
	}

	for _, field := range cardFields {
		value := field.value(result)
		if value == nil {
			continue
		}
		view.Cards = append(view.Cards, NewScoreCard(field.title, field.icon, *value))
	}

	view.Gauges = append(view.Gauges, NewGauge("Resume Score", result.ResumeScore))
	if result.ATSScore != nil {
		view.Gauges = append(view.Gauges, NewGauge("ATS Score", *result.ATSScore))
	}
	if usedCustomJob && result.JobMatchScore != nil {
		view.Gauges = append(view.Gauges, NewGauge("Job Match Score", *result.JobMatchScore))
	}

	view.Strengths = append(view.Strengths, result.Strengths...)
	view.Suggestions = append(view.Suggestions, result.Suggestions...)
	view.Narrative = FormatNarrative(result.Analysis)

	return view
}

// NewScoreCard classifies value for a score card.
func NewScoreCard(title, icon string, value float64) ScoreCard {
	c := score.Classify(value)
	return ScoreCard{
		Title:          title,
		Icon:           icon,
		Value:          value,
		Classification: c,
		Color:          c.Tier.Color(),
	}
}

// NewGauge builds a gauge. Its bar color comes from the same classification
// as score cards, its background bands from the fixed gauge steps.
func NewGauge(title string, value float64) Gauge {
	tier := score.Classify(value).Tier
	return Gauge{
		Title:     title,
		Value:     value,
		Tier:      tier,
		Color:     tier.Color(),
		Steps:     score.GaugeSteps(),
		Band:      score.StepFor(value),
		Threshold: score.GaugeThreshold,
	}
}

// FailureView builds a view that carries only a failure notice.
func FailureView(role, message string) View {
	if message == "" {
		message = "unknown error"
	}
	return View{Role: role, Failure: message}
}

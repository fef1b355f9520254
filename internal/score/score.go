package score

import "math"

// Tier is the discrete band a numeric score falls into.
type Tier string

const (
	TierExcellent        Tier = "excellent"
	TierGood             Tier = "good"
	TierNeedsImprovement Tier = "needs-improvement"
)

const (
	ExcellentThreshold = 80
	GoodThreshold      = 60
)

// Classification is the label and tier assigned to a score.
type Classification struct {
	Tier  Tier   `json:"tier"`
	Label string `json:"label"`
}

// Classify maps a score to its tier. Scores outside [0,100] are not rejected,
// the same thresholds apply. NaN is treated as needs-improvement.
func Classify(score float64) Classification {
	switch {
	case math.IsNaN(score):
		return Classification{Tier: TierNeedsImprovement, Label: TierNeedsImprovement.Label()}
	case score >= ExcellentThreshold:
		return Classification{Tier: TierExcellent, Label: TierExcellent.Label()}
	case score >= GoodThreshold:
		return Classification{Tier: TierGood, Label: TierGood.Label()}
	default:
		return Classification{Tier: TierNeedsImprovement, Label: TierNeedsImprovement.Label()}
	}
}

// Label returns the human-readable badge text for the tier.
func (t Tier) Label() string {
	switch t {
	case TierExcellent:
		return "Excellent"
	case TierGood:
		return "Good"
	default:
		return "Needs Work"
	}
}

// Color returns the display color shared by score cards and gauge bars.
func (t Tier) Color() string {
	switch t {
	case TierExcellent:
		return "#10b981"
	case TierGood:
		return "#f59e0b"
	default:
		return "#ef4444"
	}
}

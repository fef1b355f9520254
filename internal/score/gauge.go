package score

// GaugeThreshold is the marker line drawn on every gauge.
const GaugeThreshold = 60

// GaugeStep is a background band on a gauge axis. Gauge banding uses a finer
// granularity (40/60/80) than Classify (60/80) over the same 0-100 domain.
type GaugeStep struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Color string  `json:"color"`
}

var gaugeSteps = []GaugeStep{
	{From: 0, To: 40, Color: "rgba(239, 68, 68, 0.2)"},
	{From: 40, To: 60, Color: "rgba(245, 158, 11, 0.2)"},
	{From: 60, To: 80, Color: "rgba(245, 158, 11, 0.3)"},
	{From: 80, To: 100, Color: "rgba(16, 185, 129, 0.2)"},
}

// GaugeSteps returns a copy of the fixed gauge bands.
func GaugeSteps() []GaugeStep {
	steps := make([]GaugeStep, len(gaugeSteps))
	copy(steps, gaugeSteps)
	return steps
}

// StepFor returns the index of the gauge band containing value. Values below
// the axis fall into the first band and values above it into the last.
func StepFor(value float64) int {
	for i, step := range gaugeSteps {
		if value < step.To {
			return i
		}
	}
	return len(gaugeSteps) - 1
}

package domain

// Scoring weights for reducing an observation to a single scalar.
// These are fixed heuristics, not learned parameters.
const (
	weightAccuracy    = 0.4
	weightSpeed       = 0.2
	weightConsistency = 0.2
	weightEngagement  = 0.2
	weightFrustration = 0.1
)

// PerformanceObservation is a normalized snapshot of a single exercise
// attempt. Every field is expected in [0,1]; out-of-range values from a
// buggy caller are clamped rather than rejected.
type PerformanceObservation struct {
	Accuracy    float64 `json:"accuracy"`
	Speed       float64 `json:"speed"`
	Consistency float64 `json:"consistency"`
	Engagement  float64 `json:"engagement"`
	Frustration float64 `json:"frustration"`
}

// Clamped returns a copy with every field forced into [0,1].
func (o PerformanceObservation) Clamped() PerformanceObservation {
	return PerformanceObservation{
		Accuracy:    clamp01(o.Accuracy),
		Speed:       clamp01(o.Speed),
		Consistency: clamp01(o.Consistency),
		Engagement:  clamp01(o.Engagement),
		Frustration: clamp01(o.Frustration),
	}
}

// Score reduces the observation to a scalar performance score.
// Accuracy dominates; frustration is the only negative contribution,
// so the result lives in roughly [-0.1, 1.0].
func (o PerformanceObservation) Score() float64 {
	c := o.Clamped()
	return weightAccuracy*c.Accuracy +
		weightSpeed*c.Speed +
		weightConsistency*c.Consistency +
		weightEngagement*c.Engagement -
		weightFrustration*c.Frustration
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

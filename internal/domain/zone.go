package domain

// Zone describes where recent performance places the learner relative
// to the current difficulty.
type Zone string

const (
	ZoneTooHard Zone = "too-hard"
	ZoneOptimal Zone = "optimal"
	ZoneTooEasy Zone = "too-easy"
)

// Direction is the adjustment the classifier recommends.
type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
	DirectionMaintain Direction = "maintain"
)

// Decision is the output of zone classification.
type Decision struct {
	ShouldAdjust bool
	Direction    Direction
	Magnitude    float64
	Zone         Zone
}

// Zone classification thresholds over the recent score average.
const (
	strugglingBelow = 0.3
	excellingAbove  = 0.9
	zoneWindow      = 5
	stepMagnitude   = 0.1
)

// ZoneClassifier maps a rolling window of performance scores to an
// adjustment decision.
type ZoneClassifier struct {
	bounds Bounds
}

// NewZoneClassifier creates a classifier for the given difficulty bounds.
func NewZoneClassifier(bounds Bounds) *ZoneClassifier {
	return &ZoneClassifier{bounds: bounds}
}

// Classify inspects the most recent scores (up to 5) and decides whether
// difficulty should move. scores must be non-empty and ordered oldest to
// newest; callers only invoke Classify after recording at least one
// observation.
func (z *ZoneClassifier) Classify(scores []float64, current float64) Decision {
	window := scores
	if len(window) > zoneWindow {
		window = window[len(window)-zoneWindow:]
	}

	var sum float64
	for _, s := range window {
		sum += s
	}
	avg := sum / float64(len(window))

	switch {
	case avg < strugglingBelow && current > z.bounds.Min:
		return Decision{
			ShouldAdjust: true,
			Direction:    DirectionDecrease,
			Magnitude:    stepMagnitude,
			Zone:         ZoneTooHard,
		}
	case avg > excellingAbove && current < z.bounds.Max:
		return Decision{
			ShouldAdjust: true,
			Direction:    DirectionIncrease,
			Magnitude:    stepMagnitude,
			Zone:         ZoneTooEasy,
		}
	default:
		return Decision{Direction: DirectionMaintain, Zone: ZoneOptimal}
	}
}

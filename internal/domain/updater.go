package domain

// DifficultyUpdater applies bounded, rate-limited difficulty updates.
// It is a pure domain service: all state lives with the caller.
type DifficultyUpdater struct {
	bounds Bounds
}

// NewDifficultyUpdater creates an updater for the given bounds.
func NewDifficultyUpdater(bounds Bounds) *DifficultyUpdater {
	return &DifficultyUpdater{bounds: bounds}
}

// Update computes the next difficulty from the current value, the
// classifier's decision, and the triggering observation. The result is
// always in bounds, never more than MaxStep away from current, and
// rounded to 2 decimal places.
func (u *DifficultyUpdater) Update(current float64, d Decision, obs PerformanceObservation) float64 {
	obs = obs.Clamped()

	var target float64
	switch d.Direction {
	case DirectionIncrease:
		// Frustrated learners ramp up more gently.
		rate := d.Magnitude * (1 - obs.Frustration)
		if rate < 0.05 {
			rate = 0.05
		}
		target = u.bounds.Clamp(current + rate)
	case DirectionDecrease:
		// Frustration accelerates the backoff.
		rate := d.Magnitude + obs.Frustration*0.1
		target = u.bounds.Clamp(current - rate)
	default:
		tune := (obs.Consistency-0.5)*0.02 + (obs.Engagement-0.5)*0.02
		target = u.bounds.Clamp(current + tune)
	}

	// No jarring jumps: cap the delta regardless of the raw target.
	target = clamp(target, current-MaxStep, current+MaxStep)

	return RoundDifficulty(u.bounds.Clamp(target))
}

package session

import (
	"time"

	"github.com/felixgeelhaar/pacer/internal/domain"
)

// DeriveParams carries the module expectations used to normalize an
// attempt's raw signals.
type DeriveParams struct {
	ExpectedDuration time.Duration // module's expected completion time
	MaxHints         int           // hint budget for the module
}

// DeriveObservation reduces an attempt's raw signals to a normalized
// performance observation for the difficulty controller.
//
// The mapping is deliberately simple:
//   - accuracy is the graded score itself
//   - speed compares elapsed time against the module's expectation
//   - consistency falls with the error rate across runs
//   - engagement rises with activity but falls once runs pile up
//     without completion
//   - frustration combines hint exhaustion with the error rate
func DeriveObservation(a *Attempt, p DeriveParams) domain.PerformanceObservation {
	obs := domain.PerformanceObservation{Accuracy: a.Score}

	// Speed: finishing at the expected pace scores 1.0, slower decays
	// toward zero. Without an expectation, assume a neutral pace.
	if p.ExpectedDuration > 0 {
		elapsed := a.Elapsed()
		if elapsed <= 0 {
			elapsed = time.Second
		}
		obs.Speed = float64(p.ExpectedDuration) / float64(elapsed)
		if obs.Speed > 1 {
			obs.Speed = 1
		}
	} else {
		obs.Speed = 0.5
	}

	// Consistency: error-free runs are fully consistent.
	if a.RunCount > 0 {
		errorRate := float64(a.ErrorCount) / float64(a.RunCount)
		if errorRate > 1 {
			errorRate = 1
		}
		obs.Consistency = 1 - errorRate
	} else {
		obs.Consistency = 0.5
	}

	// Engagement: a handful of runs shows effort; a pile of runs on an
	// unfinished attempt reads as churn, not engagement.
	switch {
	case a.RunCount == 0:
		obs.Engagement = 0.2
	case a.RunCount <= 5:
		obs.Engagement = 0.5 + 0.1*float64(a.RunCount)
	default:
		obs.Engagement = 1 - 0.05*float64(a.RunCount-5)
	}

	// Frustration: hint exhaustion plus errors.
	hintPressure := 0.0
	if p.MaxHints > 0 {
		hintPressure = float64(a.HintCount) / float64(p.MaxHints)
		if hintPressure > 1 {
			hintPressure = 1
		}
	}
	errorPressure := 0.0
	if a.RunCount > 0 {
		errorPressure = float64(a.ErrorCount) / float64(a.RunCount)
		if errorPressure > 1 {
			errorPressure = 1
		}
	}
	obs.Frustration = 0.5*hintPressure + 0.5*errorPressure
	if a.Status == StatusAbandoned {
		obs.Frustration = obs.Frustration*0.5 + 0.5 // giving up is the strongest signal
		obs.Accuracy = 0
	}

	return obs.Clamped()
}

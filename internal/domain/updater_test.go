package domain

import (
	"math"
	"testing"
)

func TestDifficultyUpdater_Increase(t *testing.T) {
	updater := NewDifficultyUpdater(DefaultBounds())

	t.Run("calm learner gets full step", func(t *testing.T) {
		obs := PerformanceObservation{Accuracy: 0.95, Speed: 0.9, Consistency: 0.85, Engagement: 0.8, Frustration: 0.1}
		d := Decision{ShouldAdjust: true, Direction: DirectionIncrease, Magnitude: 0.1}

		got := updater.Update(0.5, d, obs)
		want := 0.59 // 0.5 + 0.1*(1-0.1)
		if got != want {
			t.Errorf("Update() = %f, want %f", got, want)
		}
	})

	t.Run("frustrated learner still moves at least 0.05", func(t *testing.T) {
		obs := PerformanceObservation{Accuracy: 0.95, Frustration: 0.9}
		d := Decision{ShouldAdjust: true, Direction: DirectionIncrease, Magnitude: 0.1}

		got := updater.Update(0.5, d, obs)
		if got != 0.55 {
			t.Errorf("Update() = %f, want 0.55", got)
		}
	})

	t.Run("clamped at max", func(t *testing.T) {
		d := Decision{ShouldAdjust: true, Direction: DirectionIncrease, Magnitude: 0.1}
		got := updater.Update(0.98, d, PerformanceObservation{})
		if got != 1.0 {
			t.Errorf("Update() = %f, want 1.0", got)
		}
	})
}

func TestDifficultyUpdater_Decrease(t *testing.T) {
	updater := NewDifficultyUpdater(DefaultBounds())

	t.Run("frustration accelerates backoff", func(t *testing.T) {
		obs := PerformanceObservation{Accuracy: 0.2, Speed: 0.3, Consistency: 0.25, Engagement: 0.4, Frustration: 0.8}
		d := Decision{ShouldAdjust: true, Direction: DirectionDecrease, Magnitude: 0.1}

		// raw target 0.5 - (0.1 + 0.8*0.1) = 0.32, capped at 0.5 - 0.15
		got := updater.Update(0.5, d, obs)
		if got != 0.35 {
			t.Errorf("Update() = %f, want 0.35 (max step cap)", got)
		}
	})

	t.Run("clamped at min", func(t *testing.T) {
		d := Decision{ShouldAdjust: true, Direction: DirectionDecrease, Magnitude: 0.1}
		got := updater.Update(0.12, d, PerformanceObservation{})
		if got != 0.1 {
			t.Errorf("Update() = %f, want 0.1", got)
		}
	})
}

func TestDifficultyUpdater_Maintain(t *testing.T) {
	updater := NewDifficultyUpdater(DefaultBounds())

	t.Run("neutral observation holds steady", func(t *testing.T) {
		obs := PerformanceObservation{Consistency: 0.5, Engagement: 0.5}
		got := updater.Update(0.5, Decision{Direction: DirectionMaintain}, obs)
		if got != 0.5 {
			t.Errorf("Update() = %f, want 0.5", got)
		}
	})

	t.Run("high consistency nudges up", func(t *testing.T) {
		obs := PerformanceObservation{Consistency: 1, Engagement: 1}
		got := updater.Update(0.5, Decision{Direction: DirectionMaintain}, obs)
		if got != 0.52 {
			t.Errorf("Update() = %f, want 0.52", got)
		}
	})

	t.Run("ten fine-tunes stay within 0.02 per step", func(t *testing.T) {
		obs := PerformanceObservation{Consistency: 0.6, Engagement: 0.6}
		current := 0.5
		for i := 0; i < 10; i++ {
			next := updater.Update(current, Decision{Direction: DirectionMaintain}, obs)
			if math.Abs(next-current) > 0.02+1e-9 {
				t.Fatalf("fine-tune moved %f in one step", math.Abs(next-current))
			}
			current = next
		}
	})
}

func TestDifficultyUpdater_MaxStepInvariant(t *testing.T) {
	updater := NewDifficultyUpdater(DefaultBounds())

	observations := []PerformanceObservation{
		{Accuracy: 1, Speed: 1, Consistency: 1, Engagement: 1},
		{Frustration: 1},
		{Accuracy: 0.5, Speed: 0.5, Consistency: 0.5, Engagement: 0.5, Frustration: 0.5},
	}
	decisions := []Decision{
		{ShouldAdjust: true, Direction: DirectionIncrease, Magnitude: 0.1},
		{ShouldAdjust: true, Direction: DirectionDecrease, Magnitude: 0.1},
		{Direction: DirectionMaintain},
	}

	for _, obs := range observations {
		for _, d := range decisions {
			for _, current := range []float64{0.1, 0.3, 0.5, 0.8, 1.0} {
				got := updater.Update(current, d, obs)
				if got < 0.1 || got > 1.0 {
					t.Errorf("Update(%f, %s) = %f out of bounds", current, d.Direction, got)
				}
				if math.Abs(got-current) > MaxStep+1e-9 {
					t.Errorf("Update(%f, %s) = %f exceeds max step", current, d.Direction, got)
				}
			}
		}
	}
}

package session

import (
	"math"
	"testing"
	"time"
)

// finishedAttempt builds a completed attempt with a controlled elapsed time.
func finishedAttempt(elapsed time.Duration) *Attempt {
	start := time.Now().Add(-elapsed)
	end := start.Add(elapsed)
	return &Attempt{
		ID:          "a1",
		UserID:      "ada",
		ModuleID:    "branches",
		Status:      StatusCompleted,
		StartedAt:   start,
		CompletedAt: &end,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDeriveObservation_Speed(t *testing.T) {
	tests := []struct {
		name     string
		expected time.Duration
		elapsed  time.Duration
		want     float64
	}{
		{"on pace", 10 * time.Minute, 10 * time.Minute, 1.0},
		{"faster than expected caps at one", 10 * time.Minute, 5 * time.Minute, 1.0},
		{"twice as slow", 10 * time.Minute, 20 * time.Minute, 0.5},
		{"no expectation is neutral", 0, 10 * time.Minute, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := finishedAttempt(tt.elapsed)
			obs := DeriveObservation(a, DeriveParams{ExpectedDuration: tt.expected})
			if !almostEqual(obs.Speed, tt.want) {
				t.Errorf("Speed = %f, want %f", obs.Speed, tt.want)
			}
		})
	}
}

func TestDeriveObservation_Consistency(t *testing.T) {
	a := finishedAttempt(5 * time.Minute)
	a.RunCount = 4
	a.ErrorCount = 1

	obs := DeriveObservation(a, DeriveParams{})
	if !almostEqual(obs.Consistency, 0.75) {
		t.Errorf("Consistency = %f, want 0.75", obs.Consistency)
	}

	// No runs means no evidence either way.
	a.RunCount = 0
	a.ErrorCount = 0
	obs = DeriveObservation(a, DeriveParams{})
	if !almostEqual(obs.Consistency, 0.5) {
		t.Errorf("Consistency with no runs = %f, want 0.5", obs.Consistency)
	}
}

func TestDeriveObservation_Engagement(t *testing.T) {
	tests := []struct {
		runs int
		want float64
	}{
		{0, 0.2},
		{1, 0.6},
		{3, 0.8},
		{5, 1.0},
		{7, 0.9},  // churn past five runs
		{15, 0.5}, // heavy churn
	}

	for _, tt := range tests {
		a := finishedAttempt(5 * time.Minute)
		a.RunCount = tt.runs
		obs := DeriveObservation(a, DeriveParams{})
		if !almostEqual(obs.Engagement, tt.want) {
			t.Errorf("runs=%d: Engagement = %f, want %f", tt.runs, obs.Engagement, tt.want)
		}
	}
}

func TestDeriveObservation_Frustration(t *testing.T) {
	a := finishedAttempt(5 * time.Minute)
	a.HintCount = 3
	a.RunCount = 4
	a.ErrorCount = 2

	// 0.5*(3/3) + 0.5*(2/4) = 0.75
	obs := DeriveObservation(a, DeriveParams{MaxHints: 3})
	if !almostEqual(obs.Frustration, 0.75) {
		t.Errorf("Frustration = %f, want 0.75", obs.Frustration)
	}

	// Clean attempt has no frustration signal.
	calm := finishedAttempt(5 * time.Minute)
	calm.RunCount = 2
	obs = DeriveObservation(calm, DeriveParams{MaxHints: 3})
	if !almostEqual(obs.Frustration, 0) {
		t.Errorf("Frustration = %f, want 0", obs.Frustration)
	}
}

func TestDeriveObservation_Abandoned(t *testing.T) {
	a := finishedAttempt(5 * time.Minute)
	a.Status = StatusAbandoned
	a.Score = 0.6 // partial credit is discarded on abandonment
	a.RunCount = 4
	a.ErrorCount = 2

	obs := DeriveObservation(a, DeriveParams{})
	if obs.Accuracy != 0 {
		t.Errorf("Accuracy = %f, want 0", obs.Accuracy)
	}
	// errorPressure 0.5 -> frustration 0.25, then 0.25*0.5+0.5 = 0.625
	if !almostEqual(obs.Frustration, 0.625) {
		t.Errorf("Frustration = %f, want 0.625", obs.Frustration)
	}
}

func TestDeriveObservation_Clamped(t *testing.T) {
	a := finishedAttempt(5 * time.Minute)
	a.Score = 1.4 // a grader bug should not leak out of range

	obs := DeriveObservation(a, DeriveParams{})
	if obs.Accuracy != 1 {
		t.Errorf("Accuracy = %f, want 1", obs.Accuracy)
	}
}

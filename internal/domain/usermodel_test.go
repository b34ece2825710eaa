package domain

import (
	"math"
	"testing"
)

func TestNewUserModel(t *testing.T) {
	model := NewUserModel("user-1")

	if model.UserID != "user-1" {
		t.Errorf("UserID = %s, want user-1", model.UserID)
	}
	for name, v := range map[string]float64{
		"LearningSpeed":        model.LearningSpeed,
		"Persistence":          model.Persistence,
		"FrustrationTolerance": model.FrustrationTolerance,
		"PreferredDifficulty":  model.PreferredDifficulty,
	} {
		if v != 0.5 {
			t.Errorf("%s = %f, want 0.5", name, v)
		}
	}
	if model.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}
}

func TestUserModel_Apply(t *testing.T) {
	t.Run("smoothing moves traits toward observation", func(t *testing.T) {
		model := NewUserModel("u")
		obs := PerformanceObservation{Accuracy: 0.9, Speed: 1, Engagement: 1, Frustration: 0}

		model.Apply(obs)

		if math.Abs(model.LearningSpeed-0.55) > 1e-9 {
			t.Errorf("LearningSpeed = %f, want 0.55", model.LearningSpeed)
		}
		if math.Abs(model.Persistence-0.55) > 1e-9 {
			t.Errorf("Persistence = %f, want 0.55", model.Persistence)
		}
		if math.Abs(model.FrustrationTolerance-0.55) > 1e-9 {
			t.Errorf("FrustrationTolerance = %f, want 0.55", model.FrustrationTolerance)
		}
	})

	t.Run("confident accurate attempt raises preferred difficulty", func(t *testing.T) {
		model := NewUserModel("u")
		model.Apply(PerformanceObservation{Accuracy: 0.8, Frustration: 0.1})

		if math.Abs(model.PreferredDifficulty-0.52) > 1e-9 {
			t.Errorf("PreferredDifficulty = %f, want 0.52", model.PreferredDifficulty)
		}
	})

	t.Run("poor or frustrated attempt lowers preferred difficulty", func(t *testing.T) {
		model := NewUserModel("u")
		model.Apply(PerformanceObservation{Accuracy: 0.3, Frustration: 0.2})

		if math.Abs(model.PreferredDifficulty-0.48) > 1e-9 {
			t.Errorf("PreferredDifficulty = %f, want 0.48", model.PreferredDifficulty)
		}
	})

	t.Run("middling attempt leaves preferred difficulty alone", func(t *testing.T) {
		model := NewUserModel("u")
		model.Apply(PerformanceObservation{Accuracy: 0.55, Frustration: 0.5})

		if model.PreferredDifficulty != 0.5 {
			t.Errorf("PreferredDifficulty = %f, want 0.5", model.PreferredDifficulty)
		}
	})
}

func TestUserModel_StaysInRange(t *testing.T) {
	model := NewUserModel("u")
	extremes := []PerformanceObservation{
		{Accuracy: 1, Speed: 1, Consistency: 1, Engagement: 1},
		{Frustration: 1},
		{Accuracy: 2, Speed: -1, Engagement: 5, Frustration: -3},
	}

	for i := 0; i < 200; i++ {
		model.Apply(extremes[i%len(extremes)])

		for name, v := range map[string]float64{
			"LearningSpeed":        model.LearningSpeed,
			"Persistence":          model.Persistence,
			"FrustrationTolerance": model.FrustrationTolerance,
			"PreferredDifficulty":  model.PreferredDifficulty,
		} {
			if v < 0 || v > 1 {
				t.Fatalf("iteration %d: %s = %f out of [0,1]", i, name, v)
			}
		}
	}
}

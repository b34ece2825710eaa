package domain

import "time"

// Exponential smoothing rate for user model traits.
const modelLearningRate = 0.1

// Step size for preferred difficulty adjustments.
const preferredStep = 0.02

// UserModel is a slowly-adapting per-user trait profile. It biases
// difficulty predictions for modules the user has not started yet.
type UserModel struct {
	UserID               string    `json:"user_id"`
	LearningSpeed        float64   `json:"learning_speed"`
	Persistence          float64   `json:"persistence"`
	FrustrationTolerance float64   `json:"frustration_tolerance"`
	PreferredDifficulty  float64   `json:"preferred_difficulty"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// NewUserModel creates a model with all traits at the neutral midpoint.
func NewUserModel(userID string) *UserModel {
	return &UserModel{
		UserID:               userID,
		LearningSpeed:        0.5,
		Persistence:          0.5,
		FrustrationTolerance: 0.5,
		PreferredDifficulty:  0.5,
		UpdatedAt:            time.Now(),
	}
}

// Apply folds an observation into the model. The three trait fields use
// exponential smoothing; preferred difficulty step-adjusts on accuracy
// and frustration thresholds. All fields stay in [0,1].
func (m *UserModel) Apply(obs PerformanceObservation) {
	obs = obs.Clamped()
	a := modelLearningRate

	m.LearningSpeed = clamp01(m.LearningSpeed*(1-a) + obs.Speed*a)
	m.Persistence = clamp01(m.Persistence*(1-a) + obs.Engagement*a)
	m.FrustrationTolerance = clamp01(m.FrustrationTolerance*(1-a) + (1-obs.Frustration)*a)

	switch {
	case obs.Accuracy > 0.7 && obs.Frustration < 0.3:
		m.PreferredDifficulty = clamp(m.PreferredDifficulty+preferredStep, 0.1, 1.0)
	case obs.Accuracy < 0.4 || obs.Frustration > 0.7:
		m.PreferredDifficulty = clamp(m.PreferredDifficulty-preferredStep, 0.1, 1.0)
	}

	m.UpdatedAt = time.Now()
}

package domain

// DifficultyPredictor seeds an initial difficulty for a (user, module)
// pair before any observations exist.
type DifficultyPredictor struct {
	bounds Bounds
}

// NewDifficultyPredictor creates a predictor for the given bounds.
func NewDifficultyPredictor(bounds Bounds) *DifficultyPredictor {
	return &DifficultyPredictor{bounds: bounds}
}

// Predict combines the skill-level baseline, the user model (may be
// nil for new users), and the module's complexity factor.
func (p *DifficultyPredictor) Predict(skill SkillLevel, model *UserModel, complexity float64) float64 {
	difficulty := skill.BaseDifficulty()

	if model != nil {
		switch {
		case model.LearningSpeed > 0.8:
			difficulty += 0.1
		case model.LearningSpeed < 0.3:
			difficulty -= 0.1
		}
		switch {
		case model.Persistence > 0.8:
			difficulty += 0.05
		case model.Persistence < 0.3:
			difficulty -= 0.05
		}
		switch {
		case model.FrustrationTolerance > 0.8:
			difficulty += 0.05
		case model.FrustrationTolerance < 0.3:
			difficulty -= 0.1
		}
	}

	return RoundDifficulty(p.bounds.Clamp(difficulty * complexity))
}

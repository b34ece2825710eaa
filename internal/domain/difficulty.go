package domain

import "math"

// DefaultDifficulty is used when no history or prediction exists for a
// (user, module) pair.
const DefaultDifficulty = 0.5

// MaxStep caps how far a single adjustment may move difficulty. Larger
// raw targets are truncated so learners never see jarring jumps.
const MaxStep = 0.15

// Bounds constrain every difficulty value the controller produces.
type Bounds struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// DefaultBounds returns the standard difficulty range.
func DefaultBounds() Bounds {
	return Bounds{Min: 0.1, Max: 1.0}
}

// Clamp forces a difficulty value into the bounds.
func (b Bounds) Clamp(v float64) float64 {
	return clamp(v, b.Min, b.Max)
}

// RoundDifficulty normalizes a difficulty value to 2 decimal places.
func RoundDifficulty(v float64) float64 {
	return math.Round(v*100) / 100
}

// SkillLevel is a learner's self-declared or assessed proficiency tier.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillExpert       SkillLevel = "expert"
)

// BaseDifficulty returns the starting difficulty for a skill tier,
// before any user model or module complexity is applied.
func (s SkillLevel) BaseDifficulty() float64 {
	switch s {
	case SkillBeginner:
		return 0.2
	case SkillIntermediate:
		return 0.4
	case SkillAdvanced:
		return 0.6
	case SkillExpert:
		return 0.8
	default:
		return 0.4
	}
}

// Valid reports whether the skill level is one of the known tiers.
func (s SkillLevel) Valid() bool {
	switch s {
	case SkillBeginner, SkillIntermediate, SkillAdvanced, SkillExpert:
		return true
	}
	return false
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Key identifies the controller state for one user in one module.
// A struct key avoids the collision risk of concatenated string keys
// (user IDs may contain any separator).
type Key struct {
	UserID   string
	ModuleID string
}

// AdjustmentReason explains why a difficulty adjustment happened.
type AdjustmentReason string

const (
	ReasonStruggling AdjustmentReason = "struggling"
	ReasonExcelling  AdjustmentReason = "excelling"
	ReasonFineTune   AdjustmentReason = "fine-tune"
)

// DifficultyAdjustment records one difficulty change. Records are
// immutable once created; the latest entry's New value is the
// authoritative current difficulty for its (user, module) pair.
type DifficultyAdjustment struct {
	ID          uuid.UUID              `json:"id"`
	UserID      string                 `json:"user_id"`
	ModuleID    string                 `json:"module_id"`
	Previous    float64                `json:"previous"`
	New         float64                `json:"new"`
	Reason      AdjustmentReason       `json:"reason"`
	Zone        Zone                   `json:"zone"`
	Observation PerformanceObservation `json:"observation"`
	CreatedAt   time.Time              `json:"created_at"`
}

// NewDifficultyAdjustment creates an adjustment record.
func NewDifficultyAdjustment(key Key, previous, next float64, d Decision, obs PerformanceObservation) *DifficultyAdjustment {
	return &DifficultyAdjustment{
		ID:          uuid.New(),
		UserID:      key.UserID,
		ModuleID:    key.ModuleID,
		Previous:    previous,
		New:         next,
		Reason:      reasonFor(d),
		Zone:        d.Zone,
		Observation: obs,
		CreatedAt:   time.Now(),
	}
}

func reasonFor(d Decision) AdjustmentReason {
	switch d.Direction {
	case DirectionDecrease:
		return ReasonStruggling
	case DirectionIncrease:
		return ReasonExcelling
	default:
		return ReasonFineTune
	}
}

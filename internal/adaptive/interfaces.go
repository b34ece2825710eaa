package adaptive

import (
	"context"

	"github.com/felixgeelhaar/pacer/internal/domain"
)

// Store persists user models and adjustment records. The controller's
// in-memory state stays authoritative; a store is a write-through
// collaborator so daemon restarts do not lose the learner profile.
type Store interface {
	SaveModel(ctx context.Context, m *domain.UserModel) error
	GetModel(ctx context.Context, userID string) (*domain.UserModel, error)
	SaveAdjustment(ctx context.Context, adj *domain.DifficultyAdjustment) error
	ListAdjustments(ctx context.Context, key domain.Key, limit int) ([]*domain.DifficultyAdjustment, error)
}

// Catalog supplies per-module metadata the controller needs for
// predictions.
type Catalog interface {
	ComplexityFactor(moduleID string) (float64, error)
}

// Controller is the interface the daemon handlers and queue consumer
// program against.
type Controller interface {
	RecordObservation(ctx context.Context, userID, moduleID string, obs domain.PerformanceObservation) (*domain.DifficultyAdjustment, error)
	PredictInitialDifficulty(ctx context.Context, userID, moduleID string, skill domain.SkillLevel) (float64, error)
	StartModule(ctx context.Context, userID, moduleID string, skill domain.SkillLevel) (float64, error)
	CurrentDifficulty(userID, moduleID string) float64
	History(userID, moduleID string) []*domain.DifficultyAdjustment
	Model(userID string) (*domain.UserModel, error)
	Report(userID string) *ProgressReport
}

// Ensure Service implements Controller
var _ Controller = (*Service)(nil)

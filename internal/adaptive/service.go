// Package adaptive implements the closed-loop difficulty controller.
// It ingests per-exercise performance observations and maintains, per
// (user, module) pair, a bounded score history, an adjustment log, and
// a slowly-adapting per-user trait model.
package adaptive

import (
	"context"
	"log/slog"
	"sync"

	"github.com/felixgeelhaar/pacer/internal/domain"
)

// Score history capacity per (user, module) pair.
const historyCapacity = 20

// Config holds controller settings.
type Config struct {
	Bounds  domain.Bounds
	Store   Store   // optional write-through persistence
	Catalog Catalog // optional, needed for predictions
	Logger  *slog.Logger
}

// Service is the difficulty adjustment controller. It exclusively owns
// its maps; adjustments for a single (user, module) pair are applied in
// the order observations arrive because all mutation happens under one
// lock. Callers should still avoid submitting concurrent observations
// for the same pair if arrival order matters to them.
type Service struct {
	bounds     domain.Bounds
	classifier *domain.ZoneClassifier
	updater    *domain.DifficultyUpdater
	predictor  *domain.DifficultyPredictor

	store   Store
	catalog Catalog
	logger  *slog.Logger

	mu       sync.RWMutex
	windows  map[domain.Key]*scoreWindow
	current  map[domain.Key]float64
	history  map[domain.Key][]*domain.DifficultyAdjustment
	models   map[string]*domain.UserModel
	lastZone map[domain.Key]domain.Zone
}

// NewService creates a controller with the given configuration.
func NewService(cfg Config) *Service {
	bounds := cfg.Bounds
	if bounds == (domain.Bounds{}) {
		bounds = domain.DefaultBounds()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		bounds:     bounds,
		classifier: domain.NewZoneClassifier(bounds),
		updater:    domain.NewDifficultyUpdater(bounds),
		predictor:  domain.NewDifficultyPredictor(bounds),
		store:      cfg.Store,
		catalog:    cfg.Catalog,
		logger:     logger,
		windows:    make(map[domain.Key]*scoreWindow),
		current:    make(map[domain.Key]float64),
		history:    make(map[domain.Key][]*domain.DifficultyAdjustment),
		models:     make(map[string]*domain.UserModel),
		lastZone:   make(map[domain.Key]domain.Zone),
	}
}

// RecordObservation runs one controller step: score the observation,
// append it to the rolling window, classify the zone, apply a bounded
// difficulty update, and fold the observation into the user model.
// It never fails on well-formed input; out-of-range fields are clamped.
func (s *Service) RecordObservation(ctx context.Context, userID, moduleID string, obs domain.PerformanceObservation) (*domain.DifficultyAdjustment, error) {
	obs = obs.Clamped()
	key := domain.Key{UserID: userID, ModuleID: moduleID}

	s.mu.Lock()
	window, ok := s.windows[key]
	if !ok {
		window = newScoreWindow(historyCapacity)
		s.windows[key] = window
	}
	window.Push(obs.Score())

	previous := s.currentLocked(key)
	decision := s.classifier.Classify(window.Values(), previous)
	next := s.updater.Update(previous, decision, obs)

	adj := domain.NewDifficultyAdjustment(key, previous, next, decision, obs)
	s.current[key] = next
	s.history[key] = append(s.history[key], adj)
	s.lastZone[key] = decision.Zone

	model, ok := s.models[userID]
	if !ok {
		model = domain.NewUserModel(userID)
		s.models[userID] = model
	}
	model.Apply(obs)
	modelCopy := *model
	s.mu.Unlock()

	s.logger.Debug("difficulty adjusted",
		"user", userID,
		"module", moduleID,
		"previous", previous,
		"new", next,
		"reason", adj.Reason,
		"zone", decision.Zone,
	)

	s.persist(ctx, adj, &modelCopy)
	return adj, nil
}

// StartModule seeds the difficulty for a module the user has not
// attempted yet and returns it. An existing difficulty is left alone.
func (s *Service) StartModule(ctx context.Context, userID, moduleID string, skill domain.SkillLevel) (float64, error) {
	key := domain.Key{UserID: userID, ModuleID: moduleID}

	s.mu.Lock()
	if existing, ok := s.current[key]; ok {
		s.mu.Unlock()
		return existing, nil
	}
	s.mu.Unlock()

	seed, err := s.PredictInitialDifficulty(ctx, userID, moduleID, skill)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	// Re-check: an observation may have raced the prediction.
	if existing, ok := s.current[key]; ok {
		seed = existing
	} else {
		s.current[key] = seed
	}
	s.mu.Unlock()

	return seed, nil
}

// PredictInitialDifficulty recommends a starting difficulty from the
// skill-level baseline, the stored user model, and the module's
// complexity factor. It does not change controller state.
func (s *Service) PredictInitialDifficulty(ctx context.Context, userID, moduleID string, skill domain.SkillLevel) (float64, error) {
	complexity := 1.0
	if s.catalog != nil {
		factor, err := s.catalog.ComplexityFactor(moduleID)
		if err != nil {
			return 0, err
		}
		complexity = factor
	}

	s.mu.RLock()
	model := s.models[userID]
	var snapshot *domain.UserModel
	if model != nil {
		copied := *model
		snapshot = &copied
	}
	s.mu.RUnlock()

	return s.predictor.Predict(skill, snapshot, complexity), nil
}

// CurrentDifficulty returns the authoritative difficulty for a pair.
// Unknown pairs default to the neutral midpoint rather than erroring.
func (s *Service) CurrentDifficulty(userID, moduleID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentLocked(domain.Key{UserID: userID, ModuleID: moduleID})
}

func (s *Service) currentLocked(key domain.Key) float64 {
	if v, ok := s.current[key]; ok {
		return v
	}
	return domain.DefaultDifficulty
}

// History returns a copy of the adjustment log for a pair, oldest first.
func (s *Service) History(userID, moduleID string) []*domain.DifficultyAdjustment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.history[domain.Key{UserID: userID, ModuleID: moduleID}]
	out := make([]*domain.DifficultyAdjustment, len(entries))
	copy(out, entries)
	return out
}

// Model returns a copy of a user's trait model.
func (s *Service) Model(userID string) (*domain.UserModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	model, ok := s.models[userID]
	if !ok {
		return nil, domain.ErrUserModelNotFound
	}
	copied := *model
	return &copied, nil
}

// RestoreModel loads a previously persisted user model into the
// controller, typically at daemon startup. Existing in-memory state
// for the user wins.
func (s *Service) RestoreModel(model *domain.UserModel) {
	if model == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.models[model.UserID]; !ok {
		copied := *model
		s.models[model.UserID] = &copied
	}
}

// persist writes through to the configured store. Store failures are
// logged, not returned: the in-memory state is authoritative and the
// controller stays total.
func (s *Service) persist(ctx context.Context, adj *domain.DifficultyAdjustment, model *domain.UserModel) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveAdjustment(ctx, adj); err != nil {
		s.logger.Warn("persist adjustment failed", "user", adj.UserID, "module", adj.ModuleID, "error", err)
	}
	if err := s.store.SaveModel(ctx, model); err != nil {
		s.logger.Warn("persist user model failed", "user", model.UserID, "error", err)
	}
}

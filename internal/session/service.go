package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/pacer/internal/adaptive"
	"github.com/felixgeelhaar/pacer/internal/catalog"
	"github.com/felixgeelhaar/pacer/internal/domain"
)

var (
	ErrNotFound  = errors.New("attempt not found")
	ErrNotActive = errors.New("attempt is not active")
)

// Service manages exercise attempts and feeds their outcomes to the
// difficulty controller.
type Service struct {
	store      *Store
	registry   *catalog.Registry
	controller adaptive.Controller
	logger     *slog.Logger
}

// NewService creates a new attempt service
func NewService(store *Store, registry *catalog.Registry, controller adaptive.Controller, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:      store,
		registry:   registry,
		controller: controller,
		logger:     logger,
	}
}

// Start begins an attempt on a module and seeds the pair's difficulty
// from the module's skill level if this is the user's first contact.
func (s *Service) Start(ctx context.Context, userID, moduleID string) (*Attempt, float64, error) {
	module, err := s.registry.Get(moduleID)
	if err != nil {
		return nil, 0, err
	}

	difficulty, err := s.controller.StartModule(ctx, userID, moduleID, module.SkillLevel)
	if err != nil {
		return nil, 0, fmt.Errorf("seed difficulty: %w", err)
	}

	attempt := NewAttempt(userID, moduleID)
	if err := s.store.Save(attempt); err != nil {
		return nil, 0, fmt.Errorf("save attempt: %w", err)
	}

	s.logger.Info("attempt started",
		"attempt", attempt.ID,
		"user", userID,
		"module", moduleID,
		"difficulty", difficulty,
	)
	return attempt, difficulty, nil
}

// RecordRun counts a code run (and its errors) against an attempt.
func (s *Service) RecordRun(ctx context.Context, attemptID string, errs []string) (*Attempt, error) {
	attempt, err := s.activeAttempt(attemptID)
	if err != nil {
		return nil, err
	}

	attempt.RecordRun(errs)
	if err := s.store.Save(attempt); err != nil {
		return nil, fmt.Errorf("save attempt: %w", err)
	}
	return attempt, nil
}

// RecordHint counts a delivered hint against an attempt.
func (s *Service) RecordHint(ctx context.Context, attemptID string) (*Attempt, error) {
	attempt, err := s.activeAttempt(attemptID)
	if err != nil {
		return nil, err
	}

	attempt.RecordHint()
	if err := s.store.Save(attempt); err != nil {
		return nil, fmt.Errorf("save attempt: %w", err)
	}
	return attempt, nil
}

// Complete finishes an attempt with a graded score, derives the
// performance observation, and runs one controller step. The returned
// adjustment carries the difficulty for the next exercise.
func (s *Service) Complete(ctx context.Context, attemptID string, score float64, success bool) (*domain.DifficultyAdjustment, error) {
	attempt, err := s.activeAttempt(attemptID)
	if err != nil {
		return nil, err
	}

	attempt.Complete(score, success)
	return s.finish(ctx, attempt)
}

// Abandon gives up on an attempt. Abandonment still feeds the
// controller: it is the strongest struggling signal available.
func (s *Service) Abandon(ctx context.Context, attemptID string) (*domain.DifficultyAdjustment, error) {
	attempt, err := s.activeAttempt(attemptID)
	if err != nil {
		return nil, err
	}

	attempt.Abandon()
	return s.finish(ctx, attempt)
}

// Get retrieves an attempt by ID.
func (s *Service) Get(attemptID string) (*Attempt, error) {
	return s.store.Get(attemptID)
}

func (s *Service) activeAttempt(attemptID string) (*Attempt, error) {
	attempt, err := s.store.Get(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != StatusActive {
		return nil, ErrNotActive
	}
	return attempt, nil
}

func (s *Service) finish(ctx context.Context, attempt *Attempt) (*domain.DifficultyAdjustment, error) {
	if err := s.store.Save(attempt); err != nil {
		return nil, fmt.Errorf("save attempt: %w", err)
	}

	params := DeriveParams{}
	if module, err := s.registry.Get(attempt.ModuleID); err == nil {
		params.ExpectedDuration = module.ExpectedDuration.Std()
		params.MaxHints = module.MaxHints
	}

	obs := DeriveObservation(attempt, params)
	adj, err := s.controller.RecordObservation(ctx, attempt.UserID, attempt.ModuleID, obs)
	if err != nil {
		return nil, fmt.Errorf("record observation: %w", err)
	}

	s.logger.Info("attempt finished",
		"attempt", attempt.ID,
		"status", attempt.Status,
		"score", attempt.Score,
		"difficulty", adj.New,
		"reason", adj.Reason,
	)
	return adj, nil
}

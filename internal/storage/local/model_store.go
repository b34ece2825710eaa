package local

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/felixgeelhaar/pacer/internal/adaptive"
	"github.com/felixgeelhaar/pacer/internal/domain"
)

// Ensure ModelStore implements the controller's store contract
var _ adaptive.Store = (*ModelStore)(nil)

const (
	collectionModels      = "models"
	collectionAdjustments = "adjustments"

	// Adjustments kept per user/module pair. Old entries roll off.
	adjustmentHistoryCap = 100
)

// ModelStore persists user models and adjustment records as JSON
// documents. It backs the daemon's default storage mode, where no
// database is available.
type ModelStore struct {
	store *Store
}

// NewModelStore creates a model store rooted at basePath.
func NewModelStore(basePath string) (*ModelStore, error) {
	store, err := NewStore(basePath)
	if err != nil {
		return nil, err
	}
	return &ModelStore{store: store}, nil
}

// SaveModel persists a user model, replacing any previous version.
func (s *ModelStore) SaveModel(ctx context.Context, m *domain.UserModel) error {
	return s.store.Save(collectionModels, encodeID(m.UserID), m)
}

// GetModel retrieves a user model.
func (s *ModelStore) GetModel(ctx context.Context, userID string) (*domain.UserModel, error) {
	var m domain.UserModel
	if err := s.store.Load(collectionModels, encodeID(userID), &m); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, domain.ErrUserModelNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListModels returns all persisted user models.
func (s *ModelStore) ListModels(ctx context.Context) ([]*domain.UserModel, error) {
	ids, err := s.store.List(collectionModels)
	if err != nil {
		return nil, err
	}

	models := make([]*domain.UserModel, 0, len(ids))
	for _, id := range ids {
		var m domain.UserModel
		if err := s.store.Load(collectionModels, id, &m); err != nil {
			return nil, fmt.Errorf("load model %s: %w", id, err)
		}
		models = append(models, &m)
	}
	return models, nil
}

// SaveAdjustment appends an adjustment to the pair's history document.
func (s *ModelStore) SaveAdjustment(ctx context.Context, adj *domain.DifficultyAdjustment) error {
	id := encodePair(domain.Key{UserID: adj.UserID, ModuleID: adj.ModuleID})

	var history []*domain.DifficultyAdjustment
	if err := s.store.Load(collectionAdjustments, id, &history); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	history = append(history, adj)
	if len(history) > adjustmentHistoryCap {
		history = history[len(history)-adjustmentHistoryCap:]
	}

	return s.store.Save(collectionAdjustments, id, history)
}

// ListAdjustments returns a pair's adjustments, oldest first. A
// positive limit keeps only the newest entries.
func (s *ModelStore) ListAdjustments(ctx context.Context, key domain.Key, limit int) ([]*domain.DifficultyAdjustment, error) {
	var history []*domain.DifficultyAdjustment
	if err := s.store.Load(collectionAdjustments, encodePair(key), &history); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history, nil
}

// encodeID makes an arbitrary identifier safe as a file name.
func encodeID(id string) string {
	return url.QueryEscape(id)
}

// encodePair joins the escaped IDs with "@". QueryEscape always
// percent-encodes "@", so the separator cannot appear inside either
// escaped part and distinct pairs never map to the same document.
func encodePair(key domain.Key) string {
	return encodeID(key.UserID) + "@" + encodeID(key.ModuleID)
}

package session

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/pacer/internal/storage/local"
)

const collectionAttempts = "attempts"

// Store handles attempt persistence
type Store struct {
	store *local.Store
}

// NewStore creates a new attempt store
func NewStore(basePath string) (*Store, error) {
	store, err := local.NewStore(basePath)
	if err != nil {
		return nil, fmt.Errorf("create local store: %w", err)
	}
	return &Store{store: store}, nil
}

// Save persists an attempt
func (s *Store) Save(a *Attempt) error {
	return s.store.Save(collectionAttempts, a.ID, a)
}

// Get retrieves an attempt by ID
func (s *Store) Get(id string) (*Attempt, error) {
	var a Attempt
	if err := s.store.Load(collectionAttempts, id, &a); err != nil {
		if errors.Is(err, local.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Delete removes an attempt
func (s *Store) Delete(id string) error {
	return s.store.Delete(collectionAttempts, id)
}

// ListActive returns all active attempts
func (s *Store) ListActive() ([]*Attempt, error) {
	ids, err := s.store.List(collectionAttempts)
	if err != nil {
		return nil, err
	}

	var active []*Attempt
	for _, id := range ids {
		a, err := s.Get(id)
		if err != nil {
			continue
		}
		if a.Status == StatusActive {
			active = append(active, a)
		}
	}
	return active, nil
}

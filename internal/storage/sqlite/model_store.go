package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/pacer/internal/adaptive"
	"github.com/felixgeelhaar/pacer/internal/domain"
	"github.com/google/uuid"
)

// ModelStore persists user models and adjustment records in SQLite.
type ModelStore struct {
	db *DB
}

// NewModelStore creates a SQLite-backed store.
func NewModelStore(db *DB) *ModelStore {
	return &ModelStore{db: db}
}

// Ensure ModelStore implements adaptive.Store
var _ adaptive.Store = (*ModelStore)(nil)

// SaveModel upserts a user model.
func (s *ModelStore) SaveModel(ctx context.Context, m *domain.UserModel) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_models (user_id, learning_speed, persistence,
			frustration_tolerance, preferred_difficulty, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			learning_speed=excluded.learning_speed,
			persistence=excluded.persistence,
			frustration_tolerance=excluded.frustration_tolerance,
			preferred_difficulty=excluded.preferred_difficulty,
			updated_at=excluded.updated_at`,
		m.UserID, m.LearningSpeed, m.Persistence,
		m.FrustrationTolerance, m.PreferredDifficulty, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert user model: %w", err)
	}
	return nil
}

// GetModel retrieves a user model by user ID.
func (s *ModelStore) GetModel(ctx context.Context, userID string) (*domain.UserModel, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, learning_speed, persistence, frustration_tolerance,
			preferred_difficulty, updated_at
		FROM user_models WHERE user_id = ?`, userID)

	var m domain.UserModel
	err := row.Scan(&m.UserID, &m.LearningSpeed, &m.Persistence,
		&m.FrustrationTolerance, &m.PreferredDifficulty, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserModelNotFound
		}
		return nil, fmt.Errorf("get user model: %w", err)
	}
	return &m, nil
}

// ListModels returns all persisted user models.
func (s *ModelStore) ListModels(ctx context.Context) ([]*domain.UserModel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, learning_speed, persistence, frustration_tolerance,
			preferred_difficulty, updated_at
		FROM user_models ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list user models: %w", err)
	}
	defer rows.Close()

	var models []*domain.UserModel
	for rows.Next() {
		var m domain.UserModel
		if err := rows.Scan(&m.UserID, &m.LearningSpeed, &m.Persistence,
			&m.FrustrationTolerance, &m.PreferredDifficulty, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user model: %w", err)
		}
		models = append(models, &m)
	}
	return models, rows.Err()
}

// SaveAdjustment inserts an adjustment record. Records are immutable,
// so there is no update path.
func (s *ModelStore) SaveAdjustment(ctx context.Context, adj *domain.DifficultyAdjustment) error {
	observation, err := json.Marshal(adj.Observation)
	if err != nil {
		return fmt.Errorf("marshal observation: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO adjustments (id, user_id, module_id, previous_difficulty,
			new_difficulty, reason, zone, observation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		adj.ID.String(), adj.UserID, adj.ModuleID, adj.Previous,
		adj.New, string(adj.Reason), string(adj.Zone), string(observation), adj.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert adjustment: %w", err)
	}
	return nil
}

// ListAdjustments returns the most recent adjustments for a pair,
// oldest first. limit <= 0 means no limit.
func (s *ModelStore) ListAdjustments(ctx context.Context, key domain.Key, limit int) ([]*domain.DifficultyAdjustment, error) {
	query := `
		SELECT id, user_id, module_id, previous_difficulty, new_difficulty,
			reason, zone, observation, created_at
		FROM adjustments
		WHERE user_id = ? AND module_id = ?
		ORDER BY created_at DESC`
	args := []any{key.UserID, key.ModuleID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()

	var out []*domain.DifficultyAdjustment
	for rows.Next() {
		adj, err := scanAdjustment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, adj)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to oldest-first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func scanAdjustment(rows *sql.Rows) (*domain.DifficultyAdjustment, error) {
	var adj domain.DifficultyAdjustment
	var id, reason, zone, observation string

	if err := rows.Scan(&id, &adj.UserID, &adj.ModuleID, &adj.Previous,
		&adj.New, &reason, &zone, &observation, &adj.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan adjustment: %w", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse adjustment id: %w", err)
	}
	adj.ID = parsed
	adj.Reason = domain.AdjustmentReason(reason)
	adj.Zone = domain.Zone(zone)

	if err := json.Unmarshal([]byte(observation), &adj.Observation); err != nil {
		return nil, fmt.Errorf("unmarshal observation: %w", err)
	}
	return &adj, nil
}

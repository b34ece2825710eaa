// Package postgres implements server-mode persistence on PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/pacer/internal/adaptive"
	"github.com/felixgeelhaar/pacer/internal/domain"
)

// Store persists user models and adjustment records in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a PostgreSQL-backed store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ensure Store implements adaptive.Store
var _ adaptive.Store = (*Store)(nil)

// SaveModel upserts a user model.
func (s *Store) SaveModel(ctx context.Context, m *domain.UserModel) error {
	query := `
		INSERT INTO user_models (user_id, learning_speed, persistence,
			frustration_tolerance, preferred_difficulty, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			learning_speed = EXCLUDED.learning_speed,
			persistence = EXCLUDED.persistence,
			frustration_tolerance = EXCLUDED.frustration_tolerance,
			preferred_difficulty = EXCLUDED.preferred_difficulty,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.pool.Exec(ctx, query,
		m.UserID, m.LearningSpeed, m.Persistence,
		m.FrustrationTolerance, m.PreferredDifficulty, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert user model: %w", err)
	}
	return nil
}

// GetModel retrieves a user model by user ID.
func (s *Store) GetModel(ctx context.Context, userID string) (*domain.UserModel, error) {
	query := `
		SELECT user_id, learning_speed, persistence, frustration_tolerance,
			preferred_difficulty, updated_at
		FROM user_models WHERE user_id = $1
	`
	var m domain.UserModel
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&m.UserID, &m.LearningSpeed, &m.Persistence,
		&m.FrustrationTolerance, &m.PreferredDifficulty, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserModelNotFound
		}
		return nil, fmt.Errorf("get user model: %w", err)
	}
	return &m, nil
}

// SaveAdjustment inserts an adjustment record.
func (s *Store) SaveAdjustment(ctx context.Context, adj *domain.DifficultyAdjustment) error {
	observation, err := json.Marshal(adj.Observation)
	if err != nil {
		return fmt.Errorf("marshal observation: %w", err)
	}

	query := `
		INSERT INTO adjustments (id, user_id, module_id, previous_difficulty,
			new_difficulty, reason, zone, observation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.pool.Exec(ctx, query,
		adj.ID, adj.UserID, adj.ModuleID, adj.Previous,
		adj.New, string(adj.Reason), string(adj.Zone), observation, adj.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert adjustment: %w", err)
	}
	return nil
}

// ListAdjustments returns the most recent adjustments for a pair,
// oldest first. limit <= 0 means no limit.
func (s *Store) ListAdjustments(ctx context.Context, key domain.Key, limit int) ([]*domain.DifficultyAdjustment, error) {
	query := `
		SELECT id, user_id, module_id, previous_difficulty, new_difficulty,
			reason, zone, observation, created_at
		FROM adjustments
		WHERE user_id = $1 AND module_id = $2
		ORDER BY created_at DESC
	`
	args := []any{key.UserID, key.ModuleID}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()

	var out []*domain.DifficultyAdjustment
	for rows.Next() {
		var adj domain.DifficultyAdjustment
		var reason, zone string
		var observation []byte

		if err := rows.Scan(&adj.ID, &adj.UserID, &adj.ModuleID, &adj.Previous,
			&adj.New, &reason, &zone, &observation, &adj.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		adj.Reason = domain.AdjustmentReason(reason)
		adj.Zone = domain.Zone(zone)
		if err := json.Unmarshal(observation, &adj.Observation); err != nil {
			return nil, fmt.Errorf("unmarshal observation: %w", err)
		}
		out = append(out, &adj)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

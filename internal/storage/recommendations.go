package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mintwell/mintwell/internal/common"
	"github.com/mintwell/mintwell/internal/model"
)

// SaveRecommendations inserts recommendations in their composed state.
func (s *SQLiteStorage) SaveRecommendations(ctx context.Context, recs []model.Recommendation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(recs) == 0 {
		return fmt.Errorf("%w: recommendations", ErrEmptySlice)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recommendations
		(id, user_id, catalog_id, kind, title, rationale, action_items, expected_impact, source_persona, enhanced, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range recs {
		r := &recs[i]
		if err := validateStatus(r.Status); err != nil {
			return err
		}
		items, err := json.Marshal(r.ActionItems)
		if err != nil {
			return fmt.Errorf("failed to marshal action items: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.UserID, r.CatalogID, r.Kind, r.Title,
			r.Rationale, string(items), r.ExpectedImpact, r.SourcePersona, r.Enhanced, r.Status, r.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert recommendation %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// GetRecommendationsByUser returns a user's recommendations, newest first.
func (s *SQLiteStorage) GetRecommendationsByUser(ctx context.Context, userID string) ([]model.Recommendation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, catalog_id, kind, title, rationale, action_items, expected_impact, source_persona, enhanced, status, created_at
		FROM recommendations WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Recommendation
	for rows.Next() {
		var r model.Recommendation
		var items string
		var impact, persona sql.NullString
		if err := rows.Scan(&r.ID, &r.UserID, &r.CatalogID, &r.Kind, &r.Title,
			&r.Rationale, &items, &impact, &persona, &r.Enhanced, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		if err := json.Unmarshal([]byte(items), &r.ActionItems); err != nil {
			return nil, fmt.Errorf("failed to unmarshal action items: %w", err)
		}
		r.ExpectedImpact = impact.String
		r.SourcePersona = model.PersonaID(persona.String)
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateRecommendationStatus applies a human-review state change. The state
// machine is enforced here: all non-pending states are terminal.
func (s *SQLiteStorage) UpdateRecommendationStatus(ctx context.Context, recommendationID string, status model.ApprovalStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(recommendationID, "recommendationID"); err != nil {
		return err
	}
	if err := validateStatus(status); err != nil {
		return err
	}

	var current model.ApprovalStatus
	err := s.db.QueryRowContext(ctx, `SELECT status FROM recommendations WHERE id = ?`, recommendationID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("recommendation %s: %w", recommendationID, common.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read recommendation status: %w", err)
	}

	check := model.Recommendation{Status: current}
	if !check.CanTransition(status) {
		return fmt.Errorf("invalid status transition %s -> %s for recommendation %s", current, status, recommendationID)
	}

	_, err = s.db.ExecContext(ctx, `UPDATE recommendations SET status = ? WHERE id = ?`, status, recommendationID)
	if err != nil {
		return fmt.Errorf("failed to update recommendation status: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mintwell/mintwell/internal/model"
)

// GetConsent returns the consent record for a user, or nil when none exists.
// The guardrail engine treats a missing record the same as consent withheld.
func (s *SQLiteStorage) GetConsent(ctx context.Context, userID string) (*model.ConsentRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var record model.ConsentRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, consented, updated_at FROM consent_records WHERE user_id = ?`,
		userID).Scan(&record.UserID, &record.Consented, &record.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query consent: %w", err)
	}
	return &record, nil
}

// SaveConsent upserts a consent record. Calls originate from user action
// outside the pipeline.
func (s *SQLiteStorage) SaveConsent(ctx context.Context, record *model.ConsentRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if err := validateString(record.UserID, "record.UserID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO consent_records (user_id, consented, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			consented = excluded.consented,
			updated_at = excluded.updated_at`,
		record.UserID, record.Consented, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save consent: %w", err)
	}
	return nil
}

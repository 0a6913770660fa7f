package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/mintwell/mintwell/internal/common"
	"github.com/mintwell/mintwell/internal/model"
)

// SaveDecisionTrace persists a completed pipeline trace. Traces are
// append-only: a run ID is never overwritten.
func (s *SQLiteStorage) SaveDecisionTrace(ctx context.Context, trace *model.DecisionTrace) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if trace == nil {
		return fmt.Errorf("trace must not be nil")
	}
	if err := validateString(trace.RunID, "run ID"); err != nil {
		return err
	}
	if err := validateString(trace.UserID, "user ID"); err != nil {
		return err
	}

	signals, err := json.Marshal(trace.Signals)
	if err != nil {
		return fmt.Errorf("failed to marshal signals: %w", err)
	}
	personas, err := json.Marshal(trace.Personas)
	if err != nil {
		return fmt.Errorf("failed to marshal personas: %w", err)
	}
	composer, err := json.Marshal(trace.Composer)
	if err != nil {
		return fmt.Errorf("failed to marshal composer events: %w", err)
	}
	verdicts, err := json.Marshal(trace.Verdicts)
	if err != nil {
		return fmt.Errorf("failed to marshal verdicts: %w", err)
	}

	query := `
		INSERT INTO decision_traces (run_id, user_id, run_at, signals, personas, composer, verdicts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query,
		trace.RunID, trace.UserID, trace.RunAt,
		string(signals), string(personas), string(composer), string(verdicts),
	); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("trace run %s already recorded: %w", trace.RunID, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to save decision trace: %w", err)
	}
	return nil
}

// GetLatestDecisionTrace returns the most recent trace for a user, or nil
// when the user has never been run through the pipeline.
func (s *SQLiteStorage) GetLatestDecisionTrace(ctx context.Context, userID string) (*model.DecisionTrace, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "user ID"); err != nil {
		return nil, err
	}

	query := `
		SELECT run_id, user_id, run_at, signals, personas, composer, verdicts
		FROM decision_traces
		WHERE user_id = ?
		ORDER BY run_at DESC, run_id DESC
		LIMIT 1
	`
	row := s.db.QueryRowContext(ctx, query, userID)
	trace, err := scanTrace(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get decision trace: %w", err)
	}
	return trace, nil
}

// GetDecisionTraces returns every trace for a user, newest first.
func (s *SQLiteStorage) GetDecisionTraces(ctx context.Context, userID string) ([]model.DecisionTrace, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "user ID"); err != nil {
		return nil, err
	}

	query := `
		SELECT run_id, user_id, run_at, signals, personas, composer, verdicts
		FROM decision_traces
		WHERE user_id = ?
		ORDER BY run_at DESC, run_id DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query decision traces: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var traces []model.DecisionTrace
	for rows.Next() {
		trace, err := scanTrace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision trace: %w", err)
		}
		traces = append(traces, *trace)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decision traces: %w", err)
	}
	return traces, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrace(row rowScanner) (*model.DecisionTrace, error) {
	var trace model.DecisionTrace
	var signals, personas string
	var composer, verdicts sql.NullString

	err := row.Scan(&trace.RunID, &trace.UserID, &trace.RunAt,
		&signals, &personas, &composer, &verdicts)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(signals), &trace.Signals); err != nil {
		return nil, fmt.Errorf("failed to unmarshal signals: %w", err)
	}
	if err := json.Unmarshal([]byte(personas), &trace.Personas); err != nil {
		return nil, fmt.Errorf("failed to unmarshal personas: %w", err)
	}
	if composer.Valid && composer.String != "" {
		if err := json.Unmarshal([]byte(composer.String), &trace.Composer); err != nil {
			return nil, fmt.Errorf("failed to unmarshal composer events: %w", err)
		}
	}
	if verdicts.Valid && verdicts.String != "" {
		if err := json.Unmarshal([]byte(verdicts.String), &trace.Verdicts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal verdicts: %w", err)
		}
	}
	return &trace, nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema: transactions, accounts, liabilities",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					hash TEXT UNIQUE NOT NULL,
					user_id TEXT NOT NULL,
					account_id TEXT,
					date DATETIME NOT NULL,
					name TEXT NOT NULL,
					merchant_name TEXT,
					category TEXT,
					amount REAL NOT NULL,
					pending INTEGER DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_user_date ON transactions(user_id, date)`,
				`CREATE INDEX idx_transactions_merchant ON transactions(merchant_name)`,

				`CREATE TABLE IF NOT EXISTS accounts (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					name TEXT,
					type TEXT NOT NULL,
					subtype TEXT,
					current_balance REAL DEFAULT 0,
					available_balance REAL DEFAULT 0,
					credit_limit REAL DEFAULT 0,
					apr REAL DEFAULT 0,
					next_due_date DATETIME,
					fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_accounts_user ON accounts(user_id)`,

				`CREATE TABLE IF NOT EXISTS liabilities (
					account_id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					last_statement_date DATETIME,
					minimum_payment REAL DEFAULT 0,
					last_payment_amount REAL DEFAULT 0,
					interest_charged REAL DEFAULT 0,
					is_overdue INTEGER DEFAULT 0
				)`,
				`CREATE INDEX idx_liabilities_user ON liabilities(user_id)`,
			}
			return execAll(tx, queries)
		},
	},
	{
		Version:     2,
		Description: "Consent records",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS consent_records (
					user_id TEXT PRIMARY KEY,
					consented INTEGER NOT NULL DEFAULT 0,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
			}
			return execAll(tx, queries)
		},
	},
	{
		Version:     3,
		Description: "Recommendations and decision traces",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS recommendations (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					catalog_id TEXT NOT NULL,
					kind TEXT NOT NULL,
					title TEXT NOT NULL,
					rationale TEXT NOT NULL,
					action_items TEXT NOT NULL,
					expected_impact TEXT,
					source_persona TEXT,
					enhanced INTEGER DEFAULT 0,
					status TEXT NOT NULL DEFAULT 'pending',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_recommendations_user ON recommendations(user_id)`,

				`CREATE TABLE IF NOT EXISTS decision_traces (
					run_id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					run_at DATETIME NOT NULL,
					signals TEXT NOT NULL,
					personas TEXT NOT NULL,
					composer TEXT,
					verdicts TEXT
				)`,
				`CREATE INDEX idx_decision_traces_user ON decision_traces(user_id, run_at)`,
			}
			return execAll(tx, queries)
		},
	},
}

func execAll(tx *sql.Tx, queries []string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Migrate applies any pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_versions (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("failed to create schema_versions table: %w", err)
	}

	var current int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_versions`).Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		slog.Info("Applying migration", "version", m.Version, "description", m.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}

		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_versions (version) VALUES (?)`, m.Version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

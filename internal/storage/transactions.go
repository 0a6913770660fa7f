package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mintwell/mintwell/internal/model"
	"github.com/mintwell/mintwell/internal/service"
)

// SaveTransactions inserts transactions, ignoring duplicates by hash so
// repeated imports are idempotent.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions
		(id, hash, user_id, account_id, date, name, merchant_name, category, amount, pending)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range transactions {
		t := &transactions[i]
		if t.Hash == "" {
			t.Hash = t.GenerateHash()
		}
		if _, err := stmt.ExecContext(ctx, t.ID, t.Hash, t.UserID, t.AccountID,
			t.Date, t.Name, t.MerchantName, t.Category, t.Amount, t.Pending); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// GetTransactionsByUser returns a user's transactions, newest first,
// optionally bounded by the filter's date range.
func (s *SQLiteStorage) GetTransactionsByUser(ctx context.Context, userID string, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var conditions []string
	args := []any{userID}
	conditions = append(conditions, "user_id = ?")

	if filter.StartDate != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, *filter.EndDate)
	}

	query := `SELECT id, hash, user_id, account_id, date, name, merchant_name, category, amount, pending
		FROM transactions WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY date DESC`

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var out []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var accountID, merchant, category sql.NullString
		var date time.Time
		if err := rows.Scan(&t.ID, &t.Hash, &t.UserID, &accountID, &date,
			&t.Name, &merchant, &category, &t.Amount, &t.Pending); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Date = date
		t.AccountID = accountID.String
		t.MerchantName = merchant.String
		t.Category = category.String
		out = append(out, t)
	}
	return out, rows.Err()
}

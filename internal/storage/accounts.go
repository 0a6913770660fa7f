package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mintwell/mintwell/internal/model"
)

// SaveAccounts upserts account snapshots; the latest fetch wins.
func (s *SQLiteStorage) SaveAccounts(ctx context.Context, accounts []model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccounts(accounts); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO accounts
		(id, user_id, name, type, subtype, current_balance, available_balance, credit_limit, apr, next_due_date, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current_balance = excluded.current_balance,
			available_balance = excluded.available_balance,
			credit_limit = excluded.credit_limit,
			apr = excluded.apr,
			next_due_date = excluded.next_due_date,
			fetched_at = excluded.fetched_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range accounts {
		a := &accounts[i]
		if _, err := stmt.ExecContext(ctx, a.ID, a.UserID, a.Name, a.Type, a.Subtype,
			a.CurrentBalance, a.AvailableBalance, a.CreditLimit, a.APR, a.NextDueDate, a.FetchedAt); err != nil {
			return fmt.Errorf("failed to upsert account %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// GetAccountsByUser returns all account snapshots for a user.
func (s *SQLiteStorage) GetAccountsByUser(ctx context.Context, userID string) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, type, subtype, current_balance, available_balance, credit_limit, apr, next_due_date, fetched_at
		FROM accounts WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Account
	for rows.Next() {
		var a model.Account
		var name, subtype sql.NullString
		var dueDate sql.NullTime
		if err := rows.Scan(&a.ID, &a.UserID, &name, &a.Type, &subtype,
			&a.CurrentBalance, &a.AvailableBalance, &a.CreditLimit, &a.APR, &dueDate, &a.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		a.Name = name.String
		a.Subtype = subtype.String
		if dueDate.Valid {
			d := dueDate.Time
			a.NextDueDate = &d
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SaveLiabilities upserts liability detail keyed by account.
func (s *SQLiteStorage) SaveLiabilities(ctx context.Context, liabilities []model.Liability) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(liabilities) == 0 {
		return fmt.Errorf("%w: liabilities", ErrEmptySlice)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO liabilities
		(account_id, user_id, last_statement_date, minimum_payment, last_payment_amount, interest_charged, is_overdue)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			last_statement_date = excluded.last_statement_date,
			minimum_payment = excluded.minimum_payment,
			last_payment_amount = excluded.last_payment_amount,
			interest_charged = excluded.interest_charged,
			is_overdue = excluded.is_overdue`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range liabilities {
		l := &liabilities[i]
		if _, err := stmt.ExecContext(ctx, l.AccountID, l.UserID, l.LastStatementDate,
			l.MinimumPayment, l.LastPaymentAmount, l.InterestCharged, l.IsOverdue); err != nil {
			return fmt.Errorf("failed to upsert liability %s: %w", l.AccountID, err)
		}
	}

	return tx.Commit()
}

// GetLiabilitiesByUser returns liability detail for all of a user's accounts.
func (s *SQLiteStorage) GetLiabilitiesByUser(ctx context.Context, userID string) ([]model.Liability, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT account_id, user_id, last_statement_date, minimum_payment, last_payment_amount, interest_charged, is_overdue
		FROM liabilities WHERE user_id = ? ORDER BY account_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query liabilities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Liability
	for rows.Next() {
		var l model.Liability
		var stmtDate sql.NullTime
		if err := rows.Scan(&l.AccountID, &l.UserID, &stmtDate,
			&l.MinimumPayment, &l.LastPaymentAmount, &l.InterestCharged, &l.IsOverdue); err != nil {
			return nil, fmt.Errorf("failed to scan liability: %w", err)
		}
		if stmtDate.Valid {
			d := stmtDate.Time
			l.LastStatementDate = &d
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

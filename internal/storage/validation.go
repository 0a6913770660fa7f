// Package storage provides the SQLite persistence layer. The pipeline treats
// it as a plain read/write store: snapshots in, recommendations and traces out.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mintwell/mintwell/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidAccount     = errors.New("invalid account")
	ErrInvalidStatus      = errors.New("invalid approval status")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}
	for i := range transactions {
		if err := validateTransaction(&transactions[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	return nil
}

// validateAccounts validates a slice of account snapshots.
func validateAccounts(accounts []model.Account) error {
	if len(accounts) == 0 {
		return fmt.Errorf("%w: accounts", ErrEmptySlice)
	}
	for i := range accounts {
		if accounts[i].ID == "" {
			return fmt.Errorf("account at index %d: %w: missing ID", i, ErrInvalidAccount)
		}
		if accounts[i].UserID == "" {
			return fmt.Errorf("account at index %d: %w: missing user ID", i, ErrInvalidAccount)
		}
	}
	return nil
}

// validateStatus ensures an approval status is one of the known values.
func validateStatus(status model.ApprovalStatus) error {
	switch status {
	case model.StatusPending, model.StatusApproved, model.StatusRejected, model.StatusFlagged:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
}

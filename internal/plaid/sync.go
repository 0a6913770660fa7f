package plaid

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mintwell/mintwell/internal/service"
)

// SyncResult summarizes one snapshot refresh.
type SyncResult struct {
	Transactions int
	Accounts     int
	Liabilities  int
}

// Syncer refreshes a user's stored snapshot from a data fetcher.
type Syncer struct {
	fetcher DataFetcher
	storage service.Storage
	logger  *slog.Logger
}

// NewSyncer creates a syncer writing through the given storage.
func NewSyncer(fetcher DataFetcher, storage service.Storage, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{fetcher: fetcher, storage: storage, logger: logger}
}

// Sync pulls transactions over the lookback window plus current account and
// liability snapshots, and persists them. Transactions dedupe by hash on
// insert, so overlapping windows are safe.
func (s *Syncer) Sync(ctx context.Context, userID string, lookbackDays int) (*SyncResult, error) {
	if lookbackDays <= 0 {
		lookbackDays = 180
	}
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -lookbackDays)

	txns, err := s.fetcher.GetTransactions(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	if len(txns) > 0 {
		if err := s.storage.SaveTransactions(ctx, txns); err != nil {
			return nil, fmt.Errorf("failed to save transactions: %w", err)
		}
	}

	accounts, err := s.fetcher.GetAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	if len(accounts) > 0 {
		if err := s.storage.SaveAccounts(ctx, accounts); err != nil {
			return nil, fmt.Errorf("failed to save accounts: %w", err)
		}
	}

	// A user with no credit accounts legitimately has no liability detail.
	liabilities, err := s.fetcher.GetLiabilities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch liabilities: %w", err)
	}
	if len(liabilities) > 0 {
		if err := s.storage.SaveLiabilities(ctx, liabilities); err != nil {
			return nil, fmt.Errorf("failed to save liabilities: %w", err)
		}
	}

	s.logger.Info("snapshot refreshed",
		"user_id", userID,
		"transactions", len(txns),
		"accounts", len(accounts),
		"liabilities", len(liabilities))

	return &SyncResult{
		Transactions: len(txns),
		Accounts:     len(accounts),
		Liabilities:  len(liabilities),
	}, nil
}

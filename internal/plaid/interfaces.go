package plaid

import (
	"context"
	"time"

	"github.com/mintwell/mintwell/internal/model"
)

// DataFetcher defines the contract for pulling a user's financial snapshot
// from an aggregator. This interface allows for easy mocking in tests and
// swapping data sources.
type DataFetcher interface {
	GetTransactions(ctx context.Context, startDate, endDate time.Time) ([]model.Transaction, error)
	GetAccounts(ctx context.Context) ([]model.Account, error)
	GetLiabilities(ctx context.Context) ([]model.Liability, error)
}

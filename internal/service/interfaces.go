// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/mintwell/mintwell/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// Storage defines the contract for our persistence layer. The pipeline treats
// it as a plain read/write store: inputs are fetched as a snapshot before a
// run, and only recommendations and decision traces are written back.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactionsByUser(ctx context.Context, userID string, filter TransactionFilter) ([]model.Transaction, error)

	// Account operations
	SaveAccounts(ctx context.Context, accounts []model.Account) error
	GetAccountsByUser(ctx context.Context, userID string) ([]model.Account, error)

	// Liability operations
	SaveLiabilities(ctx context.Context, liabilities []model.Liability) error
	GetLiabilitiesByUser(ctx context.Context, userID string) ([]model.Liability, error)

	// Consent operations. Writes originate from user action, never from the
	// pipeline itself.
	GetConsent(ctx context.Context, userID string) (*model.ConsentRecord, error)
	SaveConsent(ctx context.Context, record *model.ConsentRecord) error

	// Recommendation operations
	SaveRecommendations(ctx context.Context, recs []model.Recommendation) error
	GetRecommendationsByUser(ctx context.Context, userID string) ([]model.Recommendation, error)
	UpdateRecommendationStatus(ctx context.Context, recommendationID string, status model.ApprovalStatus) error

	// Decision trace operations. Traces are append-only.
	SaveDecisionTrace(ctx context.Context, trace *model.DecisionTrace) error
	GetLatestDecisionTrace(ctx context.Context, userID string) (*model.DecisionTrace, error)
	GetDecisionTraces(ctx context.Context, userID string) ([]model.DecisionTrace, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DateRange represents a time period with start and end dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// RunStats shows the results of a batch recommendation run.
type RunStats struct {
	UsersProcessed  int
	UsersFailed     int
	Recommendations int
	Blocked         int
	Duration        time.Duration
}

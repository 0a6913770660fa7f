package plaid

import (
	"context"
	"time"

	"github.com/mintwell/mintwell/internal/model"
)

// MockClient is a mock implementation of DataFetcher for testing.
type MockClient struct {
	// Functions that can be set by tests to control behavior.
	GetTransactionsFn func(ctx context.Context, startDate, endDate time.Time) ([]model.Transaction, error)
	GetAccountsFn     func(ctx context.Context) ([]model.Account, error)
	GetLiabilitiesFn  func(ctx context.Context) ([]model.Liability, error)

	// Call tracking.
	GetTransactionsCalls []GetTransactionsCall
	GetAccountsCalls     int
	GetLiabilitiesCalls  int
}

// GetTransactionsCall records the parameters of a GetTransactions call.
type GetTransactionsCall struct {
	StartDate time.Time
	EndDate   time.Time
}

// NewMockClient creates a new mock data fetcher.
func NewMockClient() *MockClient {
	return &MockClient{
		GetTransactionsCalls: []GetTransactionsCall{},
	}
}

// GetTransactions implements DataFetcher.GetTransactions.
func (m *MockClient) GetTransactions(ctx context.Context, startDate, endDate time.Time) ([]model.Transaction, error) {
	m.GetTransactionsCalls = append(m.GetTransactionsCalls, GetTransactionsCall{
		StartDate: startDate,
		EndDate:   endDate,
	})
	if m.GetTransactionsFn != nil {
		return m.GetTransactionsFn(ctx, startDate, endDate)
	}
	return []model.Transaction{}, nil
}

// GetAccounts implements DataFetcher.GetAccounts.
func (m *MockClient) GetAccounts(ctx context.Context) ([]model.Account, error) {
	m.GetAccountsCalls++
	if m.GetAccountsFn != nil {
		return m.GetAccountsFn(ctx)
	}
	return []model.Account{}, nil
}

// GetLiabilities implements DataFetcher.GetLiabilities.
func (m *MockClient) GetLiabilities(ctx context.Context) ([]model.Liability, error) {
	m.GetLiabilitiesCalls++
	if m.GetLiabilitiesFn != nil {
		return m.GetLiabilitiesFn(ctx)
	}
	return []model.Liability{}, nil
}

// Reset clears all call tracking.
func (m *MockClient) Reset() {
	m.GetTransactionsCalls = []GetTransactionsCall{}
	m.GetAccountsCalls = 0
	m.GetLiabilitiesCalls = 0
}

// Ensure MockClient implements DataFetcher.
var _ DataFetcher = (*MockClient)(nil)

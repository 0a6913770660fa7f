package plaid

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mintwell/mintwell/internal/model"
	"github.com/mintwell/mintwell/internal/service"
	"github.com/mintwell/mintwell/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncPersistsFullSnapshot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	stmtDate := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockClient()
	mock.GetTransactionsFn = func(_ context.Context, _, end time.Time) ([]model.Transaction, error) {
		return []model.Transaction{{
			ID:           "plaid-txn-1",
			UserID:       "user-1",
			Date:         end.AddDate(0, 0, -3),
			Name:         "Netflix",
			MerchantName: "Netflix",
			Amount:       -15.49,
		}}, nil
	}
	mock.GetAccountsFn = func(context.Context) ([]model.Account, error) {
		card := testutil.CreditAccount("card-1", 3400, 5000)
		card.UserID = "user-1"
		return []model.Account{card}, nil
	}
	mock.GetLiabilitiesFn = func(context.Context) ([]model.Liability, error) {
		return []model.Liability{{
			AccountID:         "card-1",
			UserID:            "user-1",
			LastStatementDate: &stmtDate,
			MinimumPayment:    35,
			InterestCharged:   42.80,
		}}, nil
	}

	syncer := NewSyncer(mock, db.Storage, nil)
	result, err := syncer.Sync(ctx, "user-1", 180)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Transactions)
	assert.Equal(t, 1, result.Accounts)
	assert.Equal(t, 1, result.Liabilities)

	txns, err := db.Storage.GetTransactionsByUser(ctx, "user-1", service.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, txns, 1)

	accounts, err := db.Storage.GetAccountsByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	liabilities, err := db.Storage.GetLiabilitiesByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, liabilities, 1)

	// The fetch window honors the lookback.
	require.Len(t, mock.GetTransactionsCalls, 1)
	call := mock.GetTransactionsCalls[0]
	assert.InDelta(t, 180*24.0, call.EndDate.Sub(call.StartDate).Hours(), 1.0)
}

func TestSyncEmptySnapshotSucceeds(t *testing.T) {
	// A brand-new user with nothing linked yet must not fail the sync.
	db := testutil.SetupTestDB(t)
	mock := NewMockClient()

	syncer := NewSyncer(mock, db.Storage, nil)
	result, err := syncer.Sync(context.Background(), "user-1", 0)
	require.NoError(t, err)
	assert.Zero(t, result.Transactions)
	assert.Zero(t, result.Accounts)
	assert.Zero(t, result.Liabilities)

	// Zero lookback falls back to the 180-day default.
	require.Len(t, mock.GetTransactionsCalls, 1)
	call := mock.GetTransactionsCalls[0]
	assert.InDelta(t, 180*24.0, call.EndDate.Sub(call.StartDate).Hours(), 1.0)
}

func TestSyncFetchErrorAborts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mock := NewMockClient()
	mock.GetTransactionsFn = func(context.Context, time.Time, time.Time) ([]model.Transaction, error) {
		return nil, errors.New("ITEM_LOGIN_REQUIRED")
	}

	syncer := NewSyncer(mock, db.Storage, nil)
	_, err := syncer.Sync(context.Background(), "user-1", 180)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch transactions")
	assert.Zero(t, mock.GetAccountsCalls, "aborts before fetching accounts")
}

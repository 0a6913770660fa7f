// Package testutil provides test fixtures for pipeline tests: in-memory
// databases and builders for realistic transaction histories.
package testutil

import (
	"context"
	"testing"

	"github.com/mintwell/mintwell/internal/model"
	"github.com/mintwell/mintwell/internal/service"
	"github.com/mintwell/mintwell/internal/storage"
)

// TestDB wraps an in-memory migrated store for one test.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database. It runs migrations and
// registers cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// SeedUser persists a full snapshot for one user, failing the test on error.
func (db *TestDB) SeedUser(userID string, txns []model.Transaction, accounts []model.Account, liabilities []model.Liability) {
	db.t.Helper()
	ctx := context.Background()

	for i := range txns {
		txns[i].UserID = userID
		if txns[i].Hash == "" {
			txns[i].Hash = txns[i].GenerateHash()
		}
	}
	for i := range accounts {
		accounts[i].UserID = userID
	}
	for i := range liabilities {
		liabilities[i].UserID = userID
	}

	if len(txns) > 0 {
		if err := db.Storage.SaveTransactions(ctx, txns); err != nil {
			db.t.Fatalf("failed to seed transactions: %v", err)
		}
	}
	if len(accounts) > 0 {
		if err := db.Storage.SaveAccounts(ctx, accounts); err != nil {
			db.t.Fatalf("failed to seed accounts: %v", err)
		}
	}
	if len(liabilities) > 0 {
		if err := db.Storage.SaveLiabilities(ctx, liabilities); err != nil {
			db.t.Fatalf("failed to seed liabilities: %v", err)
		}
	}
}

// GrantConsent records personalization consent for a user.
func (db *TestDB) GrantConsent(userID string, granted bool) {
	db.t.Helper()
	consent := &model.ConsentRecord{UserID: userID, Consented: granted}
	if err := db.Storage.SaveConsent(context.Background(), consent); err != nil {
		db.t.Fatalf("failed to seed consent: %v", err)
	}
}

// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction represents a single financial transaction from any source.
// Amounts are signed: negative values are expenses, positive values are inflows.
type Transaction struct {
	Date         time.Time
	ID           string
	UserID       string
	AccountID    string
	Name         string // Raw transaction description
	MerchantName string // Cleaned merchant name
	Category     string // Category hint from source (e.g., "income", "subscription")
	Hash         string
	Amount       float64
	Pending      bool
}

// IsExpense reports whether the transaction is an outflow.
func (t *Transaction) IsExpense() bool {
	return t.Amount < 0
}

// IsInflow reports whether the transaction is an inflow.
func (t *Transaction) IsInflow() bool {
	return t.Amount > 0
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%.2f:%s:%s",
		t.UserID,
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.MerchantName,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

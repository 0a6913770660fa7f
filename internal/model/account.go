package model

import "time"

// AccountType is the broad classification of a financial account.
type AccountType string

// Account type constants.
const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeCredit   AccountType = "credit"
	AccountTypeLoan     AccountType = "loan"
)

// Account is a point-in-time snapshot of a financial account. It is a
// read-only input to signal computation; balances are refreshed by the
// ingestion layer, never by the pipeline.
type Account struct {
	FetchedAt        time.Time
	ID               string
	UserID           string
	Name             string
	Type             AccountType
	Subtype          string // e.g. "money market", "hsa", "cd"
	CurrentBalance   float64
	AvailableBalance float64
	CreditLimit      float64 // 0 means unknown/not applicable
	APR              float64
	NextDueDate      *time.Time
}

// IsSavingsLike reports whether the account counts toward savings signals.
// Money market accounts and HSAs behave like savings for growth purposes.
func (a *Account) IsSavingsLike() bool {
	if a.Type == AccountTypeSavings {
		return true
	}
	switch a.Subtype {
	case "money market", "hsa", "cd":
		return true
	}
	return false
}

// IsLiquid reports whether the account balance counts toward the cash-flow buffer.
func (a *Account) IsLiquid() bool {
	return a.Type == AccountTypeChecking || a.IsSavingsLike()
}

// Liability carries credit/loan detail that account snapshots alone do not:
// payment behavior and interest charges for a single credit or loan account.
type Liability struct {
	AccountID          string
	UserID             string
	LastStatementDate  *time.Time
	MinimumPayment     float64
	LastPaymentAmount  float64
	InterestCharged    float64 // interest charged on the last statement
	IsOverdue          bool
}

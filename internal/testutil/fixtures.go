package testutil

import (
	"fmt"
	"time"

	"github.com/mintwell/mintwell/internal/model"
)

// MonthlySeries generates one transaction per interval, walking backward
// from end. Amounts follow the model convention: negative for expenses.
func MonthlySeries(merchant string, amount float64, count int, intervalDays int, end time.Time) []model.Transaction {
	txns := make([]model.Transaction, 0, count)
	for i := 0; i < count; i++ {
		date := end.AddDate(0, 0, -i*intervalDays)
		txns = append(txns, model.Transaction{
			ID:           fmt.Sprintf("%s-%d", merchant, i),
			Date:         date,
			Name:         merchant,
			MerchantName: merchant,
			Amount:       amount,
		})
	}
	return txns
}

// PayrollSeries generates recurring income deposits carrying the income
// category hint.
func PayrollSeries(employer string, amount float64, count int, intervalDays int, end time.Time) []model.Transaction {
	txns := MonthlySeries(employer, amount, count, intervalDays, end)
	for i := range txns {
		txns[i].Category = "income"
	}
	return txns
}

// CheckingAccount returns a checking account snapshot with the given balance.
func CheckingAccount(id string, balance float64) model.Account {
	return model.Account{
		ID:             id,
		Name:           "Checking",
		Type:           model.AccountTypeChecking,
		CurrentBalance: balance,
	}
}

// SavingsAccount returns a savings account snapshot with the given balance.
func SavingsAccount(id string, balance float64) model.Account {
	return model.Account{
		ID:             id,
		Name:           "Savings",
		Type:           model.AccountTypeSavings,
		CurrentBalance: balance,
	}
}

// CreditAccount returns a credit card snapshot. Balance is the amount owed,
// stored negative per the account convention.
func CreditAccount(id string, owed, limit float64) model.Account {
	return model.Account{
		ID:             id,
		Name:           "Credit Card",
		Type:           model.AccountTypeCredit,
		CurrentBalance: -owed,
		CreditLimit:    limit,
	}
}

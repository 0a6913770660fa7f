// Package signal computes per-user behavioral signals over a trailing window
// of transactions, accounts, and liabilities. Computation is pure and total:
// absent input data yields zero-valued signals, never an error.
package signal

import (
	"math"
	"time"

	"github.com/mintwell/mintwell/internal/model"
)

// Utilization flag thresholds. Boundaries are inclusive.
const (
	utilizationWarn     = 0.30
	utilizationElevated = 0.50
	utilizationSevere   = 0.80
)

// Inputs is the fetched snapshot a SignalSet is computed from.
type Inputs struct {
	Transactions []model.Transaction
	Accounts     []model.Account
	Liabilities  []model.Liability
}

// Aggregator computes SignalSets. It holds no state; one instance may be
// shared across concurrent per-user runs.
type Aggregator struct{}

// NewAggregator creates a signal aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Compute derives the full SignalSet for one user over the trailing window
// ending at asOf. Identical inputs always produce identical output.
func (a *Aggregator) Compute(userID string, in Inputs, windowDays int, asOf time.Time) model.SignalSet {
	set := model.SignalSet{
		ComputedAt:  asOf,
		UserID:      userID,
		WindowDays:  windowDays,
		Utilization: make(map[string]*float64),
	}

	windowStart := asOf.AddDate(0, 0, -windowDays)
	windowTxns := make([]model.Transaction, 0, len(in.Transactions))
	for _, txn := range in.Transactions {
		if !txn.Date.Before(windowStart) && !txn.Date.After(asOf) {
			windowTxns = append(windowTxns, txn)
		}
	}

	a.computeExpenseTotals(&set, windowTxns)
	a.computeSubscriptions(&set, in.Transactions, windowTxns, asOf)
	a.computeSavings(&set, windowTxns, in.Accounts)
	a.computeUtilization(&set, in.Accounts, in.Liabilities)
	a.computeIncome(&set, in.Transactions, windowTxns, in.Accounts, asOf)

	return set
}

func (a *Aggregator) computeExpenseTotals(set *model.SignalSet, windowTxns []model.Transaction) {
	for _, txn := range windowTxns {
		if txn.IsExpense() {
			set.TotalExpenseSpend += -txn.Amount
		}
	}
	months := float64(set.WindowDays) / 30.0
	if months > 0 {
		set.AvgMonthlyExpense = set.TotalExpenseSpend / months
	}
}

// computeSubscriptions detects recurring merchants over the 90-day lookback
// and sums their spend inside the signal window.
func (a *Aggregator) computeSubscriptions(set *model.SignalSet, allTxns, windowTxns []model.Transaction, asOf time.Time) {
	expenses := make([]model.Transaction, 0, len(allTxns))
	for _, txn := range allTxns {
		if txn.IsExpense() {
			expenses = append(expenses, txn)
		}
	}

	recurring := recurringGroups(expenses, asOf, subscriptionBands)
	set.SubscriptionCount = len(recurring)

	qualifying := make(map[string]bool, len(recurring))
	for _, group := range recurring {
		qualifying[group.merchant] = true
	}

	for _, txn := range windowTxns {
		if txn.IsExpense() && qualifying[txn.MerchantName] {
			set.SubscriptionSpend += -txn.Amount
		}
	}

	if set.TotalExpenseSpend > 0 {
		set.SubscriptionShare = set.SubscriptionSpend / set.TotalExpenseSpend
	}
}

// computeSavings derives net inflow and growth rate for savings-like
// accounts. The starting balance is reconstructed from the current balance
// minus the window's net inflow; a zero or negative start yields rate 0.
func (a *Aggregator) computeSavings(set *model.SignalSet, windowTxns []model.Transaction, accounts []model.Account) {
	savingsAccounts := make(map[string]bool)
	var endingBalance float64
	for _, acct := range accounts {
		if acct.IsSavingsLike() {
			savingsAccounts[acct.ID] = true
			endingBalance += acct.CurrentBalance
		}
	}
	if len(savingsAccounts) == 0 {
		return
	}

	for _, txn := range windowTxns {
		if savingsAccounts[txn.AccountID] {
			set.SavingsNetInflow += txn.Amount
		}
	}

	startingBalance := endingBalance - set.SavingsNetInflow
	if startingBalance > 0 {
		set.SavingsGrowthRate = (endingBalance - startingBalance) / startingBalance
	}

	if set.AvgMonthlyExpense > 0 {
		set.EmergencyFundMonths = endingBalance / set.AvgMonthlyExpense
	}
}

// computeUtilization fills the per-account utilization map and payment
// behavior flags. Accounts without a known credit limit get a nil entry and
// are excluded from the max aggregate.
func (a *Aggregator) computeUtilization(set *model.SignalSet, accounts []model.Account, liabilities []model.Liability) {
	for _, acct := range accounts {
		if acct.Type != model.AccountTypeCredit {
			continue
		}
		if acct.CreditLimit <= 0 {
			set.Utilization[acct.ID] = nil
			continue
		}
		util := math.Abs(acct.CurrentBalance) / acct.CreditLimit
		set.Utilization[acct.ID] = &util

		if set.MaxUtilization == nil || util > *set.MaxUtilization {
			u := util
			set.MaxUtilization = &u
			set.MaxCardBalance = math.Abs(acct.CurrentBalance)
		}
		if util >= utilizationWarn {
			set.AnyUtilizationOver30 = true
		}
		if util >= utilizationElevated {
			set.AnyUtilizationOver50 = true
		}
		if util >= utilizationSevere {
			set.AnyUtilizationOver80 = true
		}
	}

	for _, liab := range liabilities {
		set.InterestCharges += liab.InterestCharged
		if liab.IsOverdue {
			set.Overdue = true
		}
		if liab.MinimumPayment > 0 && liab.LastPaymentAmount > 0 &&
			liab.LastPaymentAmount <= liab.MinimumPayment {
			set.MinimumPaymentOnly = true
		}
	}
}

// computeIncome detects payroll-pattern inflows and derives pay cadence and
// the cash-flow buffer. A user with no expenses in the window gets the
// unbounded buffer sentinel rather than an error.
func (a *Aggregator) computeIncome(set *model.SignalSet, allTxns, windowTxns []model.Transaction, accounts []model.Account, asOf time.Time) {
	income := make([]model.Transaction, 0, len(allTxns))
	for _, txn := range allTxns {
		if matchesPayroll(txn) {
			income = append(income, txn)
		}
	}
	set.IncomeTransactionCount = len(income)

	for _, txn := range windowTxns {
		if txn.IsInflow() {
			set.TotalIncome += txn.Amount
		}
	}
	if months := float64(set.WindowDays) / 30.0; months > 0 {
		set.AvgMonthlyIncome = set.TotalIncome / months
	}

	recurring := recurringGroups(income, asOf, payrollBands)
	if len(recurring) > 0 {
		set.PayrollDetected = true
		gaps := make([]float64, 0, len(recurring))
		for _, group := range recurring {
			gaps = append(gaps, group.medianGap)
		}
		set.MedianPayGapDays = median(gaps)
	}

	for _, acct := range accounts {
		if acct.IsLiquid() {
			set.LiquidBalance += acct.CurrentBalance
		}
	}

	switch {
	case set.AvgMonthlyExpense > 0:
		set.CashFlowBufferMonths = set.LiquidBalance / set.AvgMonthlyExpense
	case set.LiquidBalance > 0:
		set.BufferUnbounded = true
	}
}

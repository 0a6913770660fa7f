package signal

import (
	"testing"
	"time"

	"github.com/mintwell/mintwell/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAsOf = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func TestComputeEmptyInputs(t *testing.T) {
	agg := NewAggregator()
	set := agg.Compute("user-1", Inputs{}, model.WindowShort, testAsOf)

	assert.Equal(t, "user-1", set.UserID)
	assert.Equal(t, model.WindowShort, set.WindowDays)
	assert.Equal(t, testAsOf, set.ComputedAt)

	// Absent data yields zero values, never errors or NaN.
	assert.Zero(t, set.SubscriptionCount)
	assert.Zero(t, set.SubscriptionSpend)
	assert.Zero(t, set.SavingsGrowthRate)
	assert.Zero(t, set.EmergencyFundMonths)
	assert.Nil(t, set.MaxUtilization)
	assert.False(t, set.PayrollDetected)
	assert.Zero(t, set.CashFlowBufferMonths)
	assert.False(t, set.HasUnboundedBuffer())
}

func TestComputeIsDeterministic(t *testing.T) {
	agg := NewAggregator()
	in := Inputs{
		Transactions: append(series("Netflix", -15.49, 3, 30, testAsOf),
			series("ACME PAYROLL", 2100, 6, 14, testAsOf)...),
		Accounts: []model.Account{
			{ID: "chk", Type: model.AccountTypeChecking, CurrentBalance: 1800},
			{ID: "sav", Type: model.AccountTypeSavings, CurrentBalance: 3000},
		},
	}

	first := agg.Compute("user-1", in, model.WindowShort, testAsOf)
	second := agg.Compute("user-1", in, model.WindowShort, testAsOf)
	assert.Equal(t, first, second)
}

func TestComputeSubscriptions(t *testing.T) {
	agg := NewAggregator()
	in := Inputs{
		Transactions: append(
			append(series("Netflix", -15.49, 3, 31, testAsOf), series("Spotify", -9.99, 3, 31, testAsOf)...),
			txn("Grocery Mart", -250, testAsOf.AddDate(0, 0, -5)),
		),
	}

	set := agg.Compute("user-1", in, model.WindowShort, testAsOf)

	assert.Equal(t, 2, set.SubscriptionCount)
	// Only window transactions count toward spend: one charge each.
	assert.InDelta(t, 15.49+9.99, set.SubscriptionSpend, 0.001)
	assert.InDelta(t, 15.49+9.99+250, set.TotalExpenseSpend, 0.001)
	assert.InDelta(t, (15.49+9.99)/(15.49+9.99+250), set.SubscriptionShare, 0.001)
}

func TestComputeSavings(t *testing.T) {
	agg := NewAggregator()

	t.Run("growth from reconstructed start", func(t *testing.T) {
		in := Inputs{
			Transactions: []model.Transaction{
				{AccountID: "sav", Amount: 200, Date: testAsOf.AddDate(0, 0, -10), MerchantName: "Transfer"},
				{AccountID: "sav", Amount: -50, Date: testAsOf.AddDate(0, 0, -5), MerchantName: "Transfer"},
			},
			Accounts: []model.Account{{ID: "sav", Type: model.AccountTypeSavings, CurrentBalance: 1150}},
		}
		set := agg.Compute("user-1", in, model.WindowShort, testAsOf)

		assert.InDelta(t, 150, set.SavingsNetInflow, 0.001)
		// start = 1150 - 150 = 1000; growth = 150/1000.
		assert.InDelta(t, 0.15, set.SavingsGrowthRate, 0.001)
	})

	t.Run("zero start balance yields zero rate", func(t *testing.T) {
		in := Inputs{
			Transactions: []model.Transaction{
				{AccountID: "sav", Amount: 500, Date: testAsOf.AddDate(0, 0, -10), MerchantName: "Transfer"},
			},
			Accounts: []model.Account{{ID: "sav", Type: model.AccountTypeSavings, CurrentBalance: 500}},
		}
		set := agg.Compute("user-1", in, model.WindowShort, testAsOf)

		assert.InDelta(t, 500, set.SavingsNetInflow, 0.001)
		assert.Zero(t, set.SavingsGrowthRate)
	})
}

func TestComputeUtilization(t *testing.T) {
	agg := NewAggregator()
	in := Inputs{
		Accounts: []model.Account{
			{ID: "card-a", Type: model.AccountTypeCredit, CurrentBalance: -3400, CreditLimit: 5000},
			{ID: "card-b", Type: model.AccountTypeCredit, CurrentBalance: -100, CreditLimit: 2000},
			{ID: "card-c", Type: model.AccountTypeCredit, CurrentBalance: -750}, // no known limit
		},
		Liabilities: []model.Liability{
			{AccountID: "card-a", MinimumPayment: 35, LastPaymentAmount: 35, InterestCharged: 42.80},
		},
	}

	set := agg.Compute("user-1", in, model.WindowShort, testAsOf)

	require.NotNil(t, set.MaxUtilization)
	assert.InDelta(t, 0.68, *set.MaxUtilization, 0.001)
	assert.InDelta(t, 3400, set.MaxCardBalance, 0.001)
	assert.True(t, set.AnyUtilizationOver30)
	assert.True(t, set.AnyUtilizationOver50)
	assert.False(t, set.AnyUtilizationOver80)
	assert.True(t, set.MinimumPaymentOnly)
	assert.InDelta(t, 42.80, set.InterestCharges, 0.001)

	// Unknown-limit card is present but excluded from aggregates.
	require.Contains(t, set.Utilization, "card-c")
	assert.Nil(t, set.Utilization["card-c"])
}

func TestComputeIncome(t *testing.T) {
	agg := NewAggregator()

	t.Run("biweekly payroll detected", func(t *testing.T) {
		in := Inputs{
			Transactions: series("ACME PAYROLL", 2100, 6, 14, testAsOf),
			Accounts:     []model.Account{{ID: "chk", Type: model.AccountTypeChecking, CurrentBalance: 2500}},
		}
		set := agg.Compute("user-1", in, model.WindowShort, testAsOf)

		assert.True(t, set.PayrollDetected)
		assert.InDelta(t, 14, set.MedianPayGapDays, 0.001)
		assert.Equal(t, 6, set.IncomeTransactionCount)
	})

	t.Run("buffer unbounded with no expenses", func(t *testing.T) {
		in := Inputs{
			Accounts: []model.Account{{ID: "chk", Type: model.AccountTypeChecking, CurrentBalance: 2500}},
		}
		set := agg.Compute("user-1", in, model.WindowShort, testAsOf)

		assert.True(t, set.HasUnboundedBuffer())
		assert.Zero(t, set.CashFlowBufferMonths)
	})

	t.Run("buffer from monthly expenses", func(t *testing.T) {
		in := Inputs{
			Transactions: []model.Transaction{
				txn("Rent", -1000, testAsOf.AddDate(0, 0, -3)),
			},
			Accounts: []model.Account{{ID: "chk", Type: model.AccountTypeChecking, CurrentBalance: 2000}},
		}
		set := agg.Compute("user-1", in, model.WindowShort, testAsOf)

		assert.False(t, set.HasUnboundedBuffer())
		assert.InDelta(t, 2.0, set.CashFlowBufferMonths, 0.001)
	})
}

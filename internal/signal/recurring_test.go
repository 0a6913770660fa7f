package signal

import (
	"testing"
	"time"

	"github.com/mintwell/mintwell/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(merchant string, amount float64, date time.Time) model.Transaction {
	return model.Transaction{
		MerchantName: merchant,
		Name:         merchant,
		Amount:       amount,
		Date:         date,
	}
}

func series(merchant string, amount float64, count, gapDays int, end time.Time) []model.Transaction {
	out := make([]model.Transaction, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, txn(merchant, amount, end.AddDate(0, 0, -i*gapDays)))
	}
	return out
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "empty", values: nil, want: 0},
		{name: "single", values: []float64{7}, want: 7},
		{name: "odd count", values: []float64{30, 7, 14}, want: 14},
		{name: "even count", values: []float64{10, 20, 30, 40}, want: 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, median(tt.values), 0.001)
		})
	}
}

func TestMatchesPayroll(t *testing.T) {
	tests := []struct {
		name string
		txn  model.Transaction
		want bool
	}{
		{name: "category hint", txn: model.Transaction{Amount: 2000, Category: "income"}, want: true},
		{name: "direct deposit description", txn: model.Transaction{Amount: 1500, Name: "ACME DIRECTDEP 00123"}, want: true},
		{name: "payroll keyword", txn: model.Transaction{Amount: 1500, Name: "GUSTO PAYROLL"}, want: true},
		{name: "processor name", txn: model.Transaction{Amount: 900, MerchantName: "ADP Wage Pay"}, want: true},
		{name: "outflow never payroll", txn: model.Transaction{Amount: -1500, Name: "PAYROLL REVERSAL"}, want: false},
		{name: "ordinary inflow", txn: model.Transaction{Amount: 45, Name: "VENMO CASHOUT"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesPayroll(tt.txn))
		})
	}
}

func TestRecurringGroups(t *testing.T) {
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("monthly cadence detected", func(t *testing.T) {
		txns := series("Netflix", -15.49, 3, 30, asOf)
		groups := recurringGroups(txns, asOf, subscriptionBands)
		require.Len(t, groups, 1)
		assert.Equal(t, "Netflix", groups[0].merchant)
		assert.InDelta(t, 30, groups[0].medianGap, 0.001)
	})

	t.Run("two occurrences are not enough", func(t *testing.T) {
		txns := series("Hulu", -12.99, 2, 30, asOf)
		assert.Empty(t, recurringGroups(txns, asOf, subscriptionBands))
	})

	t.Run("irregular gaps are not recurring", func(t *testing.T) {
		txns := []model.Transaction{
			txn("Corner Store", -8, asOf),
			txn("Corner Store", -12, asOf.AddDate(0, 0, -2)),
			txn("Corner Store", -5, asOf.AddDate(0, 0, -3)),
			txn("Corner Store", -9, asOf.AddDate(0, 0, -60)),
		}
		assert.Empty(t, recurringGroups(txns, asOf, subscriptionBands))
	})

	t.Run("transactions outside the lookback are ignored", func(t *testing.T) {
		txns := series("Spotify", -9.99, 3, 30, asOf.AddDate(0, 0, -recurrenceLookbackDays-10))
		assert.Empty(t, recurringGroups(txns, asOf, subscriptionBands))
	})

	t.Run("biweekly matches payroll bands only", func(t *testing.T) {
		txns := series("ACME PAYROLL", 2100, 5, 14, asOf)
		assert.Empty(t, recurringGroups(txns, asOf, subscriptionBands))
		groups := recurringGroups(txns, asOf, payrollBands)
		require.Len(t, groups, 1)
		assert.InDelta(t, 14, groups[0].medianGap, 0.001)
	})

	t.Run("deterministic order across merchants", func(t *testing.T) {
		txns := append(series("Spotify", -9.99, 3, 30, asOf), series("Netflix", -15.49, 3, 30, asOf)...)
		groups := recurringGroups(txns, asOf, subscriptionBands)
		require.Len(t, groups, 2)
		assert.Equal(t, "Netflix", groups[0].merchant)
		assert.Equal(t, "Spotify", groups[1].merchant)
	})
}

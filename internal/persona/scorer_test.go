package persona

import (
	"testing"

	"github.com/mintwell/mintwell/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func contributionSum(dist model.PersonaDistribution) int {
	sum := 0
	for _, m := range dist.Matches {
		sum += m.ContributionPct
	}
	return sum
}

func TestAssignZeroDataDefaultsToBalanced(t *testing.T) {
	scorer := NewScorer()
	dist := scorer.Assign(&model.SignalSet{})

	assert.Equal(t, model.PersonaBalancedStable, dist.Primary)
	assert.Empty(t, dist.Secondary)
	assert.Equal(t, 100, dist.Contribution(model.PersonaBalancedStable))
	assert.Equal(t, 100, contributionSum(dist))
	assert.Equal(t, model.RiskVeryLow, dist.Risk)
	assert.Zero(t, dist.TotalRiskPoints)

	// Every criterion is still recorded for the trace.
	for _, m := range dist.Matches {
		assert.NotEmpty(t, m.Criteria)
		for _, c := range m.Criteria {
			assert.False(t, c.Satisfied)
			assert.NotEmpty(t, c.Reason)
		}
	}
}

func TestAssignHighUtilizationDominates(t *testing.T) {
	// A user at 68% utilization paying only minimums, with payroll and some
	// savings history: high-utilization must take more than half the
	// distribution while subscription-heavy stays at zero.
	sig := &model.SignalSet{
		Utilization:            map[string]*float64{"card": ptr(0.68)},
		MaxUtilization:         ptr(0.68),
		AnyUtilizationOver30:   true,
		AnyUtilizationOver50:   true,
		MinimumPaymentOnly:     true,
		InterestCharges:        42.80,
		PayrollDetected:        true,
		MedianPayGapDays:       14,
		IncomeTransactionCount: 6,
		AvgMonthlyExpense:      2000,
		CashFlowBufferMonths:   1.2,
		EmergencyFundMonths:    1.5,
		LiquidBalance:          2400,
	}

	scorer := NewScorer()
	dist := scorer.Assign(sig)

	assert.Equal(t, model.PersonaHighUtilization, dist.Primary)
	assert.Greater(t, dist.Contribution(model.PersonaHighUtilization), 50)
	assert.Zero(t, dist.Contribution(model.PersonaSubscriptionHeavy))
	assert.Equal(t, 100, contributionSum(dist))
}

func TestAssignSubscriptionHeavyWithoutCreditSignals(t *testing.T) {
	// Heavy subscription spend with clean credit: subscription-heavy leads,
	// high-utilization contributes nothing.
	sig := &model.SignalSet{
		SubscriptionCount:    6,
		SubscriptionSpend:    180,
		SubscriptionShare:    0.25,
		TotalExpenseSpend:    720,
		AvgMonthlyExpense:    720,
		LiquidBalance:        5000,
		CashFlowBufferMonths: 6.9,
	}

	scorer := NewScorer()
	dist := scorer.Assign(sig)

	assert.Equal(t, model.PersonaSubscriptionHeavy, dist.Primary)
	assert.Zero(t, dist.Contribution(model.PersonaHighUtilization))
	assert.Positive(t, dist.Contribution(model.PersonaSubscriptionHeavy))
	assert.Equal(t, 100, contributionSum(dist))
}

func TestAssignContributionsAlwaysSumTo100(t *testing.T) {
	// Signals chosen so three personas match with awkward score ratios that
	// exercise the largest-remainder rounding.
	sig := &model.SignalSet{
		Utilization:          map[string]*float64{"card": ptr(0.55)},
		MaxUtilization:       ptr(0.55),
		AnyUtilizationOver30: true,
		AnyUtilizationOver50: true,
		SubscriptionCount:    3,
		SubscriptionSpend:    90,
		SubscriptionShare:    0.12,
		SavingsNetInflow:     100,
		SavingsGrowthRate:    0.03,
		EmergencyFundMonths:  1,
		AvgMonthlyExpense:    1500,
		CashFlowBufferMonths: 2,
	}

	scorer := NewScorer()
	dist := scorer.Assign(sig)

	assert.Equal(t, 100, contributionSum(dist))
	assert.NotEmpty(t, dist.Primary)
}

func matchFor(t *testing.T, dist model.PersonaDistribution, id model.PersonaID) model.PersonaMatch {
	t.Helper()
	for _, m := range dist.Matches {
		if m.Persona == id {
			return m
		}
	}
	t.Fatalf("no match recorded for %s", id)
	return model.PersonaMatch{}
}

func TestAssignEqualScoresResolveByPriority(t *testing.T) {
	// Two subscription criteria (2x15) tie three savings criteria (3x10) at
	// 30 points each: the higher-priority persona becomes primary.
	sig := &model.SignalSet{
		SubscriptionCount:      4,
		SubscriptionSpend:      120,
		SubscriptionShare:      0.05,
		SavingsNetInflow:       200,
		SavingsGrowthRate:      0.04,
		EmergencyFundMonths:    1.5,
		PayrollDetected:        true,
		MedianPayGapDays:       18,
		IncomeTransactionCount: 6,
		AvgMonthlyExpense:      2000,
		CashFlowBufferMonths:   2,
	}

	dist := NewScorer().Assign(sig)

	require.Equal(t, 30, matchFor(t, dist, model.PersonaSubscriptionHeavy).Score)
	require.Equal(t, 30, matchFor(t, dist, model.PersonaSavingsBuilder).Score)
	assert.Equal(t, 100, contributionSum(dist))
	assert.Equal(t, 50, dist.Contribution(model.PersonaSubscriptionHeavy))
	assert.Equal(t, 50, dist.Contribution(model.PersonaSavingsBuilder))
	assert.Equal(t, model.PersonaSubscriptionHeavy, dist.Primary)
	assert.Equal(t, model.PersonaSavingsBuilder, dist.Secondary)
}

func TestAssignRemainderTieFavorsHigherPriority(t *testing.T) {
	// 20/30/30 points floor to 25/37/37, leaving one percentage point. The
	// tied .5 remainders resolve to subscription-heavy over savings-builder.
	sig := &model.SignalSet{
		SubscriptionCount:      4,
		SubscriptionSpend:      120,
		SubscriptionShare:      0.05,
		SavingsNetInflow:       200,
		SavingsGrowthRate:      0.04,
		EmergencyFundMonths:    1.5,
		PayrollDetected:        true,
		MedianPayGapDays:       18,
		IncomeTransactionCount: 6,
		AvgMonthlyExpense:      2000,
		CashFlowBufferMonths:   0.8,
	}

	dist := NewScorer().Assign(sig)

	require.Equal(t, 20, matchFor(t, dist, model.PersonaVariableIncome).Score)
	require.Equal(t, 30, matchFor(t, dist, model.PersonaSubscriptionHeavy).Score)
	require.Equal(t, 30, matchFor(t, dist, model.PersonaSavingsBuilder).Score)
	assert.Equal(t, 100, contributionSum(dist))
	assert.Equal(t, 38, dist.Contribution(model.PersonaSubscriptionHeavy))
	assert.Equal(t, 37, dist.Contribution(model.PersonaSavingsBuilder))
	assert.Equal(t, 25, dist.Contribution(model.PersonaVariableIncome))
	assert.Equal(t, model.PersonaSubscriptionHeavy, dist.Primary)
	assert.Equal(t, model.PersonaSavingsBuilder, dist.Secondary)
}

func TestRiskLevels(t *testing.T) {
	tests := []struct {
		points int
		want   model.RiskLevel
	}{
		{points: 0, want: model.RiskVeryLow},
		{points: 15, want: model.RiskVeryLow},
		{points: 16, want: model.RiskLow},
		{points: 40, want: model.RiskLow},
		{points: 41, want: model.RiskModerate},
		{points: 75, want: model.RiskModerate},
		{points: 76, want: model.RiskHigh},
		{points: 120, want: model.RiskHigh},
		{points: 121, want: model.RiskCritical},
		{points: 300, want: model.RiskCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, riskLevel(tt.points), "points=%d", tt.points)
	}
}

func TestAssignRecordsEveryCriterion(t *testing.T) {
	scorer := NewScorer()
	dist := scorer.Assign(&model.SignalSet{})

	require.Len(t, dist.Matches, 5)
	for _, def := range Definitions() {
		found := false
		for _, m := range dist.Matches {
			if m.Persona == def.ID {
				found = true
				assert.Len(t, m.Criteria, len(def.Criteria))
				assert.Equal(t, len(def.Criteria), m.TotalCount)
			}
		}
		assert.True(t, found, "persona %s missing from distribution", def.ID)
	}
}

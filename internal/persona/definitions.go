// Package persona evaluates the five behavioral persona rule-sets against a
// SignalSet and produces a weighted multi-persona distribution.
package persona

import (
	"fmt"

	"github.com/mintwell/mintwell/internal/model"
)

// criterion is one boolean rule inside a persona definition. Test must be a
// pure function of the SignalSet; Reason renders a human-readable explanation
// whether or not the criterion passed.
type criterion struct {
	Name   string
	Test   func(*model.SignalSet) bool
	Reason func(*model.SignalSet) string
}

// Definition is one persona's ordered rule-set with its fixed weight per
// matched criterion. The five definitions form a closed enumeration evaluated
// uniformly by the scorer; personas are not mutually exclusive.
type Definition struct {
	ID       model.PersonaID
	Points   int
	Criteria []criterion
}

func maxUtilizationPct(s *model.SignalSet) float64 {
	if s.MaxUtilization == nil {
		return 0
	}
	return *s.MaxUtilization * 100
}

// Definitions returns the five persona rule-sets in tie-break priority order.
// The returned slice is freshly allocated but the criteria are immutable.
func Definitions() []Definition {
	return []Definition{
		{
			ID:     model.PersonaHighUtilization,
			Points: 25,
			Criteria: []criterion{
				{
					Name: "utilization_50",
					Test: func(s *model.SignalSet) bool { return s.AnyUtilizationOver50 },
					Reason: func(s *model.SignalSet) string {
						return fmt.Sprintf("card utilization peaked at %.0f%% (threshold 50%%)", maxUtilizationPct(s))
					},
				},
				{
					Name: "utilization_80",
					Test: func(s *model.SignalSet) bool { return s.AnyUtilizationOver80 },
					Reason: func(s *model.SignalSet) string {
						return fmt.Sprintf("card utilization peaked at %.0f%% (threshold 80%%)", maxUtilizationPct(s))
					},
				},
				{
					Name: "interest_charges",
					Test: func(s *model.SignalSet) bool { return s.InterestCharges > 0 },
					Reason: func(s *model.SignalSet) string {
						return fmt.Sprintf("$%.2f in interest charged on revolving balances", s.InterestCharges)
					},
				},
				{
					Name: "minimum_payment_only",
					Test: func(s *model.SignalSet) bool { return s.MinimumPaymentOnly },
					Reason: func(_ *model.SignalSet) string {
						return "last statement payment did not exceed the minimum due"
					},
				},
				{
					Name: "overdue",
					Test: func(s *model.SignalSet) bool { return s.Overdue },
					Reason: func(_ *model.SignalSet) string {
						return "at least one credit account is past due"
					},
				},
			},
		},
		{
			ID:     model.PersonaVariableIncome,
			Points: 20,
			Criteria: []criterion{
				{
					Name: "no_stable_payroll",
					Test: func(s *model.SignalSet) bool {
						return s.IncomeTransactionCount > 0 && !s.PayrollDetected
					},
					Reason: func(s *model.SignalSet) string {
						return fmt.Sprintf("%d income deposits without a steady cadence", s.IncomeTransactionCount)
					},
				},
				{
					Name: "long_pay_gap",
					Test: func(s *model.SignalSet) bool {
						return s.PayrollDetected && s.MedianPayGapDays > 21
					},
					Reason: func(s *model.SignalSet) string {
						return fmt.Sprintf("median gap between paychecks is %.0f days", s.MedianPayGapDays)
					},
				},
				{
					Name: "thin_cash_buffer",
					Test: func(s *model.SignalSet) bool {
						return s.AvgMonthlyExpense > 0 && s.CashFlowBufferMonths < 1
					},
					Reason: func(s *model.SignalSet) string {
						return fmt.Sprintf("liquid balance covers %.1f months of typical spending", s.CashFlowBufferMonths)
					},
				},
				{
					Name: "no_emergency_fund",
					Test: func(s *model.SignalSet) bool {
						return s.AvgMonthlyExpense > 0 && s.EmergencyFundMonths < 1
					},
					Reason: func(s *model.SignalSet) string {
						return fmt.Sprintf("emergency savings cover %.1f months of expenses", s.EmergencyFundMonths)
					},
				},
			},
		},
		{
			ID:     model.PersonaSubscriptionHeavy,
			Points: 15,
			Criteria: []criterion{
				{
					Name: "multiple_subscriptions",
					Test: func(s *model.SignalSet) bool { return s.SubscriptionCount >= 3 },
					Reason: func(s *model.SignalSet) string {
						return fmt.Sprintf("%d recurring merchants detected", s.SubscriptionCount)
					},
				},
				{
					Name: "subscription_share",
					Test: func(s *model.SignalSet) bool { return s.SubscriptionShare >= 0.10 },
					Reason: func(s *model.SignalSet) string {
						return fmt.Sprintf("subscriptions are %.0f%% of total spending", s.SubscriptionShare*100)
					},
				},
				{
					Name: "subscription_spend",
					Test: func(s *model.SignalSet) bool { return s.SubscriptionSpend >= 50 },
					Reason: func(s *model.SignalSet) string {
						return fmt.Sprintf("$%.2f spent on subscriptions in the window", s.SubscriptionSpend)
					},
				},
				{
					Name: "subscription_share_high",
					Test: func(s *model.SignalSet) bool { return s.SubscriptionShare >= 0.20 },
					Reason: func(s *model.SignalSet) string {
						return fmt.Sprintf("subscriptions are %.0f%% of total spending (threshold 20%%)", s.SubscriptionShare*100)
					},
				},
			},
		},
		{
			ID:     model.PersonaSavingsBuilder,
			Points: 10,
			Criteria: []criterion{
				{
					Name: "saving_actively",
					Test: func(s *model.SignalSet) bool { return s.SavingsNetInflow > 0 },
					Reason: func(s *model.SignalSet) string {
						return fmt.Sprintf("$%.2f net inflow to savings in the window", s.SavingsNetInflow)
					},
				},
				{
					Name: "savings_growing",
					Test: func(s *model.SignalSet) bool { return s.SavingsGrowthRate >= 0.02 },
					Reason: func(s *model.SignalSet) string {
						return fmt.Sprintf("savings balance grew %.1f%% over the window", s.SavingsGrowthRate*100)
					},
				},
				{
					Name: "fund_in_progress",
					Test: func(s *model.SignalSet) bool {
						return s.SavingsNetInflow > 0 && s.EmergencyFundMonths > 0 && s.EmergencyFundMonths < 3
					},
					Reason: func(s *model.SignalSet) string {
						return fmt.Sprintf("emergency fund at %.1f of 3 months coverage", s.EmergencyFundMonths)
					},
				},
				{
					Name: "debt_controlled",
					Test: func(s *model.SignalSet) bool {
						return s.SavingsNetInflow > 0 && s.MaxUtilization != nil && *s.MaxUtilization < 0.30
					},
					Reason: func(s *model.SignalSet) string {
						return fmt.Sprintf("saving while utilization stays at %.0f%%", maxUtilizationPct(s))
					},
				},
			},
		},
		{
			ID:     model.PersonaBalancedStable,
			Points: 5,
			Criteria: []criterion{
				{
					Name: "low_utilization",
					Test: func(s *model.SignalSet) bool {
						return s.MaxUtilization != nil && *s.MaxUtilization < 0.30
					},
					Reason: func(s *model.SignalSet) string {
						return fmt.Sprintf("card utilization peaked at %.0f%%", maxUtilizationPct(s))
					},
				},
				{
					Name: "emergency_fund",
					Test: func(s *model.SignalSet) bool { return s.EmergencyFundMonths >= 3 },
					Reason: func(s *model.SignalSet) string {
						return fmt.Sprintf("emergency savings cover %.1f months of expenses", s.EmergencyFundMonths)
					},
				},
				{
					Name: "payments_current",
					Test: func(s *model.SignalSet) bool {
						return len(s.Utilization) > 0 && !s.Overdue && !s.MinimumPaymentOnly
					},
					Reason: func(_ *model.SignalSet) string {
						return "all credit accounts current and paid above minimum"
					},
				},
				{
					Name: "steady_income",
					Test: func(s *model.SignalSet) bool {
						return s.PayrollDetected && s.MedianPayGapDays > 0 && s.MedianPayGapDays <= 16
					},
					Reason: func(s *model.SignalSet) string {
						return fmt.Sprintf("steady payroll every %.0f days", s.MedianPayGapDays)
					},
				},
			},
		},
	}
}

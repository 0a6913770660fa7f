package model

import "time"

// Valid signal windows, in days.
const (
	WindowShort = 30
	WindowLong  = 180
)

// SignalSet holds every behavioral signal computed for one user over one
// trailing window. It is recomputed wholesale on each pipeline run and never
// partially patched; absent input data yields zero values, not errors.
type SignalSet struct {
	ComputedAt time.Time
	UserID     string
	WindowDays int

	// Subscription signals.
	SubscriptionCount int
	SubscriptionSpend float64 // monthly spend across recurring merchants, positive
	SubscriptionShare float64 // fraction of total expense spend, 0..1

	// Savings signals.
	SavingsNetInflow    float64
	SavingsGrowthRate   float64 // (end - start) / start; 0 when start balance is 0
	EmergencyFundMonths float64

	// Credit signals. Utilization is keyed by account ID; a nil entry means the
	// account has no known credit limit and is excluded from min/max aggregates.
	Utilization          map[string]*float64
	MaxUtilization       *float64
	MaxCardBalance       float64 // balance on the most-utilized credit account
	AnyUtilizationOver30 bool
	AnyUtilizationOver50 bool
	AnyUtilizationOver80 bool
	MinimumPaymentOnly   bool
	Overdue              bool
	InterestCharges      float64

	// Income signals.
	TotalIncome            float64 // positive inflows within the window
	AvgMonthlyIncome       float64
	IncomeTransactionCount int
	PayrollDetected        bool
	MedianPayGapDays       float64
	CashFlowBufferMonths   float64
	BufferUnbounded        bool // no expenses in window: buffer is effectively infinite

	// Aggregates the above are derived from; kept for rationale templates.
	TotalExpenseSpend float64 // positive
	AvgMonthlyExpense float64
	LiquidBalance     float64
}

// HasUnboundedBuffer reports whether the cash-flow buffer is undefined
// because the window contained no expenses.
func (s *SignalSet) HasUnboundedBuffer() bool {
	return s.BufferUnbounded
}

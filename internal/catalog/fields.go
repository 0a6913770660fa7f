package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/mintwell/mintwell/internal/model"
)

// fieldKind controls how a signal value renders inside rationale text.
type fieldKind int

const (
	kindMoney fieldKind = iota
	kindPercent
	kindRate // fraction rendered as a percentage
	kindCount
	kindDays
	kindMonths
)

// fieldSpec binds a template/trigger name to a SignalSet field. Get returns
// ok=false when the underlying value is unavailable for this user, which
// fails the trigger or skips the template instead of erroring.
type fieldSpec struct {
	get  func(*model.SignalSet) (float64, bool)
	kind fieldKind
}

var fieldSpecs = map[string]fieldSpec{
	"subscription_count": {
		get:  func(s *model.SignalSet) (float64, bool) { return float64(s.SubscriptionCount), true },
		kind: kindCount,
	},
	"subscription_spend": {
		get:  func(s *model.SignalSet) (float64, bool) { return s.SubscriptionSpend, true },
		kind: kindMoney,
	},
	"subscription_share": {
		get:  func(s *model.SignalSet) (float64, bool) { return s.SubscriptionShare, true },
		kind: kindRate,
	},
	"savings_net_inflow": {
		get:  func(s *model.SignalSet) (float64, bool) { return s.SavingsNetInflow, true },
		kind: kindMoney,
	},
	"savings_growth_rate": {
		get:  func(s *model.SignalSet) (float64, bool) { return s.SavingsGrowthRate, true },
		kind: kindRate,
	},
	"emergency_fund_months": {
		get:  func(s *model.SignalSet) (float64, bool) { return s.EmergencyFundMonths, true },
		kind: kindMonths,
	},
	"max_utilization": {
		get: func(s *model.SignalSet) (float64, bool) {
			if s.MaxUtilization == nil {
				return 0, false
			}
			return *s.MaxUtilization, true
		},
		kind: kindRate,
	},
	"max_card_balance": {
		get: func(s *model.SignalSet) (float64, bool) {
			if s.MaxCardBalance <= 0 {
				return 0, false
			}
			return s.MaxCardBalance, true
		},
		kind: kindMoney,
	},
	"interest_charges": {
		get:  func(s *model.SignalSet) (float64, bool) { return s.InterestCharges, true },
		kind: kindMoney,
	},
	"median_pay_gap_days": {
		get: func(s *model.SignalSet) (float64, bool) {
			if !s.PayrollDetected {
				return 0, false
			}
			return s.MedianPayGapDays, true
		},
		kind: kindDays,
	},
	"cash_flow_buffer_months": {
		get: func(s *model.SignalSet) (float64, bool) {
			if s.BufferUnbounded {
				return 0, false
			}
			return s.CashFlowBufferMonths, true
		},
		kind: kindMonths,
	},
	"total_expense_spend": {
		get:  func(s *model.SignalSet) (float64, bool) { return s.TotalExpenseSpend, true },
		kind: kindMoney,
	},
	"avg_monthly_expense": {
		get:  func(s *model.SignalSet) (float64, bool) { return s.AvgMonthlyExpense, true },
		kind: kindMoney,
	},
	"avg_monthly_income": {
		get:  func(s *model.SignalSet) (float64, bool) { return s.AvgMonthlyIncome, true },
		kind: kindMoney,
	},
	"liquid_balance": {
		get:  func(s *model.SignalSet) (float64, bool) { return s.LiquidBalance, true },
		kind: kindMoney,
	},
}

// FieldValue resolves a named signal field, reporting ok=false when the value
// is unavailable for this user.
func FieldValue(name string, sig *model.SignalSet) (float64, bool) {
	spec, known := fieldSpecs[name]
	if !known {
		return 0, false
	}
	return spec.get(sig)
}

// FormatField renders a named signal field for use in rationale text,
// reporting ok=false when the value is unavailable.
func FormatField(name string, sig *model.SignalSet) (string, bool) {
	spec, known := fieldSpecs[name]
	if !known {
		return "", false
	}
	value, ok := spec.get(sig)
	if !ok {
		return "", false
	}
	return formatValue(value, spec.kind), true
}

func formatValue(value float64, kind fieldKind) string {
	switch kind {
	case kindMoney:
		return formatMoney(value)
	case kindPercent:
		return fmt.Sprintf("%.0f%%", value)
	case kindRate:
		return fmt.Sprintf("%.0f%%", value*100)
	case kindCount:
		return fmt.Sprintf("%d", int(value))
	case kindDays:
		return fmt.Sprintf("%.0f days", value)
	case kindMonths:
		return fmt.Sprintf("%.1f months", value)
	}
	return fmt.Sprintf("%v", value)
}

// formatMoney renders a dollar amount with thousands separators, dropping
// cents on whole amounts: $3,400 and $72.50.
func formatMoney(value float64) string {
	negative := value < 0
	value = math.Abs(value)

	whole := int64(value)
	cents := int64(math.Round((value - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := "$" + b.String()
	if cents > 0 {
		out = fmt.Sprintf("%s.%02d", out, cents)
	}
	if negative {
		out = "-" + out
	}
	return out
}

package signal

import (
	"regexp"
	"sort"
	"time"

	"github.com/mintwell/mintwell/internal/model"
)

// Lookback used for cadence detection, independent of the signal window.
const recurrenceLookbackDays = 90

// A merchant needs at least this many transactions in the lookback before
// cadence is considered.
const minRecurrenceCount = 3

// gapBand is an inclusive range of acceptable inter-transaction gaps in days.
type gapBand struct {
	lo float64
	hi float64
}

// Subscription cadences: weekly and monthly, tolerance of 3 days either way.
var subscriptionBands = []gapBand{
	{lo: 4, hi: 10},
	{lo: 27, hi: 33},
}

// Payroll cadences additionally include biweekly and semi-monthly.
var payrollBands = []gapBand{
	{lo: 4, hi: 10},
	{lo: 11, hi: 17},
	{lo: 27, hi: 33},
}

// payrollPatterns match transaction descriptions that look like wages or
// direct deposits. Compiled once at package init.
var payrollPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(DIRECTDEP|DIRECT\s*DEP|DIR\s*DEP|PAYROLL|SALARY|WAGES)\b`),
	regexp.MustCompile(`(?i)\b(PAYCHECK|PAY\s*CHECK|EMPLOYER|ADP|GUSTO|PAYCHEX)\b`),
}

// matchesPayroll reports whether a transaction looks like a payroll inflow.
func matchesPayroll(txn model.Transaction) bool {
	if !txn.IsInflow() {
		return false
	}
	if txn.Category == "income" {
		return true
	}
	text := txn.Name + " " + txn.MerchantName
	for _, re := range payrollPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// merchantGroup holds one merchant's transactions sorted by date, with the
// median gap in days between successive transactions.
type merchantGroup struct {
	merchant     string
	transactions []model.Transaction
	medianGap    float64
}

// groupByMerchant buckets transactions by cleaned merchant name, dropping
// transactions without one, and sorts each bucket by date.
func groupByMerchant(txns []model.Transaction) []merchantGroup {
	buckets := make(map[string][]model.Transaction)
	for _, txn := range txns {
		if txn.MerchantName == "" {
			continue
		}
		buckets[txn.MerchantName] = append(buckets[txn.MerchantName], txn)
	}

	groups := make([]merchantGroup, 0, len(buckets))
	for merchant, list := range buckets {
		sort.Slice(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
		groups = append(groups, merchantGroup{
			merchant:     merchant,
			transactions: list,
			medianGap:    medianGapDays(list),
		})
	}

	// Deterministic order regardless of map iteration.
	sort.Slice(groups, func(i, j int) bool { return groups[i].merchant < groups[j].merchant })
	return groups
}

// medianGapDays returns the median gap in days between successive
// transactions. Zero when there are fewer than two transactions.
func medianGapDays(sorted []model.Transaction) float64 {
	if len(sorted) < 2 {
		return 0
	}
	gaps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, sorted[i].Date.Sub(sorted[i-1].Date).Hours()/24)
	}
	return median(gaps)
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// inAnyBand reports whether a gap falls inside any cadence band.
func inAnyBand(gap float64, bands []gapBand) bool {
	for _, band := range bands {
		if gap >= band.lo && gap <= band.hi {
			return true
		}
	}
	return false
}

// recurringGroups filters merchant groups down to the ones with enough
// transactions in the lookback window and a median gap inside a cadence band.
func recurringGroups(txns []model.Transaction, asOf time.Time, bands []gapBand) []merchantGroup {
	cutoff := asOf.AddDate(0, 0, -recurrenceLookbackDays)
	recent := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		if !txn.Date.Before(cutoff) && !txn.Date.After(asOf) {
			recent = append(recent, txn)
		}
	}

	var out []merchantGroup
	for _, group := range groupByMerchant(recent) {
		if len(group.transactions) < minRecurrenceCount {
			continue
		}
		if !inAnyBand(group.medianGap, bands) {
			continue
		}
		out = append(out, group)
	}
	return out
}

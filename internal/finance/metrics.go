package finance

import (
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MajorityThreshold is the underperformance rate at which most funds lag their benchmark.
const MajorityThreshold = 50.0

// ComputeSummary aggregates one period of the matrix. It reports false when the
// period is unknown or holds no finite values.
func ComputeSummary(m Matrix, period string) (SummaryMetrics, bool) {
	raw, ok := m.Periods[period]
	if !ok {
		return SummaryMetrics{}, false
	}
	values, labels := finitePairs(m.Categories, raw)
	if len(values) == 0 {
		return SummaryMetrics{}, false
	}

	// MaxIdx / MinIdx return the first index on ties.
	maxIdx := floats.MaxIdx(values)
	minIdx := floats.MinIdx(values)

	s := SummaryMetrics{
		Period:  period,
		Average: stat.Mean(values, nil),
		Total:   len(values),
		Max:     Extreme{Value: values[maxIdx], Label: labels[maxIdx]},
		Min:     Extreme{Value: values[minIdx]},
		values:  values,
	}
	s.AtOrAbove50 = s.CountAtOrAbove(MajorityThreshold)
	return s, true
}

// FormatPercent renders v with two decimals, or "n/a" when v is not finite.
func FormatPercent(v float64) string {
	if !isFinite(v) {
		return "n/a"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

package finance

import "math"

// BarPalette colors bars by category position; it repeats when there are more categories.
var BarPalette = []string{"rgba(54, 162, 235, 0.8)", "rgba(34, 197, 94, 0.8)"}

// LinePalette colors trend lines by category position.
var LinePalette = []string{"rgba(54, 162, 235, 1)", "rgba(34, 197, 94, 1)"}

func paletteColor(palette []string, i int) string {
	if len(palette) == 0 {
		return ""
	}
	return palette[i%len(palette)]
}

// BuildBarSeries shapes one period into a bar chart. Absent under the same
// conditions as ComputeSummary.
func BuildBarSeries(m Matrix, period string) (BarSeries, bool) {
	if _, ok := ComputeSummary(m, period); !ok {
		return BarSeries{}, false
	}
	raw := m.Periods[period]
	values := make([]float64, len(m.Categories))
	colors := make([]string, len(m.Categories))
	for i := range m.Categories {
		values[i] = math.NaN()
		if i < len(raw) {
			values[i] = raw[i]
		}
		colors[i] = paletteColor(BarPalette, i)
	}
	return BarSeries{
		Labels: append([]string(nil), m.Categories...),
		Dataset: BarDataset{
			Label:  period + " Performance (%)",
			Values: values,
			Colors: colors,
		},
	}, true
}

// TrendPeriods returns PreferredPeriods filtered to the periods present in m.
func TrendPeriods(m Matrix) []string {
	out := make([]string, 0, len(PreferredPeriods))
	for _, p := range PreferredPeriods {
		if _, ok := m.Periods[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// BuildTrendSeries shapes the matrix into one line per category across the
// preferred periods. Missing or non-finite points are nil so renderers leave a gap.
func BuildTrendSeries(m Matrix) TrendSeries {
	labels := TrendPeriods(m)
	datasets := make([]TrendDataset, 0, len(m.Categories))
	for idx, cat := range m.Categories {
		vals := make([]*float64, len(labels))
		for j, p := range labels {
			raw := m.Periods[p]
			if idx < len(raw) && isFinite(raw[idx]) {
				v := raw[idx]
				vals[j] = &v
			}
		}
		datasets = append(datasets, TrendDataset{
			Label:  cat,
			Values: vals,
			Color:  paletteColor(LinePalette, idx),
		})
	}
	return TrendSeries{Labels: labels, Datasets: datasets}
}

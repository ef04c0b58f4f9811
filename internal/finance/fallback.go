package finance

// Fallback is the built-in dataset served when the upstream source is unreachable.
// It hands out copies so callers cannot mutate the shared value.
type Fallback struct {
	matrix     Matrix
	detailRows []RawRow
}

// NewFallback builds a Fallback from its own copies of m and rows.
func NewFallback(m Matrix, rows []RawRow) Fallback {
	cp := make([]RawRow, len(rows))
	for i, r := range rows {
		cp[i] = r.Clone()
	}
	return Fallback{matrix: m.Clone(), detailRows: cp}
}

// Matrix returns a copy of the fallback matrix.
func (f Fallback) Matrix() Matrix { return f.matrix.Clone() }

// DetailRows returns a copy of the fallback detail rows.
func (f Fallback) DetailRows() []RawRow {
	out := make([]RawRow, len(f.detailRows))
	for i, r := range f.detailRows {
		out[i] = r.Clone()
	}
	return out
}

// DefaultFallback mirrors the published S&P SPIVA figures as of Jun 30, 2025.
func DefaultFallback() Fallback {
	return NewFallback(
		Matrix{
			Categories: []string{"S&P 500®", "All Large-Cap"},
			Periods: map[string][]float64{
				Period1Y:  {72.61, 27.39},
				Period3Y:  {64.87, 35.13},
				Period5Y:  {86.91, 13.09},
				Period10Y: {85.98, 14.02},
				Period15Y: {88.29, 11.71},
			},
		},
		[]RawRow{
			{
				"id":               1,
				"Asset Class":      "U.S. Equity",
				"Fund Category":    "All Large-Cap",
				"Comparison Index": "S&P 500®",
				"1 YR (%)":         72.61,
				"3 YR (%)":         64.87,
				"5 YR (%)":         86.91,
				"10 YR (%)":        85.98,
				"15 YR (%)":        88.29,
			},
			{
				"id":               2,
				"Asset Class":      "U.S. Equity",
				"Fund Category":    "All Domestic",
				"Comparison Index": "S&P Composite 1500®",
				"1 YR (%)":         74.87,
				"3 YR (%)":         79.32,
				"5 YR (%)":         88.32,
				"10 YR (%)":        90.31,
				"15 YR (%)":        92.52,
			},
		},
	)
}

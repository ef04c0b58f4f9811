package finance

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// Period labels as they appear in the upstream matrix, in display order.
const (
	Period1Y  = "1 YR"
	Period3Y  = "3 YR"
	Period5Y  = "5 YR"
	Period10Y = "10 YR"
	Period15Y = "15 YR"
)

// PreferredPeriods is the authoritative ordering for trend labels and table columns.
var PreferredPeriods = []string{Period1Y, Period3Y, Period5Y, Period10Y, Period15Y}

// ErrMatrixShape reports a period whose value count differs from the category count.
var ErrMatrixShape = errors.New("matrix shape mismatch")

// Matrix is the category × period grid of underperformance rates.
// Non-numeric upstream values are kept as NaN so positions stay aligned with Categories.
type Matrix struct {
	Categories []string
	Periods    map[string][]float64
}

// matrixWire mirrors the /chart-data payload.
type matrixWire struct {
	Categories []string         `json:"categories"`
	Years      map[string][]any `json:"years"`
}

func (m *Matrix) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var w matrixWire
	if err := dec.Decode(&w); err != nil {
		return err
	}
	m.Categories = w.Categories
	m.Periods = make(map[string][]float64, len(w.Years))
	for label, raw := range w.Years {
		vals := make([]float64, len(raw))
		for i, v := range raw {
			vals[i] = toFloat(v)
		}
		m.Periods[label] = vals
	}
	return nil
}

func (m Matrix) MarshalJSON() ([]byte, error) {
	w := matrixWire{Categories: m.Categories, Years: make(map[string][]any, len(m.Periods))}
	if w.Categories == nil {
		w.Categories = []string{}
	}
	for label, vals := range m.Periods {
		out := make([]any, len(vals))
		for i, v := range vals {
			if isFinite(v) {
				out[i] = v
			}
		}
		w.Years[label] = out
	}
	return json.Marshal(w)
}

// Validate checks that every period is index-aligned with Categories.
func (m Matrix) Validate() error {
	for _, label := range m.PeriodLabels() {
		if n := len(m.Periods[label]); n != len(m.Categories) {
			return fmt.Errorf("%w: period %q has %d values for %d categories", ErrMatrixShape, label, n, len(m.Categories))
		}
	}
	return nil
}

// PeriodLabels returns the period labels sorted lexically.
func (m Matrix) PeriodLabels() []string {
	out := make([]string, 0, len(m.Periods))
	for label := range m.Periods {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	out := Matrix{Categories: append([]string(nil), m.Categories...)}
	if m.Periods != nil {
		out.Periods = make(map[string][]float64, len(m.Periods))
		for label, vals := range m.Periods {
			out.Periods[label] = append([]float64(nil), vals...)
		}
	}
	return out
}

// RawRow is an upstream table row keyed by free-text business labels.
type RawRow map[string]any

// Clone returns a shallow copy; values are scalars.
func (r RawRow) Clone() RawRow {
	out := make(RawRow, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// TableRow is a normalized row with a unique identifier.
type TableRow struct {
	ID     int
	Values map[string]any
}

// Get returns the value for a column field. The "id" field maps to ID.
func (r TableRow) Get(field string) (any, bool) {
	if field == "id" {
		return r.ID, true
	}
	v, ok := r.Values[field]
	return v, ok
}

func (r TableRow) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Values)+1)
	for k, v := range r.Values {
		if f, ok := v.(float64); ok && !isFinite(f) {
			v = nil
		}
		out[k] = v
	}
	out["id"] = r.ID
	return json.Marshal(out)
}

// Column describes one visible table column.
type Column struct {
	Field    string `json:"field"`
	Header   string `json:"header"`
	Sortable bool   `json:"sortable"`
}

// Extreme is an extremum of a period's values.
type Extreme struct {
	Value float64 `json:"value"`
	Label string  `json:"label,omitempty"`
}

// SummaryMetrics are the aggregates of one period.
type SummaryMetrics struct {
	Period      string  `json:"period"`
	Average     float64 `json:"average"`
	Total       int     `json:"total"`
	AtOrAbove50 int     `json:"atOrAbove50"`
	Max         Extreme `json:"max"`
	Min         Extreme `json:"min"`

	values []float64
}

// CountAtOrAbove counts the finite values >= threshold.
func (s SummaryMetrics) CountAtOrAbove(threshold float64) int {
	n := 0
	for _, v := range s.values {
		if v >= threshold {
			n++
		}
	}
	return n
}

// BarDataset is the single dataset of a bar chart.
type BarDataset struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
	Colors []string  `json:"colors"`
}

// MarshalJSON writes non-finite values as null.
func (d BarDataset) MarshalJSON() ([]byte, error) {
	vals := make([]*float64, len(d.Values))
	for i, v := range d.Values {
		if isFinite(v) {
			v := v
			vals[i] = &v
		}
	}
	return json.Marshal(struct {
		Label  string     `json:"label"`
		Values []*float64 `json:"values"`
		Colors []string   `json:"colors"`
	}{d.Label, vals, d.Colors})
}

// BarSeries is a one-period bar chart, one bar per category.
type BarSeries struct {
	Labels  []string   `json:"labels"`
	Dataset BarDataset `json:"dataset"`
}

// TrendDataset is one category's line across periods. A nil value is a gap.
type TrendDataset struct {
	Label  string     `json:"label"`
	Values []*float64 `json:"values"`
	Color  string     `json:"color"`
}

// TrendSeries is the multi-period line chart.
type TrendSeries struct {
	Labels   []string       `json:"labels"`
	Datasets []TrendDataset `json:"datasets"`
}

// Chart image cache entry
type chartCacheEntry struct {
	createdAt time.Time
	image     []byte
}

const defaultChartCacheTTL = 60 * time.Second

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

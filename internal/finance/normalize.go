package finance

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrMissingIdentifier is returned by NormalizeRow when a row carries no usable id.
var ErrMissingIdentifier = errors.New("row has no identifier")

// fieldMapping maps an upstream column label to its stable row key.
type fieldMapping struct {
	Label string
	Key   string
}

// detailFields is the SPIVA detail table mapping, in display order.
var detailFields = []fieldMapping{
	{"Asset Class", "assetClass"},
	{"Fund Category", "fundCategory"},
	{"Comparison Index", "comparisonIndex"},
	{"1 YR (%)", "yr1"},
	{"3 YR (%)", "yr3"},
	{"5 YR (%)", "yr5"},
	{"10 YR (%)", "yr10"},
	{"15 YR (%)", "yr15"},
}

// DetailColumns are the visible columns of the SPIVA detail table.
var DetailColumns = []Column{
	{Field: "assetClass", Header: "Asset Class"},
	{Field: "fundCategory", Header: "Fund Category"},
	{Field: "comparisonIndex", Header: "Comparison Index"},
	{Field: "yr1", Header: "1 YR (%)", Sortable: true},
	{Field: "yr3", Header: "3 YR (%)", Sortable: true},
	{Field: "yr5", Header: "5 YR (%)", Sortable: true},
	{Field: "yr10", Header: "10 YR (%)", Sortable: true},
	{Field: "yr15", Header: "15 YR (%)", Sortable: true},
}

// ComparisonColumns are the visible columns of the category × period table.
var ComparisonColumns = []Column{
	{Field: "category", Header: "Comparison Index"},
	{Field: Period1Y, Header: "1 YR (%)", Sortable: true},
	{Field: Period3Y, Header: "3 YR (%)", Sortable: true},
	{Field: Period5Y, Header: "5 YR (%)", Sortable: true},
	{Field: Period10Y, Header: "10 YR (%)", Sortable: true},
	{Field: Period15Y, Header: "15 YR (%)", Sortable: true},
}

// NormalizeRow maps free-text labels onto stable keys. Unknown labels are dropped.
func NormalizeRow(raw RawRow) (TableRow, error) {
	values := make(map[string]any, len(detailFields))
	for _, f := range detailFields {
		v, ok := raw[f.Label]
		if !ok {
			continue
		}
		values[f.Key] = normalizeScalar(v)
	}
	id, ok := parseID(raw["id"])
	if !ok {
		return TableRow{Values: values}, ErrMissingIdentifier
	}
	return TableRow{ID: id, Values: values}, nil
}

// NormalizeRows normalizes a whole table. Rows without an id, or whose id is
// already taken, get their 1-based position, or the next free id if that is taken too.
func NormalizeRows(raws []RawRow) []TableRow {
	rows := make([]TableRow, len(raws))
	missing := make([]bool, len(raws))
	used := make(map[int]bool, len(raws))
	for i, raw := range raws {
		row, err := NormalizeRow(raw)
		if err != nil || used[row.ID] {
			missing[i] = true
		} else {
			used[row.ID] = true
		}
		rows[i] = row
	}
	next := 1
	for i := range rows {
		if !missing[i] {
			continue
		}
		id := i + 1
		if used[id] {
			for used[next] {
				next++
			}
			id = next
		}
		used[id] = true
		rows[i].ID = id
	}
	return rows
}

// ComparisonRows pivots the matrix into one row per category with a column per preferred period.
func ComparisonRows(m Matrix) []TableRow {
	rows := make([]TableRow, 0, len(m.Categories))
	for idx, cat := range m.Categories {
		values := map[string]any{"category": cat}
		for _, p := range PreferredPeriods {
			values[p] = nil
			if vals, ok := m.Periods[p]; ok && idx < len(vals) && isFinite(vals[idx]) {
				values[p] = vals[idx]
			}
		}
		rows = append(rows, TableRow{ID: idx + 1, Values: values})
	}
	return rows
}

func normalizeScalar(v any) any {
	switch x := v.(type) {
	case json.Number:
		if f := toFloat(x); isFinite(f) {
			return f
		}
		return x.String()
	case int:
		return float64(x)
	case int64:
		return float64(x)
	}
	return v
}

func parseID(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		// float64(math.MaxInt) rounds up, so the upper bound is exclusive
		if isFinite(x) && x == math.Trunc(x) && x >= float64(math.MinInt) && x < float64(math.MaxInt) {
			return int(x), true
		}
	case json.Number:
		if n, err := x.Int64(); err == nil && n >= math.MinInt && n <= math.MaxInt {
			return int(n), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
			return n, true
		}
	}
	return 0, false
}

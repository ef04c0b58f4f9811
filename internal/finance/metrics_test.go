package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSummary(t *testing.T) {
	m := DefaultFallback().Matrix()

	s, ok := ComputeSummary(m, Period1Y)
	require.True(t, ok)
	assert.Equal(t, Period1Y, s.Period)
	assert.Equal(t, 2, s.Total)
	assert.InDelta(t, 50.0, s.Average, 1e-9)
	assert.Equal(t, 72.61, s.Max.Value)
	assert.Equal(t, "S&P 500®", s.Max.Label)
	assert.Equal(t, 27.39, s.Min.Value)
	assert.Equal(t, 1, s.CountAtOrAbove(50))
	assert.Equal(t, 1, s.AtOrAbove50)
	assert.Equal(t, 2, s.CountAtOrAbove(0))
	assert.Equal(t, 0, s.CountAtOrAbove(90))
}

func TestComputeSummarySkipsNonFiniteValues(t *testing.T) {
	m := Matrix{
		Categories: []string{"A", "B", "C"},
		Periods:    map[string][]float64{"X": {math.NaN(), 80, 20}},
	}

	s, ok := ComputeSummary(m, "X")
	require.True(t, ok)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 80.0, s.Max.Value)
	assert.Equal(t, "B", s.Max.Label)
	assert.Equal(t, 20.0, s.Min.Value)
	assert.InDelta(t, 50.0, s.Average, 1e-9)
}

func TestComputeSummaryTiesResolveToFirst(t *testing.T) {
	m := Matrix{
		Categories: []string{"A", "B", "C"},
		Periods:    map[string][]float64{"X": {10, 90, 90}},
	}

	s, ok := ComputeSummary(m, "X")
	require.True(t, ok)
	assert.Equal(t, "B", s.Max.Label)
}

func TestComputeSummaryAbsent(t *testing.T) {
	m := Matrix{
		Categories: []string{"A", "B"},
		Periods:    map[string][]float64{"X": {math.NaN(), math.Inf(1)}},
	}

	_, ok := ComputeSummary(m, "X")
	assert.False(t, ok)
	_, ok = ComputeSummary(m, "missing")
	assert.False(t, ok)
	_, ok = ComputeSummary(Matrix{}, Period1Y)
	assert.False(t, ok)
}

func TestComputeSummaryIsIdempotent(t *testing.T) {
	m := DefaultFallback().Matrix()
	a, _ := ComputeSummary(m, Period5Y)
	b, _ := ComputeSummary(m, Period5Y)
	assert.Equal(t, a, b)
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "72.61", FormatPercent(72.61))
	assert.Equal(t, "50.00", FormatPercent(50))
	assert.Equal(t, "n/a", FormatPercent(math.NaN()))
}

package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFallback(t *testing.T) {
	f := DefaultFallback()
	m := f.Matrix()

	require.NoError(t, m.Validate())
	assert.Equal(t, []string{"S&P 500®", "All Large-Cap"}, m.Categories)
	assert.Equal(t, []string{Period1Y, Period3Y, Period5Y, Period10Y, Period15Y}, TrendPeriods(m))

	rows := f.DetailRows()
	require.Len(t, rows, 2)
	assert.Equal(t, "All Large-Cap", rows[0]["Fund Category"])
}

func TestFallbackReturnsCopies(t *testing.T) {
	f := DefaultFallback()

	m := f.Matrix()
	m.Categories[0] = "changed"
	m.Periods[Period1Y][0] = 0
	delete(m.Periods, Period3Y)

	rows := f.DetailRows()
	rows[0]["Asset Class"] = "changed"

	again := f.Matrix()
	assert.Equal(t, "S&P 500®", again.Categories[0])
	assert.Equal(t, 72.61, again.Periods[Period1Y][0])
	assert.Contains(t, again.Periods, Period3Y)
	assert.Equal(t, "U.S. Equity", f.DetailRows()[0]["Asset Class"])
}

func TestNewFallbackCopiesInput(t *testing.T) {
	m := Matrix{Categories: []string{"A"}, Periods: map[string][]float64{"X": {1}}}
	f := NewFallback(m, []RawRow{{"id": 1}})
	m.Periods["X"][0] = 99

	assert.Equal(t, 1.0, f.Matrix().Periods["X"][0])
}

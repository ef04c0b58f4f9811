package finance

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBarSeries(t *testing.T) {
	m := DefaultFallback().Matrix()

	s, ok := BuildBarSeries(m, Period1Y)
	require.True(t, ok)
	assert.Equal(t, []string{"S&P 500®", "All Large-Cap"}, s.Labels)
	assert.Equal(t, "1 YR Performance (%)", s.Dataset.Label)
	assert.Equal(t, []float64{72.61, 27.39}, s.Dataset.Values)
	assert.Equal(t, BarPalette, s.Dataset.Colors)
}

func TestBuildBarSeriesCyclesPalette(t *testing.T) {
	m := Matrix{
		Categories: []string{"A", "B", "C"},
		Periods:    map[string][]float64{"X": {1, 2, 3}},
	}

	s, ok := BuildBarSeries(m, "X")
	require.True(t, ok)
	assert.Equal(t, []string{BarPalette[0], BarPalette[1], BarPalette[0]}, s.Dataset.Colors)
}

func TestBuildBarSeriesKeepsGapsAligned(t *testing.T) {
	m := Matrix{
		Categories: []string{"A", "B", "C"},
		Periods:    map[string][]float64{"X": {1, math.NaN(), 3}},
	}

	s, ok := BuildBarSeries(m, "X")
	require.True(t, ok)
	require.Len(t, s.Dataset.Values, 3)
	assert.True(t, math.IsNaN(s.Dataset.Values[1]))

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"values":[1,null,3]`)
}

func TestBuildBarSeriesShortPeriodLeavesGaps(t *testing.T) {
	m := Matrix{
		Categories: []string{"A", "B", "C"},
		Periods:    map[string][]float64{"X": {40}},
	}

	s, ok := BuildBarSeries(m, "X")
	require.True(t, ok)
	require.Len(t, s.Dataset.Values, 3)
	assert.Equal(t, 40.0, s.Dataset.Values[0])
	assert.True(t, math.IsNaN(s.Dataset.Values[1]))
	assert.True(t, math.IsNaN(s.Dataset.Values[2]))

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"values":[40,null,null]`)
}

func TestBuildBarSeriesAbsent(t *testing.T) {
	_, ok := BuildBarSeries(DefaultFallback().Matrix(), "20 YR")
	assert.False(t, ok)
}

func TestBuildTrendSeriesOrdersPreferredPeriods(t *testing.T) {
	m := Matrix{
		Categories: []string{"A", "B"},
		Periods: map[string][]float64{
			Period5Y: {5, 50},
			"2 YR":   {2, 20},
			Period1Y: {1, 10},
		},
	}

	s := BuildTrendSeries(m)
	assert.Equal(t, []string{Period1Y, Period5Y}, s.Labels)
	require.Len(t, s.Datasets, 2)
	assert.Equal(t, "A", s.Datasets[0].Label)
	assert.Equal(t, LinePalette[0], s.Datasets[0].Color)
	assert.Equal(t, LinePalette[1], s.Datasets[1].Color)
	require.NotNil(t, s.Datasets[1].Values[1])
	assert.Equal(t, 50.0, *s.Datasets[1].Values[1])
}

func TestBuildTrendSeriesGaps(t *testing.T) {
	m := Matrix{
		Categories: []string{"A"},
		Periods: map[string][]float64{
			Period1Y: {math.NaN()},
			Period3Y: {30},
		},
	}

	s := BuildTrendSeries(m)
	require.Len(t, s.Datasets, 1)
	assert.Nil(t, s.Datasets[0].Values[0])
	require.NotNil(t, s.Datasets[0].Values[1])

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"values":[null,30]`)
}

func TestBuildTrendSeriesEmpty(t *testing.T) {
	s := BuildTrendSeries(Matrix{Categories: []string{"A"}, Periods: map[string][]float64{}})
	assert.Empty(t, s.Labels)
	require.Len(t, s.Datasets, 1)
	assert.Empty(t, s.Datasets[0].Values)
}

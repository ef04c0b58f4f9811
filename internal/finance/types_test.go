package finance

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixUnmarshalCoercesValues(t *testing.T) {
	var m Matrix
	err := json.Unmarshal([]byte(`{"categories":["A","B","C"],"years":{"1 YR":[1.5,"n/a",null]}}`), &m)
	require.NoError(t, err)

	vals := m.Periods[Period1Y]
	require.Len(t, vals, 3)
	assert.Equal(t, 1.5, vals[0])
	assert.True(t, math.IsNaN(vals[1]))
	assert.True(t, math.IsNaN(vals[2]))
}

func TestMatrixMarshalWritesNull(t *testing.T) {
	m := Matrix{Categories: []string{"A", "B"}, Periods: map[string][]float64{"X": {math.NaN(), 2}}}
	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"categories":["A","B"],"years":{"X":[null,2]}}`, string(b))
}

func TestMatrixValidate(t *testing.T) {
	ok := Matrix{Categories: []string{"A"}, Periods: map[string][]float64{"X": {1}}}
	assert.NoError(t, ok.Validate())

	bad := Matrix{Categories: []string{"A", "B"}, Periods: map[string][]float64{"X": {1}}}
	assert.ErrorIs(t, bad.Validate(), ErrMatrixShape)
}

func TestToFloat(t *testing.T) {
	assert.Equal(t, 72.61, toFloat(json.Number("72.61")))
	assert.Equal(t, 3.0, toFloat(3))
	assert.Equal(t, 12.5, toFloat(" 12.5 "))
	assert.True(t, math.IsNaN(toFloat("")))
	assert.True(t, math.IsNaN(toFloat(nil)))
	assert.True(t, math.IsNaN(toFloat(true)))
}

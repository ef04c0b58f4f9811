package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputKeyIsOrderIndependent(t *testing.T) {
	a := Matrix{Categories: []string{"A"}, Periods: map[string][]float64{"1": {1}, "2": {2}, "3": {3}}}
	b := a.Clone()

	ka, err := InputKey(a, "1")
	require.NoError(t, err)
	kb, err := InputKey(b, "1")
	require.NoError(t, err)
	assert.Equal(t, ka, kb)

	kc, err := InputKey(a, "2")
	require.NoError(t, err)
	assert.NotEqual(t, ka, kc)
}

func TestMemoRecomputesOnlyOnChange(t *testing.T) {
	memo := NewMemo(ComputeSummary)
	m := DefaultFallback().Matrix()

	first, ok := memo.Get(m, Period1Y)
	require.True(t, ok)
	second, _ := memo.Get(m.Clone(), Period1Y)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, memo.Computations())

	_, ok = memo.Get(m, Period3Y)
	require.True(t, ok)
	assert.Equal(t, 2, memo.Computations())

	m.Periods[Period3Y][0] = 1
	s, _ := memo.Get(m, Period3Y)
	assert.Equal(t, 3, memo.Computations())
	assert.Equal(t, "All Large-Cap", s.Max.Label)
}

func TestMemoRemembersAbsence(t *testing.T) {
	memo := NewMemo(BuildBarSeries)
	m := DefaultFallback().Matrix()

	_, ok := memo.Get(m, "missing")
	assert.False(t, ok)
	_, ok = memo.Get(m, "missing")
	assert.False(t, ok)
	assert.Equal(t, 1, memo.Computations())
}

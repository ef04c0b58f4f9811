package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spivaDashboard/internal/finance"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text string
		want Command
	}{
		{"/spiva", Command{Name: "spiva", Period: "1 YR"}},
		{"/spiva 5y", Command{Name: "spiva", Period: "5 YR"}},
		{"/spiva@spiva_bot 10 yr", Command{Name: "spiva", Period: "10 YR"}},
		{"/trend", Command{Name: "trend"}},
		{"/fees", Command{Name: "fees"}},
		{"/export", Command{Name: "export", Table: "detail"}},
		{"/export comparison", Command{Name: "export", Table: "comparison"}},
		{"/export detail all domestic", Command{Name: "export", Table: "detail", Filter: "all domestic"}},
		{"/export vanguard", Command{Name: "export", Table: "detail", Filter: "vanguard"}},
		{"/insight 15", Command{Name: "insight", Period: "15 YR"}},
		{"  /help  ", Command{Name: "help"}},
		{"/start", Command{Name: "help"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParseCommand(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommandIgnoresOtherText(t *testing.T) {
	for _, text := range []string{"", "hello", "/spivax", "/trend 5y", "/stocks SPY"} {
		_, ok := ParseCommand(text)
		assert.False(t, ok, text)
	}
}

func TestNormalizePeriod(t *testing.T) {
	assert.Equal(t, "1 YR", NormalizePeriod(""))
	assert.Equal(t, "3 YR", NormalizePeriod("3"))
	assert.Equal(t, "3 YR", NormalizePeriod("3 YR"))
	assert.Equal(t, "3 YR", NormalizePeriod("3years"))
	assert.Equal(t, "YTD", NormalizePeriod("ytd"))
}

func TestSummaryCaption(t *testing.T) {
	s, ok := finance.ComputeSummary(finance.DefaultFallback().Matrix(), finance.Period1Y)
	require.True(t, ok)

	caption := SummaryCaption(s)
	assert.Contains(t, caption, "SPIVA 1 YR")
	assert.Contains(t, caption, "avg 50.00%")
	assert.Contains(t, caption, "1/2 at or above 50.00%")
	assert.Contains(t, caption, "max S&P 500® (72.61%)")
	assert.Contains(t, caption, "min 27.39%")
}

func TestFeesText(t *testing.T) {
	text := FeesText(finance.DefaultFeeComparison())
	assert.Contains(t, text, "Active fees are ~33× higher")
	assert.Contains(t, text, "Index fund fees: $3 per $10,000 / yr (0.03% / yr, low-cost index tracking)")
	assert.Contains(t, text, "Active fund fees: $100 per $10,000 / yr (1.00% / yr, management + operating fees)")
}

func TestPeriodsHint(t *testing.T) {
	assert.Equal(t, "Available periods: 1 YR, 3 YR, 5 YR, 10 YR, 15 YR", PeriodsHint(finance.DefaultFallback().Matrix()))
	assert.Equal(t, "No periods available.", PeriodsHint(finance.Matrix{}))
}

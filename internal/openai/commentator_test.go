package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spivaDashboard/internal/finance"
)

func TestCommentaryPrompt(t *testing.T) {
	s, ok := finance.ComputeSummary(finance.DefaultFallback().Matrix(), finance.Period15Y)
	require.True(t, ok)

	prompt := CommentaryPrompt(s)
	assert.Contains(t, prompt, "Period: 15 YR\n")
	assert.Contains(t, prompt, "Categories: 2\n")
	assert.Contains(t, prompt, "Average underperformance: 50.00%\n")
	assert.Contains(t, prompt, "Categories at or above 50.00%: 1 of 2\n")
	assert.Contains(t, prompt, "Highest: S&P 500® at 88.29%\n")
	assert.Contains(t, prompt, "Lowest rate: 11.71%\n")
}

func TestNewCommentator(t *testing.T) {
	c := NewCommentator("test-key")
	assert.Equal(t, "gpt-4", c.model)
}

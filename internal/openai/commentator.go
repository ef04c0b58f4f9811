package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"spivaDashboard/internal/finance"
)

const commentarySystemPrompt = `You are a financial writer summarizing S&P SPIVA scorecard figures for a chat audience.
The numbers are the percentage of actively managed funds that underperformed their benchmark.

Write at most four short sentences:
- State which category underperformed most and least for the period.
- Mention whether most categories were at or above 50% underperformance.
- Do not invent figures that are not in the input.
- Plain text only, no markdown tables.`

type Commentator struct {
	cli   oa.Client
	model string
}

func NewCommentator(apiKey string) *Commentator {
	client := oa.NewClient(option.WithAPIKey(apiKey))
	return &Commentator{cli: client, model: "gpt-4"}
}

// Comment asks the model for a short narrative of s.
func (c *Commentator) Comment(ctx context.Context, s finance.SummaryMetrics) (string, error) {
	resp, err := c.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: c.model,
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(commentarySystemPrompt),
			oa.UserMessage(CommentaryPrompt(s)),
		},
		MaxTokens: oa.Int(300),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// CommentaryPrompt renders the figures the model may use.
func CommentaryPrompt(s finance.SummaryMetrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Period: %s\n", s.Period)
	fmt.Fprintf(&b, "Categories: %d\n", s.Total)
	fmt.Fprintf(&b, "Average underperformance: %s%%\n", finance.FormatPercent(s.Average))
	fmt.Fprintf(&b, "Categories at or above %s%%: %d of %d\n", finance.FormatPercent(finance.MajorityThreshold), s.AtOrAbove50, s.Total)
	fmt.Fprintf(&b, "Highest: %s at %s%%\n", s.Max.Label, finance.FormatPercent(s.Max.Value))
	fmt.Fprintf(&b, "Lowest rate: %s%%\n", finance.FormatPercent(s.Min.Value))
	return b.String()
}

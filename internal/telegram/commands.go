package telegram

import (
	"fmt"
	"regexp"
	"strings"

	"spivaDashboard/internal/finance"
)

// Command is a parsed chat command.
type Command struct {
	Name   string
	Period string
	Table  string
	Filter string
}

var (
	// /spiva [period]
	reSpiva = regexp.MustCompile(`^/spiva(?:@[\w_]+)?(?:\s+(.+))?$`)
	reTrend = regexp.MustCompile(`^/trend(?:@[\w_]+)?$`)
	reFees  = regexp.MustCompile(`^/fees(?:@[\w_]+)?$`)
	// /export [comparison|detail] [filter...]
	reExport  = regexp.MustCompile(`^/export(?:@[\w_]+)?(?:\s+(comparison|detail))?(?:\s+(.+))?$`)
	reInsight = regexp.MustCompile(`^/insight(?:@[\w_]+)?(?:\s+(.+))?$`)
	reHelp    = regexp.MustCompile(`^/(help|start)(?:@[\w_]+)?$`)

	rePeriod = regexp.MustCompile(`^(\d+)\s*(?:y|yr|yrs|year|years)?$`)
)

// ParseCommand recognizes the bot's commands. Unknown text reports false.
func ParseCommand(text string) (Command, bool) {
	txt := strings.TrimSpace(text)
	switch {
	case reSpiva.MatchString(txt):
		g := reSpiva.FindStringSubmatch(txt)
		return Command{Name: "spiva", Period: NormalizePeriod(g[1])}, true
	case reTrend.MatchString(txt):
		return Command{Name: "trend"}, true
	case reFees.MatchString(txt):
		return Command{Name: "fees"}, true
	case reExport.MatchString(txt):
		g := reExport.FindStringSubmatch(txt)
		table := g[1]
		if table == "" {
			table = "detail"
		}
		return Command{Name: "export", Table: table, Filter: strings.TrimSpace(g[2])}, true
	case reInsight.MatchString(txt):
		g := reInsight.FindStringSubmatch(txt)
		return Command{Name: "insight", Period: NormalizePeriod(g[1])}, true
	case reHelp.MatchString(txt):
		return Command{Name: "help"}, true
	}
	return Command{}, false
}

// NormalizePeriod maps "5", "5y", "5yr" or "5 YR" onto the "5 YR" label.
// An empty argument selects the 1 YR period.
func NormalizePeriod(arg string) string {
	a := strings.ToLower(strings.TrimSpace(arg))
	if a == "" {
		return finance.Period1Y
	}
	if g := rePeriod.FindStringSubmatch(a); g != nil {
		return g[1] + " YR"
	}
	return strings.ToUpper(strings.TrimSpace(arg))
}

// SummaryCaption is the photo caption for a period's bar chart.
func SummaryCaption(s finance.SummaryMetrics) string {
	return fmt.Sprintf("SPIVA %s • avg %s%% • %d/%d at or above %s%% • max %s (%s%%) • min %s%%",
		s.Period,
		finance.FormatPercent(s.Average),
		s.AtOrAbove50, s.Total,
		finance.FormatPercent(finance.MajorityThreshold),
		s.Max.Label, finance.FormatPercent(s.Max.Value),
		finance.FormatPercent(s.Min.Value),
	)
}

// FeesText is the chat rendering of a fee comparison.
func FeesText(f finance.FeeComparison) string {
	return fmt.Sprintf("Fees vs Index\n%s\n\n%s: %s (%s, %s)\n%s: %s (%s, %s)",
		f.Headline(),
		f.Index.Label, f.CostText(f.Index), f.Index.RateText(), f.Index.Note,
		f.Active.Label, f.CostText(f.Active), f.Active.RateText(), f.Active.Note,
	)
}

// PeriodsHint lists the periods the matrix offers, for "unknown period" replies.
func PeriodsHint(m finance.Matrix) string {
	labels := finance.TrendPeriods(m)
	if len(labels) == 0 {
		return "No periods available."
	}
	return "Available periods: " + strings.Join(labels, ", ")
}

const helpText = "Commands\n\n" +
	"- /spiva [1|3|5|10|15] - Bar chart and summary for one period (default: 1 YR)\n" +
	"- /trend - Line chart across every period\n" +
	"- /fees - Index vs active fund fees on $10,000\n" +
	"- /export [comparison|detail] [filter] - CSV of the table, filtered by text\n" +
	"- /insight [period] - Short written commentary for a period\n" +
	"\nData falls back to built-in figures when the source API is unreachable."

package finance

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Published expense ratios, in percent per year.
var (
	IndexFeePct  = decimal.RequireFromString("0.03")
	ActiveFeePct = decimal.RequireFromString("1.00")
	FeePrincipal = decimal.NewFromInt(10000)
)

var hundred = decimal.NewFromInt(100)

// FeeLine is one side of the fee comparison.
type FeeLine struct {
	Label      string
	Note       string
	RatePct    decimal.Decimal
	AnnualCost decimal.Decimal
}

// FeeComparison contrasts index and active fund costs on a fixed principal.
type FeeComparison struct {
	Principal decimal.Decimal
	Index     FeeLine
	Active    FeeLine
	Ratio     decimal.Decimal // active rate / index rate
}

// CompareFees prices both rates on principal. The index rate must be positive.
func CompareFees(indexPct, activePct, principal decimal.Decimal) (FeeComparison, error) {
	if !indexPct.IsPositive() {
		return FeeComparison{}, errors.New("index fee must be positive")
	}
	if activePct.IsNegative() || principal.IsNegative() {
		return FeeComparison{}, errors.New("fees and principal must not be negative")
	}
	return FeeComparison{
		Principal: principal,
		Index: FeeLine{
			Label:      "Index fund fees",
			Note:       "low-cost index tracking",
			RatePct:    indexPct,
			AnnualCost: principal.Mul(indexPct).Div(hundred),
		},
		Active: FeeLine{
			Label:      "Active fund fees",
			Note:       "management + operating fees",
			RatePct:    activePct,
			AnnualCost: principal.Mul(activePct).Div(hundred),
		},
		Ratio: activePct.Div(indexPct),
	}, nil
}

// DefaultFeeComparison prices the published rates on $10,000.
func DefaultFeeComparison() FeeComparison {
	f, _ := CompareFees(IndexFeePct, ActiveFeePct, FeePrincipal)
	return f
}

// RateText renders "1.00% / yr".
func (l FeeLine) RateText() string { return l.RatePct.StringFixed(2) + "% / yr" }

// CostText renders "$100 per $10,000 / yr".
func (f FeeComparison) CostText(l FeeLine) string {
	return fmt.Sprintf("$%s per $%s / yr", l.AnnualCost.StringFixed(0), humanize.Comma(f.Principal.IntPart()))
}

// Headline renders "Active fees are ~33× higher".
func (f FeeComparison) Headline() string {
	return fmt.Sprintf("Active fees are ~%s× higher", f.Ratio.Round(0).String())
}

type feeLineWire struct {
	Label      string  `json:"label"`
	Note       string  `json:"note"`
	RatePct    float64 `json:"ratePct"`
	AnnualCost float64 `json:"annualCost"`
	RateText   string  `json:"rateText"`
	CostText   string  `json:"costText"`
}

func (f FeeComparison) MarshalJSON() ([]byte, error) {
	line := func(l FeeLine) feeLineWire {
		return feeLineWire{
			Label:      l.Label,
			Note:       l.Note,
			RatePct:    l.RatePct.InexactFloat64(),
			AnnualCost: l.AnnualCost.InexactFloat64(),
			RateText:   l.RateText(),
			CostText:   f.CostText(l),
		}
	}
	return json.Marshal(struct {
		Principal float64     `json:"principal"`
		Index     feeLineWire `json:"index"`
		Active    feeLineWire `json:"active"`
		Ratio     float64     `json:"ratio"`
		Headline  string      `json:"headline"`
	}{
		Principal: f.Principal.InexactFloat64(),
		Index:     line(f.Index),
		Active:    line(f.Active),
		Ratio:     f.Ratio.Round(2).InexactFloat64(),
		Headline:  f.Headline(),
	})
}

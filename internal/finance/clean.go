package finance

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// toFloat coerces an upstream scalar into a float64. Anything that is not a
// decimal number (null, empty, "n/a", NaN) becomes NaN.
func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case json.Number:
		return parseDecimal(x.String())
	case string:
		return parseDecimal(x)
	default:
		return math.NaN()
	}
}

func parseDecimal(s string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return math.NaN()
	}
	f, _ := d.Float64()
	return f
}

// finitePairs drops non-finite values while keeping each surviving value paired
// with the category label at its original index.
func finitePairs(labels []string, vals []float64) ([]float64, []string) {
	outVals := make([]float64, 0, len(vals))
	outLabels := make([]string, 0, len(vals))
	for i, v := range vals {
		if !isFinite(v) {
			continue
		}
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		outVals = append(outVals, v)
		outLabels = append(outLabels, label)
	}
	return outVals, outLabels
}

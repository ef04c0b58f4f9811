package finance

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultExportName is used when neither a file name nor a usable title is given.
const DefaultExportName = "table-export"

// Export is a rendered CSV document ready for download.
type Export struct {
	FileName string
	Data     []byte
}

// ExportCSV writes the rows visible under filterText as CSV, one column per
// declared column in order, headed by the column headers.
func ExportCSV(rows []TableRow, columns []Column, filterText, fileName, title string) (Export, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Header
	}
	if err := w.Write(header); err != nil {
		return Export{}, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range FilterRows(rows, columns, filterText) {
		rec := make([]string, len(columns))
		for i, col := range columns {
			v, _ := row.Get(col.Field)
			rec[i] = FormatCell(v)
		}
		if err := w.Write(rec); err != nil {
			return Export{}, fmt.Errorf("write csv row %d: %w", row.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return Export{}, fmt.Errorf("flush csv: %w", err)
	}
	return Export{FileName: exportFileName(fileName, title), Data: buf.Bytes()}, nil
}

// FilterRows keeps the rows where any visible column contains filterText,
// case-insensitively. An empty filter keeps every row.
func FilterRows(rows []TableRow, columns []Column, filterText string) []TableRow {
	needle := strings.ToLower(strings.TrimSpace(filterText))
	if needle == "" {
		return rows
	}
	out := make([]TableRow, 0, len(rows))
	for _, row := range rows {
		for _, col := range columns {
			v, _ := row.Get(col.Field)
			if strings.Contains(strings.ToLower(FormatCell(v)), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// FormatCell renders a cell without locale formatting; floats use their
// shortest decimal representation.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if !isFinite(x) {
			return ""
		}
		return decimal.NewFromFloat(x).String()
	case float32:
		return FormatCell(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// Slug lowercases title and collapses every run of non-alphanumerics into '-'.
func Slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if b.Len() > 0 && !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func exportFileName(fileName, title string) string {
	name := strings.TrimSpace(fileName)
	if name == "" {
		name = Slug(title)
	}
	if name == "" {
		name = DefaultExportName
	}
	if !strings.HasSuffix(strings.ToLower(name), ".csv") {
		name += ".csv"
	}
	return name
}

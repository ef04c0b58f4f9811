package view

import (
	"strings"

	"spivaDashboard/internal/finance"
)

// Table describes one of the dashboard's exportable tables.
type Table struct {
	Name         string           `json:"name"`
	Title        string           `json:"title"`
	DownloadName string           `json:"downloadName"`
	Columns      []finance.Column `json:"columns"`
}

var (
	ComparisonTable = Table{
		Name:         "comparison",
		Title:        "S&P 500 vs Large-Cap Benchmarks (Table View)",
		DownloadName: "sp-comparison",
		Columns:      finance.ComparisonColumns,
	}
	DetailTable = Table{
		Name:         "detail",
		Title:        "SPIVA Benchmark Underperformance (CSV)",
		DownloadName: "spiva-benchmark",
		Columns:      finance.DetailColumns,
	}
)

// LookupTable finds a table by name, case-insensitively.
func LookupTable(name string) (Table, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ComparisonTable.Name:
		return ComparisonTable, true
	case DetailTable.Name:
		return DetailTable, true
	}
	return Table{}, false
}

// Rows returns the rows currently displayed in t.
func (l *Loader) Rows(t Table) []finance.TableRow {
	if t.Name == ComparisonTable.Name {
		return l.ComparisonRows()
	}
	return l.DetailRows()
}

// Export renders the rows of t visible under filter. An empty fileName uses
// the table's download name.
func (l *Loader) Export(t Table, filter, fileName string) (finance.Export, error) {
	if strings.TrimSpace(fileName) == "" {
		fileName = t.DownloadName
	}
	return finance.ExportCSV(l.Rows(t), t.Columns, filter, fileName, t.Title)
}

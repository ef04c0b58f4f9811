package storage

import (
	"database/sql"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"spivaDashboard/internal/finance"
)

// MemoryDSN keeps the source tables in process memory only.
const MemoryDSN = ":memory:"

const (
	benchmarkCSV = "data/sp500-benchmark-underperformance.csv"
	spivaCSV     = "data/spiva-underperformance-by-category.csv"
)

//go:embed data/*.csv
var dataFS embed.FS

type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	Close() error
}

type Store struct{ db DB }

func OpenSQLite(dsn string) (DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// one connection so every query sees the same in-memory database
	db.SetMaxOpenConns(1)
	return db, nil
}

func InitSchema(db DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS benchmark(
		position INTEGER, category TEXT, period_order INTEGER, period TEXT, value REAL,
		PRIMARY KEY(position, period_order)
	);
	CREATE TABLE IF NOT EXISTS spiva_cells(
		row_id INTEGER, col_order INTEGER, label TEXT, text_value TEXT, num_value REAL,
		PRIMARY KEY(row_id, col_order)
	)`)
	return err
}

func NewStore(db DB) *Store { return &Store{db: db} }

// LoadEmbedded replaces the tables with the CSV files shipped in the binary.
func (s *Store) LoadEmbedded() error {
	for path, load := range map[string]func(io.Reader) error{
		benchmarkCSV: s.LoadBenchmarkCSV,
		spivaCSV:     s.LoadSpivaCSV,
	} {
		f, err := dataFS.Open(path)
		if err != nil {
			return err
		}
		err = load(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// LoadBenchmarkCSV reads "Comparison Index, <period> (%)..." rows. The " (%)"
// suffix is dropped from period headers.
func (s *Store) LoadBenchmarkCSV(r io.Reader) error {
	records, err := readCSV(r)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM benchmark`); err != nil {
		return err
	}
	header := records[0]
	for pos, rec := range records[1:] {
		for col := 1; col < len(header); col++ {
			period := strings.TrimSpace(strings.TrimSuffix(header[col], " (%)"))
			var value any
			if col < len(rec) {
				value = numericOrNil(rec[col])
			}
			if _, err := s.db.Exec(`INSERT INTO benchmark(position,category,period_order,period,value) VALUES(?,?,?,?,?)`,
				pos, rec[0], col, period, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadSpivaCSV stores each cell under its original header label.
func (s *Store) LoadSpivaCSV(r io.Reader) error {
	records, err := readCSV(r)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM spiva_cells`); err != nil {
		return err
	}
	header := records[0]
	for i, rec := range records[1:] {
		for col, label := range header {
			text := ""
			if col < len(rec) {
				text = rec[col]
			}
			if _, err := s.db.Exec(`INSERT INTO spiva_cells(row_id,col_order,label,text_value,num_value) VALUES(?,?,?,?,?)`,
				i+1, col, label, text, numericOrNil(text)); err != nil {
				return err
			}
		}
	}
	return nil
}

// ChartData returns the /chart-data shape: categories in file order, one value list per period.
func (s *Store) ChartData() (finance.Matrix, error) {
	rows, err := s.db.Query(`SELECT position, category, period, value FROM benchmark ORDER BY position, period_order`)
	if err != nil {
		return finance.Matrix{}, err
	}
	defer rows.Close()
	m := finance.Matrix{Categories: []string{}, Periods: map[string][]float64{}}
	last := -1
	for rows.Next() {
		var pos int
		var category, period string
		var value sql.NullFloat64
		if err := rows.Scan(&pos, &category, &period, &value); err != nil {
			return finance.Matrix{}, err
		}
		if pos != last {
			m.Categories = append(m.Categories, category)
			last = pos
		}
		v := math.NaN()
		if value.Valid {
			v = value.Float64
		}
		m.Periods[period] = append(m.Periods[period], v)
	}
	if err := rows.Err(); err != nil {
		return finance.Matrix{}, err
	}
	return m, m.Validate()
}

// SpivaTable returns the /spiva-table shape: free-text keys plus an id numbered from 1.
func (s *Store) SpivaTable() ([]finance.RawRow, error) {
	rows, err := s.db.Query(`SELECT row_id, label, text_value, num_value FROM spiva_cells ORDER BY row_id, col_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []finance.RawRow{}
	var cur finance.RawRow
	for rows.Next() {
		var id int
		var label, text string
		var num sql.NullFloat64
		if err := rows.Scan(&id, &label, &text, &num); err != nil {
			return nil, err
		}
		if cur == nil || cur["id"] != id {
			cur = finance.RawRow{"id": id}
			out = append(out, cur)
		}
		if num.Valid {
			cur[label] = num.Float64
		} else {
			cur[label] = text
		}
	}
	return out, rows.Err()
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty csv")
	}
	return records, nil
}

func numericOrNil(s string) any {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	f, _ := d.Float64()
	return f
}

package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/preston-bernstein/nhl-dashboard/internal/domain/seasons"
)

const nameCSV = "csv"

// CSVLoader reads the season table from a CSV file with a header row.
type CSVLoader struct {
	path string
}

// NewCSVLoader constructs a loader for the file at path.
func NewCSVLoader(path string) *CSVLoader {
	return &CSVLoader{path: path}
}

// Name identifies the loader in logs and metrics.
func (l *CSVLoader) Name() string { return nameCSV }

// Load opens and parses the file. Any failure, including a missing file, is a *LoadError.
func (l *CSVLoader) Load(ctx context.Context) (*seasons.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Source: nameCSV, Location: l.path, Err: err}
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, &LoadError{Source: nameCSV, Location: l.path, Err: err}
	}
	defer f.Close()

	table, err := ParseCSV(f)
	if err != nil {
		return nil, &LoadError{Source: nameCSV, Location: l.path, Err: err}
	}
	return table, nil
}

// ParseCSV parses a header row plus data rows. Header names are stripped of surrounding
// whitespace; known season columns are decoded and any others are kept in the header only.
// A known column may be absent, in which case its values read as zero.
func ParseCSV(r io.Reader) (*seasons.Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv: missing header row")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		columns[i] = h
		if _, dup := index[h]; !dup && seasons.IsKnown(h) {
			index[h] = i
		}
	}

	var records []seasons.SeasonRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rec, err := decodeRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return seasons.NewTable(columns, records), nil
}

func decodeRow(row []string, index map[string]int) (seasons.SeasonRecord, error) {
	var rec seasons.SeasonRecord
	if i, ok := index[seasons.ColumnName]; ok {
		rec.Name = row[i]
	}
	if i, ok := index[seasons.ColumnYear]; ok {
		year, err := parseYear(row[i])
		if err != nil {
			return rec, fmt.Errorf("column %q: %w", seasons.ColumnYear, err)
		}
		rec.Year = year
	}

	fields := []struct {
		column string
		dest   *float64
	}{
		{seasons.ColumnWins, &rec.Wins},
		{seasons.ColumnLosses, &rec.Losses},
		{seasons.ColumnWinPct, &rec.WinPct},
		{seasons.ColumnGoalsFor, &rec.GoalsFor},
		{seasons.ColumnGoalsAgainst, &rec.GoalsAgainst},
	}
	for _, f := range fields {
		i, ok := index[f.column]
		if !ok {
			continue
		}
		v, err := parseStat(row[i])
		if err != nil {
			return rec, fmt.Errorf("column %q: %w", f.column, err)
		}
		*f.dest = v
	}
	return rec, nil
}

// parseStat accepts finite numbers only; strconv also takes "NaN" and "Inf".
func parseStat(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("value %q is not a finite number", raw)
	}
	return v, nil
}

func parseYear(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if year, err := strconv.Atoi(raw); err == nil {
		return year, nil
	}
	f, err := parseStat(raw)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("year %q is not a whole number", raw)
	}
	return int(f), nil
}

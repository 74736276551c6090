// Package ingest reads raw occupancy datasets into analysis records:
// header-mapped CSV uploads, shift-interval strings from staffing
// sheets, and weekly schedule expansion into dated records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PI-TidalHealth/HORA/internal/analysis"
)

// Column headers recognised in uploaded datasets. Date and Count are
// required; the in/out clock pair is optional.
const (
	ColDate  = "Date"
	ColIn    = "In Room"
	ColOut   = "Out Room"
	ColCount = "Count"
)

// ReadCSV parses an uploaded dataset. The first row must be a header
// naming at least the Date and Count columns; unknown columns are
// ignored. Rows are returned unvalidated beyond numeric Count parsing:
// date format checking is the analysis parser's job.
func ReadCSV(r io.Reader) ([]analysis.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read header: %w", analysis.ErrEmptyInput)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{ColDate, ColCount} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("column %q: %w", required, analysis.ErrMissingColumn)
		}
	}

	var records []analysis.Record
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++

		count := 0.0
		if raw := field(row, cols, ColCount); raw != "" {
			count, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: parse count %q: %w", line, raw, err)
			}
		}

		records = append(records, analysis.Record{
			Date:  field(row, cols, ColDate),
			In:    field(row, cols, ColIn),
			Out:   field(row, cols, ColOut),
			Count: count,
		})
	}
	return records, nil
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

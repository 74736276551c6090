package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/PI-TidalHealth/HORA/internal/analysis"
)

// ShiftStaffing is one weekly staffing sheet row: a shift interval plus
// per-weekday headcounts, indexed by time.Weekday (Sunday == 0).
type ShiftStaffing struct {
	In     string
	Out    string
	Counts [7]int
}

// ColShift names the shift-interval column of a weekly staffing sheet.
const ColShift = "Shift"

// ReadScheduleCSV parses a weekly staffing sheet. The header must name
// the Shift column plus one column per weekday; each row carries a
// shift interval in any form ParseShift accepts and the headcount for
// each weekday, with blanks counting as zero.
func ReadScheduleCSV(r io.Reader) ([]ShiftStaffing, error) {
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
	if _, ok := cols[ColShift]; !ok {
		return nil, fmt.Errorf("column %q: %w", ColShift, analysis.ErrMissingColumn)
	}
	for _, name := range analysis.WeekdayNames {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("column %q: %w", name, analysis.ErrMissingColumn)
		}
	}

	var rows []ShiftStaffing
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

		in, out, err := ParseShift(field(row, cols, ColShift))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		staffing := ShiftStaffing{In: in, Out: out}
		for wi, name := range analysis.WeekdayNames {
			raw := field(row, cols, name)
			if raw == "" {
				continue
			}
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: parse %s headcount %q: %w", line, name, raw, err)
			}
			staffing.Counts[wi] = n
		}
		rows = append(rows, staffing)
	}
	return rows, nil
}

// ExpandSchedule synthesises dated records from weekly staffing rows
// over [start, end] inclusive. Each weekday's headcount n becomes n
// single-count records cycling through that weekday's calendar dates in
// the range, so a headcount larger than the number of matching dates
// wraps around. Weekdays with no dates in range contribute nothing.
func ExpandSchedule(rows []ShiftStaffing, start, end time.Time) []analysis.Record {
	var datesByWeekday [7][]time.Time
	for d := analysis.Day(start); !d.After(analysis.Day(end)); d = d.AddDate(0, 0, 1) {
		wi := int(d.Weekday())
		datesByWeekday[wi] = append(datesByWeekday[wi], d)
	}

	var out []analysis.Record
	for _, row := range rows {
		for wi, n := range row.Counts {
			dates := datesByWeekday[wi]
			if len(dates) == 0 {
				continue
			}
			for k := 0; k < n; k++ {
				out = append(out, analysis.Record{
					Date:  dates[k%len(dates)].Format(analysis.DateFormat),
					In:    row.In,
					Out:   row.Out,
					Count: 1,
				})
			}
		}
	}
	return out
}

package analysis

import "time"

// WeekdayTotal is one row of the weekday total table.
type WeekdayTotal struct {
	Weekday string  `json:"weekday"`
	Total   float64 `json:"total"`
}

// WeekdayTotals filters the matrix to [start, end] inclusive, sums the
// per-date Total by weekday, and reindexes the result against the fixed
// weekday order. The output always has exactly 7 rows, Sunday through
// Saturday; weekdays with no rows in range carry a zero total.
//
// Returns ErrInvalidRange when start is after end and ErrEmptyInput for
// a nil or empty matrix.
func WeekdayTotals(m *PresenceMatrix, start, end time.Time) ([]WeekdayTotal, error) {
	if m == nil || len(m.Rows) == 0 {
		return nil, ErrEmptyInput
	}
	start, end = Day(start), Day(end)
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	var sums [7]float64
	for _, row := range m.Rows {
		if inRange(row.Date, start, end) {
			sums[int(row.Date.Weekday())] += row.Total
		}
	}

	out := make([]WeekdayTotal, len(WeekdayNames))
	for i, name := range WeekdayNames {
		out[i] = WeekdayTotal{Weekday: name, Total: sums[i]}
	}
	return out, nil
}

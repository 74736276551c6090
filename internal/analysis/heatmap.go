package analysis

import (
	"fmt"
	"time"
)

// Heatmap is a complete weekday-by-hour matrix of normalized values.
// Rows follow the fixed weekday order (Sunday..Saturday), columns are
// hours 0-23, and every cell holds a value in [0, 1]. Cells with no data
// in range are zero, never omitted.
type Heatmap struct {
	Values [7][24]float64
}

// HeatmapCell is one cell of a flattened heatmap, suitable for CSV
// serialization.
type HeatmapCell struct {
	Weekday string  `json:"weekday"`
	Hour    int     `json:"hour"`
	Value   float64 `json:"value"`
}

// Flatten returns the heatmap as a flat, primitive-typed table in row
// order: all of Sunday's 24 hours, then Monday's, and so on.
func (h *Heatmap) Flatten() []HeatmapCell {
	cells := make([]HeatmapCell, 0, 7*24)
	for wi, name := range WeekdayNames {
		for hour := 0; hour < 24; hour++ {
			cells = append(cells, HeatmapCell{Weekday: name, Hour: hour, Value: h.Values[wi][hour]})
		}
	}
	return cells
}

// NormalizedHeatmap filters the matrix to [start, end] inclusive and
// builds a 7x24 weekday-by-hour matrix.
//
// Normalization is a fixed two-step policy, a pure function of the
// aggregated matrix: each (weekday, hour) sum is first divided by the
// number of occurrences of that weekday within the calendar range,
// giving a per-day average; the whole matrix is then scaled by its
// global maximum into [0, 1]. An all-zero matrix stays all-zero.
func NormalizedHeatmap(m *PresenceMatrix, start, end time.Time) (*Heatmap, error) {
	if m == nil || len(m.Rows) == 0 {
		return nil, ErrEmptyInput
	}
	start, end = Day(start), Day(end)
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	// Count how often each weekday occurs in the calendar range.
	var dayCounts [7]float64
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dayCounts[int(d.Weekday())]++
	}

	h := &Heatmap{}
	for _, row := range m.Rows {
		if !inRange(row.Date, start, end) {
			continue
		}
		wi := int(row.Date.Weekday())
		for hour, v := range row.Hours {
			h.Values[wi][hour] += v
		}
	}
	for wi := range h.Values {
		if dayCounts[wi] == 0 {
			continue
		}
		for hour := range h.Values[wi] {
			h.Values[wi][hour] /= dayCounts[wi]
		}
	}

	h.scaleToUnit()
	return h, nil
}

// WeekHeatmap builds a 7x24 matrix restricted to one week-of-month
// bucket ("Week 1".."Week 5"). Cell sums are averaged over the number of
// distinct months contributing rows to the bucket, then scaled by the
// global maximum into [0, 1].
func WeekHeatmap(m *PresenceMatrix, week string) (*Heatmap, error) {
	if m == nil || len(m.Rows) == 0 {
		return nil, ErrEmptyInput
	}
	valid := false
	for _, label := range WeekLabels {
		if week == label {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("unknown week label %q", week)
	}

	h := &Heatmap{}
	months := make(map[string]struct{})
	for _, row := range m.Rows {
		if WeekOfMonth(row.Date) != week {
			continue
		}
		months[row.Date.Format("2006-01")] = struct{}{}
		wi := int(row.Date.Weekday())
		for hour, v := range row.Hours {
			h.Values[wi][hour] += v
		}
	}

	monthCount := float64(len(months))
	if monthCount == 0 {
		monthCount = 1
	}
	for wi := range h.Values {
		for hour := range h.Values[wi] {
			h.Values[wi][hour] /= monthCount
		}
	}

	h.scaleToUnit()
	return h, nil
}

// scaleToUnit divides every cell by the matrix's global maximum so that
// values land in [0, 1]. A zero matrix is left untouched.
func (h *Heatmap) scaleToUnit() {
	var max float64
	for wi := range h.Values {
		for _, v := range h.Values[wi] {
			if v > max {
				max = v
			}
		}
	}
	if max == 0 {
		return
	}
	for wi := range h.Values {
		for hour := range h.Values[wi] {
			h.Values[wi][hour] /= max
		}
	}
}

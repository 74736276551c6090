package analysis

import "time"

// DayRow is one row of a presence matrix: a single calendar date, its
// weekday name, the 24 hourly measure buckets, and the per-date total.
type DayRow struct {
	Date    time.Time   `json:"date"`
	Weekday string      `json:"weekday"`
	Hours   [24]float64 `json:"hours"`
	Total   float64     `json:"total"`
}

// PresenceMatrix is a dense per-date table: exactly one row per calendar
// date in [MinDate, MaxDate], in ascending order, with zero-filled
// measures for dates absent from the input.
type PresenceMatrix struct {
	Rows []DayRow
}

// MinDate returns the first date covered by the matrix.
func (m *PresenceMatrix) MinDate() time.Time { return m.Rows[0].Date }

// MaxDate returns the last date covered by the matrix.
func (m *PresenceMatrix) MaxDate() time.Time { return m.Rows[len(m.Rows)-1].Date }

// BuildPresenceMatrix expands observations into a dense per-date matrix
// covering every calendar day between the earliest and latest observed
// date, inclusive. Each hourly bucket holds the summed Count of stays
// overlapping that hour (a stay wrapping past midnight contributes to the
// next date's early buckets, as long as that date is still in range).
// Total is the summed Count of records dated that day. Returns
// ErrEmptyInput when there are no observations.
func BuildPresenceMatrix(obs []Observation) (*PresenceMatrix, error) {
	return buildMatrix(obs, false)
}

// BuildDurationMatrix is the duration variant of BuildPresenceMatrix:
// each hourly bucket holds the fractional hours of overlap between stays
// and that hour, weighted by Count, and Total is the summed duration
// across the day's buckets.
func BuildDurationMatrix(obs []Observation) (*PresenceMatrix, error) {
	return buildMatrix(obs, true)
}

func buildMatrix(obs []Observation, duration bool) (*PresenceMatrix, error) {
	if len(obs) == 0 {
		return nil, ErrEmptyInput
	}

	minDate, maxDate := obs[0].Date, obs[0].Date
	for _, o := range obs[1:] {
		if o.Date.Before(minDate) {
			minDate = o.Date
		}
		if o.Date.After(maxDate) {
			maxDate = o.Date
		}
	}

	days := int(maxDate.Sub(minDate).Hours()/24) + 1
	rows := make([]DayRow, days)
	index := make(map[time.Time]int, days)
	for i := range rows {
		d := minDate.AddDate(0, 0, i)
		rows[i] = DayRow{Date: d, Weekday: WeekdayNames[d.Weekday()]}
		index[d] = i
	}

	for _, o := range obs {
		i := index[o.Date]
		if !duration {
			rows[i].Total += o.Count
		}
		if o.InMinute < 0 {
			continue
		}
		// Walk hour buckets from midnight of the stay's date until the
		// stay ends; bucket 24..47 belong to the following date.
		for h := 0; h*60 < o.OutMinute && h < 48; h++ {
			overlap := overlapMinutes(o.InMinute, o.OutMinute, h*60, (h+1)*60)
			if overlap <= 0 {
				continue
			}
			j := i + h/24
			if j >= len(rows) {
				break
			}
			if duration {
				rows[j].Hours[h%24] += float64(overlap) / 60 * o.Count
			} else {
				rows[j].Hours[h%24] += o.Count
			}
		}
	}

	if duration {
		for i := range rows {
			var total float64
			for _, v := range rows[i].Hours {
				total += v
			}
			rows[i].Total = total
		}
	}

	return &PresenceMatrix{Rows: rows}, nil
}

// overlapMinutes returns the overlap in minutes between [in, out) and the
// bucket [start, end).
func overlapMinutes(in, out, start, end int) int {
	lo := in
	if start > lo {
		lo = start
	}
	hi := out
	if end < hi {
		hi = end
	}
	return hi - lo
}

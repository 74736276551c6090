// Package analysis implements the occupancy transformation core: parsing
// raw dated records into canonical observations, expanding them into a
// dense per-date presence matrix, and deriving the calendar aggregates
// (monthly summaries, weekday totals, normalized weekday-by-hour
// heatmaps) consumed by the UI layer.
//
// Every function here is a pure batch transformation: inputs are never
// mutated, outputs are freshly allocated, and identical inputs always
// produce identical outputs.
package analysis

import "time"

// DateFormat is the textual date format accepted from raw records.
const DateFormat = "2006/01/02"

// clockFormat is the in/out clock format on raw records.
const clockFormat = "15:04"

const minutesPerDay = 24 * 60

// WeekdayNames is the fixed reporting order for weekday rows, indexed by
// time.Weekday (Sunday == 0).
var WeekdayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// WeekLabels are the week-of-month buckets, split on day-of-month bins
// 1-7, 8-14, 15-21, 22-28 and 29-31.
var WeekLabels = [5]string{"Week 1", "Week 2", "Week 3", "Week 4", "Week 5"}

// Record is one raw ingested row. Date is required; In and Out are
// optional "HH:MM" clock strings describing a stay within (or wrapping
// past the end of) that date.
type Record struct {
	Date  string  `json:"date"`
	In    string  `json:"in,omitempty"`
	Out   string  `json:"out,omitempty"`
	Count float64 `json:"count"`
}

// Observation is a canonical record: a type-safe calendar date (UTC
// midnight), the weekday name derived from it, and the parsed measures.
// InMinute/OutMinute are minutes since midnight; both are -1 when the
// record carried no clock data. OutMinute exceeds 24*60 when the stay
// wraps past midnight.
type Observation struct {
	Date      time.Time
	Weekday   string
	Count     float64
	InMinute  int
	OutMinute int
}

// WeekOfMonth returns the week-of-month label for a date.
func WeekOfMonth(d time.Time) string {
	switch day := d.Day(); {
	case day <= 7:
		return WeekLabels[0]
	case day <= 14:
		return WeekLabels[1]
	case day <= 21:
		return WeekLabels[2]
	case day <= 28:
		return WeekLabels[3]
	default:
		return WeekLabels[4]
	}
}

// Day truncates t to its UTC calendar date. All core date comparisons
// happen on Day-normalised values.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// inRange reports whether the date d falls within [start, end] inclusive.
func inRange(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}

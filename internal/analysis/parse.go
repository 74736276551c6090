package analysis

import (
	"strings"
	"time"
)

// ParseRecords converts raw rows into canonical observations. The date
// column must match DateFormat (e.g. "2025/01/31"); the weekday name is
// derived from the parsed date, never stored independently. Records may
// carry an in/out clock pair ("HH:MM"); an out time at or before the in
// time is treated as wrapping past midnight into the next day.
//
// Parsing is atomic: the first malformed row returns a *ParseError and no
// partial result.
func ParseRecords(records []Record) ([]Observation, error) {
	obs := make([]Observation, 0, len(records))
	for i, r := range records {
		raw := strings.TrimSpace(r.Date)
		if raw == "" {
			return nil, &ParseError{Row: i, Field: "Date", Err: ErrMissingColumn}
		}
		day, err := time.ParseInLocation(DateFormat, raw, time.UTC)
		if err != nil {
			return nil, &ParseError{Row: i, Field: "Date", Value: raw, Err: err}
		}

		o := Observation{
			Date:      day,
			Weekday:   WeekdayNames[day.Weekday()],
			Count:     r.Count,
			InMinute:  -1,
			OutMinute: -1,
		}

		in := strings.TrimSpace(r.In)
		out := strings.TrimSpace(r.Out)
		if in != "" || out != "" {
			if in == "" {
				return nil, &ParseError{Row: i, Field: "In", Err: ErrMissingColumn}
			}
			if out == "" {
				return nil, &ParseError{Row: i, Field: "Out", Err: ErrMissingColumn}
			}
			inMin, err := parseClock(in)
			if err != nil {
				return nil, &ParseError{Row: i, Field: "In", Value: in, Err: err}
			}
			outMin, err := parseClock(out)
			if err != nil {
				return nil, &ParseError{Row: i, Field: "Out", Value: out, Err: err}
			}
			if outMin <= inMin {
				// Stay wraps past midnight (a "7a-7a" shift is 24 hours).
				outMin += minutesPerDay
			}
			o.InMinute = inMin
			o.OutMinute = outMin
		}

		obs = append(obs, o)
	}
	return obs, nil
}

// parseClock parses an "HH:MM" clock string into minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse(clockFormat, s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

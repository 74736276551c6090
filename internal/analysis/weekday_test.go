package analysis

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekdayTotalsFixedOrder(t *testing.T) {
	// Two full weeks of data.
	var records []Record
	for i := 0; i < 14; i++ {
		d := date(2024, time.January, 1).AddDate(0, 0, i)
		records = append(records, Record{Date: d.Format(DateFormat), Count: 1})
	}
	m, err := BuildPresenceMatrix(mustParse(t, records))
	if err != nil {
		t.Fatalf("BuildPresenceMatrix failed: %v", err)
	}

	totals, err := WeekdayTotals(m, m.MinDate(), m.MaxDate())
	if err != nil {
		t.Fatalf("WeekdayTotals failed: %v", err)
	}
	if len(totals) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(totals))
	}
	for i, wt := range totals {
		if wt.Weekday != WeekdayNames[i] {
			t.Errorf("row %d weekday = %q, want %q", i, wt.Weekday, WeekdayNames[i])
		}
		if wt.Total != 2 {
			t.Errorf("%s total = %v, want 2", wt.Weekday, wt.Total)
		}
	}
}

func TestWeekdayTotalsZeroFill(t *testing.T) {
	// Monday-only data: the other six weekdays must still appear, with
	// zero totals.
	m, err := BuildPresenceMatrix(mustParse(t, []Record{
		{Date: "2024/03/04", Count: 5}, // a Monday
	}))
	if err != nil {
		t.Fatalf("BuildPresenceMatrix failed: %v", err)
	}

	totals, err := WeekdayTotals(m, m.MinDate(), m.MaxDate())
	if err != nil {
		t.Fatalf("WeekdayTotals failed: %v", err)
	}
	if len(totals) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(totals))
	}
	for _, wt := range totals {
		want := 0.0
		if wt.Weekday == "Monday" {
			want = 5
		}
		if wt.Total != want {
			t.Errorf("%s total = %v, want %v", wt.Weekday, wt.Total, want)
		}
	}
}

func TestWeekdayTotalsRangeFilter(t *testing.T) {
	m, err := BuildPresenceMatrix(mustParse(t, []Record{
		{Date: "2024/01/01", Count: 1},
		{Date: "2024/01/08", Count: 3}, // also a Monday, outside range
	}))
	if err != nil {
		t.Fatalf("BuildPresenceMatrix failed: %v", err)
	}

	totals, err := WeekdayTotals(m, date(2024, time.January, 1), date(2024, time.January, 7))
	if err != nil {
		t.Fatalf("WeekdayTotals failed: %v", err)
	}
	if totals[1].Total != 1 { // Monday
		t.Errorf("Monday total = %v, want 1 (second Monday filtered out)", totals[1].Total)
	}
}

func TestWeekdayTotalsInvalidRange(t *testing.T) {
	m, err := BuildPresenceMatrix(mustParse(t, []Record{{Date: "2024/01/01", Count: 1}}))
	if err != nil {
		t.Fatalf("BuildPresenceMatrix failed: %v", err)
	}

	out, err := WeekdayTotals(m, date(2024, time.February, 1), date(2024, time.January, 1))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if out != nil {
		t.Error("expected no partial output on invalid range")
	}
}

func TestWeekdayTotalsEmptyMatrix(t *testing.T) {
	if _, err := WeekdayTotals(nil, date(2024, 1, 1), date(2024, 1, 2)); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

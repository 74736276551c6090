package analysis

import (
	"errors"
	"testing"
	"time"
)

func TestParseRecordsWeekdayNames(t *testing.T) {
	// 2024/01/07 was a Sunday; the following six days cover the rest of
	// the fixed weekday enumeration in order.
	records := []Record{
		{Date: "2024/01/07", Count: 1},
		{Date: "2024/01/08", Count: 1},
		{Date: "2024/01/09", Count: 1},
		{Date: "2024/01/10", Count: 1},
		{Date: "2024/01/11", Count: 1},
		{Date: "2024/01/12", Count: 1},
		{Date: "2024/01/13", Count: 1},
	}

	obs, err := ParseRecords(records)
	if err != nil {
		t.Fatalf("ParseRecords failed: %v", err)
	}
	if len(obs) != 7 {
		t.Fatalf("expected 7 observations, got %d", len(obs))
	}
	for i, o := range obs {
		if o.Weekday != WeekdayNames[i] {
			t.Errorf("obs[%d].Weekday = %q, want %q", i, o.Weekday, WeekdayNames[i])
		}
		if o.Weekday != WeekdayNames[o.Date.Weekday()] {
			t.Errorf("obs[%d] weekday inconsistent with its date", i)
		}
	}
}

func TestParseRecordsCanonicalDate(t *testing.T) {
	obs, err := ParseRecords([]Record{{Date: "2025/03/09", Count: 2}})
	if err != nil {
		t.Fatalf("ParseRecords failed: %v", err)
	}
	want := time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)
	if !obs[0].Date.Equal(want) {
		t.Errorf("Date = %v, want %v", obs[0].Date, want)
	}
	if obs[0].InMinute != -1 || obs[0].OutMinute != -1 {
		t.Errorf("clockless record should carry -1 minutes, got %d/%d", obs[0].InMinute, obs[0].OutMinute)
	}
}

func TestParseRecordsClockPair(t *testing.T) {
	obs, err := ParseRecords([]Record{
		{Date: "2025/01/01", In: "08:30", Out: "16:00", Count: 3},
	})
	if err != nil {
		t.Fatalf("ParseRecords failed: %v", err)
	}
	if obs[0].InMinute != 8*60+30 {
		t.Errorf("InMinute = %d, want %d", obs[0].InMinute, 8*60+30)
	}
	if obs[0].OutMinute != 16*60 {
		t.Errorf("OutMinute = %d, want %d", obs[0].OutMinute, 16*60)
	}
}

func TestParseRecordsMidnightWrap(t *testing.T) {
	obs, err := ParseRecords([]Record{
		{Date: "2025/01/01", In: "22:00", Out: "02:00", Count: 1},
	})
	if err != nil {
		t.Fatalf("ParseRecords failed: %v", err)
	}
	if obs[0].OutMinute != 26*60 {
		t.Errorf("wrapped OutMinute = %d, want %d", obs[0].OutMinute, 26*60)
	}

	// Equal in/out is a full 24-hour stay, not an empty one.
	obs, err = ParseRecords([]Record{
		{Date: "2025/01/01", In: "07:00", Out: "07:00", Count: 1},
	})
	if err != nil {
		t.Fatalf("ParseRecords failed: %v", err)
	}
	if got := obs[0].OutMinute - obs[0].InMinute; got != minutesPerDay {
		t.Errorf("24h stay spans %d minutes, want %d", got, minutesPerDay)
	}
}

func TestParseRecordsBadDate(t *testing.T) {
	_, err := ParseRecords([]Record{
		{Date: "2025/01/01", Count: 1},
		{Date: "01-02-2025", Count: 1},
	})
	if err == nil {
		t.Fatal("expected error for malformed date")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Row != 1 || pe.Field != "Date" {
		t.Errorf("ParseError row/field = %d/%q, want 1/\"Date\"", pe.Row, pe.Field)
	}
}

func TestParseRecordsMissingDate(t *testing.T) {
	_, err := ParseRecords([]Record{{Date: "  ", Count: 1}})
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestParseRecordsHalfClockPair(t *testing.T) {
	_, err := ParseRecords([]Record{{Date: "2025/01/01", In: "08:00", Count: 1}})
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn for missing Out, got %v", err)
	}
}

func TestParseRecordsBadClock(t *testing.T) {
	_, err := ParseRecords([]Record{{Date: "2025/01/01", In: "8am", Out: "16:00", Count: 1}})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Field != "In" {
		t.Errorf("ParseError field = %q, want \"In\"", pe.Field)
	}
}

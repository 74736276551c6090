package analysis

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func buildTestMatrix(t *testing.T) *PresenceMatrix {
	t.Helper()
	m, err := BuildPresenceMatrix(mustParse(t, []Record{
		{Date: "2024/01/01", In: "08:00", Out: "12:00", Count: 2}, // Monday
		{Date: "2024/01/02", In: "09:00", Out: "10:00", Count: 4}, // Tuesday
		{Date: "2024/01/08", In: "08:00", Out: "12:00", Count: 6}, // Monday
	}))
	if err != nil {
		t.Fatalf("BuildPresenceMatrix failed: %v", err)
	}
	return m
}

func TestNormalizedHeatmapBounds(t *testing.T) {
	m := buildTestMatrix(t)

	h, err := NormalizedHeatmap(m, m.MinDate(), m.MaxDate())
	if err != nil {
		t.Fatalf("NormalizedHeatmap failed: %v", err)
	}

	var max float64
	for wi := range h.Values {
		for _, v := range h.Values[wi] {
			if v < 0 || v > 1 {
				t.Fatalf("cell value %v outside [0, 1]", v)
			}
			if v > max {
				max = v
			}
		}
	}
	if max != 1 {
		t.Errorf("global max = %v, want 1 for a non-zero matrix", max)
	}
}

func TestNormalizedHeatmapValues(t *testing.T) {
	m := buildTestMatrix(t)

	// Range covers two Mondays and one of each other weekday, so the
	// Monday per-day average at hour 8 is (2+6)/2 = 4, Tuesday hour 9 is
	// (4+4)/1... Tuesday appears once with count 4 at hours 9 only.
	h, err := NormalizedHeatmap(m, m.MinDate(), m.MaxDate())
	if err != nil {
		t.Fatalf("NormalizedHeatmap failed: %v", err)
	}

	// Monday average 4 is the global max; Tuesday hour-9 average is 4 as
	// well (single Tuesday, count 4): both normalize to 1.
	if h.Values[1][8] != 1 {
		t.Errorf("Monday hour 8 = %v, want 1", h.Values[1][8])
	}
	if h.Values[2][9] != 1 {
		t.Errorf("Tuesday hour 9 = %v, want 1", h.Values[2][9])
	}
	if h.Values[0][8] != 0 {
		t.Errorf("Sunday hour 8 = %v, want 0", h.Values[0][8])
	}
	if h.Values[2][12] != 0 {
		t.Errorf("Tuesday hour 12 = %v, want 0", h.Values[2][12])
	}
}

func TestNormalizedHeatmapDeterministic(t *testing.T) {
	m := buildTestMatrix(t)

	h1, err := NormalizedHeatmap(m, m.MinDate(), m.MaxDate())
	if err != nil {
		t.Fatalf("NormalizedHeatmap failed: %v", err)
	}
	h2, err := NormalizedHeatmap(m, m.MinDate(), m.MaxDate())
	if err != nil {
		t.Fatalf("NormalizedHeatmap failed: %v", err)
	}
	if diff := cmp.Diff(h1, h2); diff != "" {
		t.Errorf("repeated runs differ (-first +second):\n%s", diff)
	}
}

func TestNormalizedHeatmapInvalidRange(t *testing.T) {
	m := buildTestMatrix(t)
	_, err := NormalizedHeatmap(m, m.MaxDate(), m.MinDate())
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestNormalizedHeatmapEmptyMatrix(t *testing.T) {
	_, err := NormalizedHeatmap(&PresenceMatrix{}, time.Now(), time.Now())
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestHeatmapFlatten(t *testing.T) {
	h := &Heatmap{}
	h.Values[0][0] = 0.5

	cells := h.Flatten()
	if len(cells) != 7*24 {
		t.Fatalf("expected %d cells, got %d", 7*24, len(cells))
	}
	if cells[0].Weekday != "Sunday" || cells[0].Hour != 0 || cells[0].Value != 0.5 {
		t.Errorf("first cell = %+v, want Sunday/0/0.5", cells[0])
	}
	last := cells[len(cells)-1]
	if last.Weekday != "Saturday" || last.Hour != 23 {
		t.Errorf("last cell = %+v, want Saturday/23", last)
	}
}

func TestWeekOfMonth(t *testing.T) {
	cases := map[int]string{
		1: "Week 1", 7: "Week 1",
		8: "Week 2", 14: "Week 2",
		15: "Week 3", 21: "Week 3",
		22: "Week 4", 28: "Week 4",
		29: "Week 5", 31: "Week 5",
	}
	for day, want := range cases {
		d := time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC)
		if got := WeekOfMonth(d); got != want {
			t.Errorf("WeekOfMonth(Jan %d) = %q, want %q", day, got, want)
		}
	}
}

func TestWeekHeatmap(t *testing.T) {
	m, err := BuildPresenceMatrix(mustParse(t, []Record{
		{Date: "2024/01/01", In: "08:00", Out: "09:00", Count: 2}, // Week 1
		{Date: "2024/01/10", In: "08:00", Out: "09:00", Count: 4}, // Week 2
	}))
	if err != nil {
		t.Fatalf("BuildPresenceMatrix failed: %v", err)
	}

	h, err := WeekHeatmap(m, "Week 1")
	if err != nil {
		t.Fatalf("WeekHeatmap failed: %v", err)
	}
	// Only the Week 1 Monday contributes; its cell is the global max.
	if h.Values[1][8] != 1 {
		t.Errorf("Monday hour 8 = %v, want 1", h.Values[1][8])
	}
	if h.Values[3][8] != 0 { // the Week 2 Wednesday is filtered out
		t.Errorf("Wednesday hour 8 = %v, want 0", h.Values[3][8])
	}
}

func TestWeekHeatmapUnknownLabel(t *testing.T) {
	m := buildTestMatrix(t)
	if _, err := WeekHeatmap(m, "Week 9"); err == nil {
		t.Fatal("expected error for unknown week label")
	}
}

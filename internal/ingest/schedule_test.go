package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PI-TidalHealth/HORA/internal/analysis"
)

func TestReadScheduleCSV(t *testing.T) {
	sheet := `Shift,Sunday,Monday,Tuesday,Wednesday,Thursday,Friday,Saturday
7a-3:30p,0,2,2,2,2,2,0
GOR,1,,,,,,1
`
	rows, err := ReadScheduleCSV(strings.NewReader(sheet))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "07:00", rows[0].In)
	assert.Equal(t, "15:30", rows[0].Out)
	assert.Equal(t, [7]int{0, 2, 2, 2, 2, 2, 0}, rows[0].Counts)

	assert.Equal(t, "15:00", rows[1].In)
	assert.Equal(t, "07:00", rows[1].Out)
	assert.Equal(t, [7]int{1, 0, 0, 0, 0, 0, 0}, rows[1].Counts)
}

func TestReadScheduleCSVMissingWeekday(t *testing.T) {
	sheet := "Shift,Sunday,Monday\n7a-3p,1,1\n"
	_, err := ReadScheduleCSV(strings.NewReader(sheet))
	require.Error(t, err)
	assert.ErrorIs(t, err, analysis.ErrMissingColumn)
}

func TestReadScheduleCSVBadShift(t *testing.T) {
	sheet := `Shift,Sunday,Monday,Tuesday,Wednesday,Thursday,Friday,Saturday
nonsense,1,1,1,1,1,1,1
`
	_, err := ReadScheduleCSV(strings.NewReader(sheet))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestExpandSchedule(t *testing.T) {
	rows := []ShiftStaffing{
		{In: "07:00", Out: "15:30", Counts: [7]int{0, 2, 0, 0, 0, 0, 0}}, // 2 on Mondays
	}
	// 2024-01-01 .. 2024-01-14: Mondays are Jan 1 and Jan 8.
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 14, 0, 0, 0, 0, time.UTC)

	records := ExpandSchedule(rows, start, end)
	require.Len(t, records, 2)
	assert.Equal(t, "2024/01/01", records[0].Date)
	assert.Equal(t, "2024/01/08", records[1].Date)
	for _, r := range records {
		assert.Equal(t, "07:00", r.In)
		assert.Equal(t, "15:30", r.Out)
		assert.Equal(t, 1.0, r.Count)
	}
}

func TestExpandScheduleWrapsDates(t *testing.T) {
	rows := []ShiftStaffing{
		{In: "08:00", Out: "16:00", Counts: [7]int{3, 0, 0, 0, 0, 0, 0}}, // 3 on Sundays
	}
	// Only one Sunday in range; the headcount cycles back onto it.
	start := time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 13, 0, 0, 0, 0, time.UTC)

	records := ExpandSchedule(rows, start, end)
	require.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, "2024/01/07", r.Date)
	}
}

func TestExpandScheduleNoMatchingDates(t *testing.T) {
	rows := []ShiftStaffing{
		{In: "08:00", Out: "16:00", Counts: [7]int{5, 0, 0, 0, 0, 0, 0}},
	}
	// Monday-to-Saturday range contains no Sunday.
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 6, 0, 0, 0, 0, time.UTC)

	records := ExpandSchedule(rows, start, end)
	assert.Empty(t, records)
}

package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PI-TidalHealth/HORA/internal/analysis"
)

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"Date,In Room,Out Room,Count",
		"2025/01/01,08:00,16:00,3",
		"2025/01/02,,,2",
	}, "\n")

	records, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, analysis.Record{Date: "2025/01/01", In: "08:00", Out: "16:00", Count: 3}, records[0])
	assert.Equal(t, analysis.Record{Date: "2025/01/02", Count: 2}, records[1])
}

func TestReadCSVColumnOrderIndependent(t *testing.T) {
	input := strings.Join([]string{
		"Count,Date",
		"5,2024/03/04",
	}, "\n")

	records, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024/03/04", records[0].Date)
	assert.Equal(t, 5.0, records[0].Count)
}

func TestReadCSVMissingRequiredColumn(t *testing.T) {
	input := "Date,In Room,Out Room\n2025/01/01,08:00,16:00\n"

	_, err := ReadCSV(strings.NewReader(input))
	require.ErrorIs(t, err, analysis.ErrMissingColumn)
	assert.Contains(t, err.Error(), "Count")
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	require.ErrorIs(t, err, analysis.ErrEmptyInput)
}

func TestReadCSVBadCount(t *testing.T) {
	input := "Date,Count\n2025/01/01,many\n"

	_, err := ReadCSV(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

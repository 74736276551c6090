// Package main provides an offline occupancy analysis tool. It reads a
// rounding CSV, runs the calendar aggregations, and writes summary CSVs
// and PNG plots to an output directory without needing the server.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/PI-TidalHealth/HORA/internal/analysis"
	"github.com/PI-TidalHealth/HORA/internal/charts"
	"github.com/PI-TidalHealth/HORA/internal/ingest"
)

// Config holds configuration for an analysis run.
type Config struct {
	InputFile string
	OutputDir string
	Duration  bool
	Plots     bool
	Schedule  bool
	Start     string
	End       string
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.InputFile, "input", "", "Input CSV file (Date, In Room, Out Room, Count)")
	flag.StringVar(&cfg.OutputDir, "output", "analysis-out", "Output directory")
	flag.BoolVar(&cfg.Duration, "duration", false, "Aggregate room-hours instead of headcounts")
	flag.BoolVar(&cfg.Plots, "plots", true, "Write PNG plots alongside the CSVs")
	flag.BoolVar(&cfg.Schedule, "schedule", false, "Treat input as a weekly staffing sheet")
	flag.StringVar(&cfg.Start, "start", "", "Schedule expansion start date (YYYY-MM-DD)")
	flag.StringVar(&cfg.End, "end", "", "Schedule expansion end date (YYYY-MM-DD)")
	flag.Parse()
	return cfg
}

// loadRecords reads the input either as a dated dataset or, in schedule
// mode, as a weekly staffing sheet expanded over the -start/-end range.
func loadRecords(cfg Config, r *os.File) ([]analysis.Record, error) {
	if !cfg.Schedule {
		return ingest.ReadCSV(r)
	}
	if cfg.Start == "" || cfg.End == "" {
		return nil, fmt.Errorf("schedule mode requires -start and -end dates")
	}
	start, err := time.ParseInLocation("2006-01-02", cfg.Start, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid -start date %q", cfg.Start)
	}
	end, err := time.ParseInLocation("2006-01-02", cfg.End, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid -end date %q", cfg.End)
	}
	rows, err := ingest.ReadScheduleCSV(r)
	if err != nil {
		return nil, err
	}
	return ingest.ExpandSchedule(rows, start, end), nil
}

func main() {
	cfg := parseFlags()

	if cfg.InputFile == "" {
		log.Fatal("Input file is required")
	}

	f, err := os.Open(cfg.InputFile)
	if err != nil {
		log.Fatalf("Failed to open input file: %v", err)
	}
	defer f.Close()

	records, err := loadRecords(cfg, f)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", cfg.InputFile, err)
	}

	obs, err := analysis.ParseRecords(records)
	if err != nil {
		log.Fatalf("Failed to parse records: %v", err)
	}

	var matrix *analysis.PresenceMatrix
	if cfg.Duration {
		matrix, err = analysis.BuildDurationMatrix(obs)
	} else {
		matrix, err = analysis.BuildPresenceMatrix(obs)
	}
	if err != nil {
		log.Fatalf("Failed to build matrix: %v", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	if err := run(cfg, obs, matrix); err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}
	log.Printf("Wrote analysis for %d records (%s to %s) to %s",
		len(obs),
		matrix.MinDate().Format("2006-01-02"),
		matrix.MaxDate().Format("2006-01-02"),
		cfg.OutputDir)
}

func run(cfg Config, obs []analysis.Observation, matrix *analysis.PresenceMatrix) error {
	start, end := matrix.MinDate(), matrix.MaxDate()

	summaries := analysis.MonthlySummary(obs)
	if err := writeCSV(filepath.Join(cfg.OutputDir, "monthly.csv"),
		[]string{"month", "label", "records", "total", "mean"},
		len(summaries), func(i int) []string {
			m := summaries[i]
			return []string{m.Month, m.Label, strconv.Itoa(m.Records), ftoa(m.Total), ftoa(m.Mean)}
		}); err != nil {
		return err
	}

	totals, err := analysis.WeekdayTotals(matrix, start, end)
	if err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(cfg.OutputDir, "weekdays.csv"),
		[]string{"weekday", "total"},
		len(totals), func(i int) []string {
			return []string{totals[i].Weekday, ftoa(totals[i].Total)}
		}); err != nil {
		return err
	}

	heatmap, err := analysis.NormalizedHeatmap(matrix, start, end)
	if err != nil {
		return err
	}
	cells := heatmap.Flatten()
	if err := writeCSV(filepath.Join(cfg.OutputDir, "heatmap.csv"),
		[]string{"weekday", "hour", "value"},
		len(cells), func(i int) []string {
			c := cells[i]
			return []string{c.Weekday, strconv.Itoa(c.Hour), ftoa(c.Value)}
		}); err != nil {
		return err
	}

	if !cfg.Plots {
		return nil
	}
	if err := charts.SaveWeekdayBar(filepath.Join(cfg.OutputDir, "weekdays.png"), totals); err != nil {
		return fmt.Errorf("failed to plot weekday totals: %w", err)
	}
	if err := charts.SaveOccupancyLine(filepath.Join(cfg.OutputDir, "occupancy.png"), matrix); err != nil {
		return fmt.Errorf("failed to plot occupancy: %w", err)
	}
	return nil
}

func writeCSV(path string, header []string, n int, row func(i int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

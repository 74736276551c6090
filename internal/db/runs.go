package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnalysisRun records one aggregation performed over a dataset, for the
// history panel in the UI layer.
type AnalysisRun struct {
	ID        string    `json:"id"`
	DatasetID string    `json:"dataset_id"`
	Kind      string    `json:"kind"`       // monthly, weekday, heatmap, ...
	StartDate string    `json:"start_date"` // YYYY-MM-DD
	EndDate   string    `json:"end_date"`   // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"`
}

// RecordRun stores a new analysis run, generating its ID.
func (db *DB) RecordRun(run *AnalysisRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if _, err := db.Exec(
		`INSERT INTO analysis_runs (id, dataset_id, kind, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.DatasetID, run.Kind, run.StartDate, run.EndDate,
	); err != nil {
		return fmt.Errorf("failed to record analysis run: %w", err)
	}

	if err := db.QueryRow(
		`SELECT created_at FROM analysis_runs WHERE id = ?`, run.ID,
	).Scan(&run.CreatedAt); err != nil {
		return fmt.Errorf("failed to read run timestamp: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (db *DB) GetRun(id string) (*AnalysisRun, error) {
	var run AnalysisRun
	err := db.QueryRow(
		`SELECT id, dataset_id, kind, start_date, end_date, created_at
		 FROM analysis_runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.DatasetID, &run.Kind, &run.StartDate, &run.EndDate, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// RecentRuns retrieves the most recent N runs for a dataset.
func (db *DB) RecentRuns(datasetID string, limit int) ([]AnalysisRun, error) {
	rows, err := db.Query(
		`SELECT id, dataset_id, kind, start_date, end_date, created_at
		 FROM analysis_runs
		 WHERE dataset_id = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		datasetID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []AnalysisRun
	for rows.Next() {
		var run AnalysisRun
		if err := rows.Scan(&run.ID, &run.DatasetID, &run.Kind, &run.StartDate, &run.EndDate, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

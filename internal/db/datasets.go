package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PI-TidalHealth/HORA/internal/analysis"
)

// Dataset is one uploaded record table.
type Dataset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Records   int       `json:"records"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateDataset stores a new dataset and its records in one transaction
// and returns the stored dataset with its generated ID.
func (db *DB) CreateDataset(name string, records []analysis.Record) (*Dataset, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	ds := &Dataset{
		ID:      uuid.NewString(),
		Name:    name,
		Records: len(records),
	}
	if _, err := tx.Exec(
		`INSERT INTO datasets (id, name) VALUES (?, ?)`, ds.ID, ds.Name,
	); err != nil {
		return nil, fmt.Errorf("insert dataset: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO records (dataset_id, date, in_room, out_room, count) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return nil, fmt.Errorf("prepare record insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(ds.ID, r.Date, r.In, r.Out, r.Count); err != nil {
			return nil, fmt.Errorf("insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit dataset: %w", err)
	}

	if err := db.QueryRow(
		`SELECT created_at FROM datasets WHERE id = ?`, ds.ID,
	).Scan(&ds.CreatedAt); err != nil {
		return nil, fmt.Errorf("read dataset timestamp: %w", err)
	}
	return ds, nil
}

// ListDatasets returns all datasets, most recent first.
func (db *DB) ListDatasets() ([]Dataset, error) {
	rows, err := db.Query(`
		SELECT d.id, d.name, d.created_at, COUNT(r.dataset_id)
		FROM datasets d
		LEFT JOIN records r ON r.dataset_id = d.id
		GROUP BY d.id, d.name, d.created_at
		ORDER BY d.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer rows.Close()

	var datasets []Dataset
	for rows.Next() {
		var ds Dataset
		if err := rows.Scan(&ds.ID, &ds.Name, &ds.CreatedAt, &ds.Records); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		datasets = append(datasets, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate datasets: %w", err)
	}
	return datasets, nil
}

// Records returns the raw records of a dataset in insertion order.
func (db *DB) Records(datasetID string) ([]analysis.Record, error) {
	rows, err := db.Query(
		`SELECT date, in_room, out_room, count FROM records WHERE dataset_id = ? ORDER BY rowid`,
		datasetID,
	)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []analysis.Record
	for rows.Next() {
		var r analysis.Record
		if err := rows.Scan(&r.Date, &r.In, &r.Out, &r.Count); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// DeleteDataset removes a dataset, its records, and its run history.
func (db *DB) DeleteDataset(id string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM analysis_runs WHERE dataset_id = ?`, id); err != nil {
		return fmt.Errorf("delete runs: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM records WHERE dataset_id = ?`, id); err != nil {
		return fmt.Errorf("delete records: %w", err)
	}
	result, err := tx.Exec(`DELETE FROM datasets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("dataset not found")
	}
	return tx.Commit()
}

package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"mspec/internal/domain"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS mspec_runs (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		run_id VARCHAR(36) NOT NULL UNIQUE,
		started_at VARCHAR(64) NOT NULL,
		duration VARCHAR(64) NOT NULL,
		duration_seconds DOUBLE NOT NULL,
		state VARCHAR(16) NOT NULL,
		assemblies TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS mspec_results (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		run_id VARCHAR(36) NOT NULL,
		position INT NOT NULL,
		context VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		state VARCHAR(16) NOT NULL,
		stack_trace TEXT,
		resolved BOOLEAN NOT NULL DEFAULT FALSE,
		INDEX idx_mspec_results_run (run_id, position)
	)`,
}

// MySQLStorage keeps the history of runs in a MySQL database
type MySQLStorage struct {
	db *sql.DB
}

// NewMySQLStorage connects to dsn and creates the run tables when missing
func NewMySQLStorage(dsn string) (*MySQLStorage, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database server: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database server: %w", err)
	}

	st := &MySQLStorage{db: db}
	if err := st.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

func (s *MySQLStorage) migrate() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create results tables: %w", err)
		}
	}
	return nil
}

// Close closes the database handle
func (s *MySQLStorage) Close() error {
	return s.db.Close()
}

// Save inserts the run and its results in one transaction
func (s *MySQLStorage) Save(report *domain.RunReport) error {
	assemblies, err := json.Marshal(report.Assemblies)
	if err != nil {
		return fmt.Errorf("marshal assemblies: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO mspec_runs (run_id, started_at, duration, duration_seconds, state, assemblies) VALUES (?, ?, ?, ?, ?, ?)",
		report.RunID, report.Timestamp, report.Duration, report.DurationSeconds, report.State, string(assemblies),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", report.RunID, err)
	}

	stmt, err := tx.Prepare("INSERT INTO mspec_results (run_id, position, context, name, state, stack_trace, resolved) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare result insert: %w", err)
	}
	defer stmt.Close()

	for i := range report.Results {
		rec := &report.Results[i]
		res, err := stmt.Exec(report.RunID, i, rec.Context, rec.Name, rec.State, rec.StackTrace, rec.Resolved)
		if err != nil {
			return fmt.Errorf("insert result %s::%s: %w", rec.Context, rec.Name, err)
		}
		if id, err := res.LastInsertId(); err == nil {
			rec.ID = id
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", report.RunID, err)
	}
	return nil
}

// Load returns the most recent run
func (s *MySQLStorage) Load() (*domain.RunReport, error) {
	var (
		report     domain.RunReport
		assemblies string
	)
	err := s.db.QueryRow(
		"SELECT run_id, started_at, duration, duration_seconds, state, assemblies FROM mspec_runs ORDER BY id DESC LIMIT 1",
	).Scan(&report.RunID, &report.Timestamp, &report.Duration, &report.DurationSeconds, &report.State, &assemblies)
	if err == sql.ErrNoRows {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("load last run: %w", err)
	}
	if err := json.Unmarshal([]byte(assemblies), &report.Assemblies); err != nil {
		return nil, fmt.Errorf("parse assemblies of run %s: %w", report.RunID, err)
	}

	rows, err := s.db.Query(
		"SELECT id, context, name, state, COALESCE(stack_trace, ''), resolved FROM mspec_results WHERE run_id = ? ORDER BY position",
		report.RunID,
	)
	if err != nil {
		return nil, fmt.Errorf("load results of run %s: %w", report.RunID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec domain.ResultRecord
		if err := rows.Scan(&rec.ID, &rec.Context, &rec.Name, &rec.State, &rec.StackTrace, &rec.Resolved); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		report.Results = append(report.Results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load results of run %s: %w", report.RunID, err)
	}
	return &report, nil
}

// Update stores the resolved flag of every loaded result
func (s *MySQLStorage) Update(report *domain.RunReport) error {
	for _, rec := range report.Results {
		if rec.ID == 0 {
			continue
		}
		if _, err := s.db.Exec("UPDATE mspec_results SET resolved = ? WHERE id = ?", rec.Resolved, rec.ID); err != nil {
			return fmt.Errorf("update result %s::%s: %w", rec.Context, rec.Name, err)
		}
	}
	return nil
}

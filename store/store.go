package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/soocke/gauge-reader-go/domain/gauge"
)

// DB persists analysis runs and their reading sequences in sqlite.
type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the readings database at path.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			video TEXT,
			interval_ms INTEGER,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS readings (
			run_id TEXT NOT NULL,
			timestamp_ms INTEGER NOT NULL,
			round INTEGER NOT NULL,
			phase TEXT NOT NULL,
			p1_health DOUBLE NOT NULL,
			p1_damage DOUBLE NOT NULL,
			p2_health DOUBLE NOT NULL,
			p2_damage DOUBLE NOT NULL,
			PRIMARY KEY (run_id, timestamp_ms),
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// RecordRun registers an analysis run and stores its readings in one
// transaction. Re-recording an existing run ID is an error.
func (db *DB) RecordRun(runID uuid.UUID, video string, intervalMS int64, readings []gauge.Reading) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec("INSERT INTO runs (run_id, video, interval_ms) VALUES (?, ?, ?)",
		runID.String(), video, intervalMS)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", runID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO readings (run_id, timestamp_ms, round, phase, p1_health, p1_damage, p2_health, p2_damage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range readings {
		_, err := stmt.Exec(runID.String(), r.TimestampMS, r.Round, r.Phase.String(),
			r.P1Health, r.P1Damage, r.P2Health, r.P2Damage)
		if err != nil {
			return fmt.Errorf("insert reading at %dms: %w", r.TimestampMS, err)
		}
	}

	return tx.Commit()
}

// Readings returns the stored reading sequence of one run in timestamp order.
func (db *DB) Readings(runID uuid.UUID) ([]gauge.Reading, error) {
	rows, err := db.Query(`
		SELECT timestamp_ms, round, phase, p1_health, p1_damage, p2_health, p2_damage
		FROM readings WHERE run_id = ? ORDER BY timestamp_ms
	`, runID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []gauge.Reading
	for rows.Next() {
		var r gauge.Reading
		var phase string
		if err := rows.Scan(&r.TimestampMS, &r.Round, &phase,
			&r.P1Health, &r.P1Damage, &r.P2Health, &r.P2Damage); err != nil {
			return nil, err
		}
		if r.Phase, err = gauge.ParsePhase(phase); err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return readings, nil
}

// Runs lists the recorded run IDs, newest first.
func (db *DB) Runs() ([]uuid.UUID, error) {
	rows, err := db.Query("SELECT run_id FROM runs ORDER BY created_at DESC, run_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("malformed run id %q: %w", raw, err)
		}
		runs = append(runs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

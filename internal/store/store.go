// Package store logs readings to SQLite for the history viewer.
// Uses WAL mode for crash-safe appends from the poll loop.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/gr3q/cputemp/internal/sensor"
)

// DB wraps the readings database.
type DB struct {
	db *sql.DB
}

// Row is one logged reading. Selected marks the reading the selection
// policy chose as the CPU temperature for that poll.
type Row struct {
	Time     time.Time
	Chip     string
	Label    string
	Temp     float64
	Selected bool
}

// Open creates or opens readings.db under dir. Enables WAL mode and a
// 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	// modernc.org/sqlite takes pragmas as _pragma=name(value) pairs;
	// the mattn-style _journal_mode/_busy_timeout keys are ignored.
	dbPath := filepath.Join(dir, "readings.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS readings (
			ts       INTEGER NOT NULL,
			chip     TEXT NOT NULL,
			label    TEXT NOT NULL,
			temp_c   REAL NOT NULL,
			selected BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_readings_ts ON readings(ts)`,
	}
	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Write appends one poll's readings in a single transaction. Value-less
// sensors are skipped; there is nothing to plot for them. selectedKey
// identifies the reading the selector picked ("" when none).
func (d *DB) Write(readings []sensor.Reading, selectedKey string, t time.Time) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO readings (ts, chip, label, temp_c, selected) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	ts := t.Unix()
	for _, r := range readings {
		if !r.HasTemp {
			continue
		}
		if _, err := stmt.Exec(ts, r.Chip, r.Label, r.Temp, r.Key() == selectedKey); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// ListDays returns the dates with logged readings, newest first.
func (d *DB) ListDays() ([]string, error) {
	rows, err := d.db.Query(
		`SELECT DISTINCT date(ts, 'unixepoch', 'localtime') AS day
		 FROM readings ORDER BY day DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// LoadDay returns all readings logged on the given local date
// (YYYY-MM-DD), oldest first.
func (d *DB) LoadDay(day string) ([]Row, error) {
	rows, err := d.db.Query(
		`SELECT ts, chip, label, temp_c, selected FROM readings
		 WHERE date(ts, 'unixepoch', 'localtime') = ? ORDER BY ts`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var ts int64
		if err := rows.Scan(&ts, &r.Chip, &r.Label, &r.Temp, &r.Selected); err != nil {
			return nil, err
		}
		r.Time = time.Unix(ts, 0).Local()
		out = append(out, r)
	}
	return out, rows.Err()
}

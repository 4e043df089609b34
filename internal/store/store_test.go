package store

import (
	"testing"
	"time"

	"github.com/gr3q/cputemp/internal/sensor"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	now := time.Date(2026, 8, 21, 14, 30, 0, 0, time.Local)
	readings := []sensor.Reading{
		{Chip: "k10temp-pci-00c3", Label: "Tctl", Temp: 52.6, HasTemp: true},
		{Chip: "nvme-pci-0400", Label: "Composite", Temp: 38.9, HasTemp: true},
		{Chip: "acpitz-acpi-0", Label: "temp1"}, // value-less, must be skipped
	}

	if err := db.Write(readings, "k10temp-pci-00c3/Tctl", now); err != nil {
		t.Fatalf("Write: %v", err)
	}

	days, err := db.ListDays()
	if err != nil {
		t.Fatalf("ListDays: %v", err)
	}
	if len(days) != 1 || days[0] != "2026-08-21" {
		t.Fatalf("ListDays: got %v, want [2026-08-21]", days)
	}

	rows, err := db.LoadDay("2026-08-21")
	if err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows (value-less skipped), got %d", len(rows))
	}

	if rows[0].Label != "Tctl" || rows[0].Temp != 52.6 || !rows[0].Selected {
		t.Errorf("first row: %+v", rows[0])
	}
	if rows[1].Label != "Composite" || rows[1].Selected {
		t.Errorf("second row: %+v", rows[1])
	}
	if !rows[0].Time.Equal(now) {
		t.Errorf("timestamp: got %v, want %v", rows[0].Time, now)
	}
}

func TestListDaysNewestFirst(t *testing.T) {
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	r := []sensor.Reading{{Chip: "c", Label: "Tctl", Temp: 50, HasTemp: true}}
	d1 := time.Date(2026, 8, 20, 10, 0, 0, 0, time.Local)
	d2 := time.Date(2026, 8, 21, 10, 0, 0, 0, time.Local)

	if err := db.Write(r, "", d1); err != nil {
		t.Fatal(err)
	}
	if err := db.Write(r, "", d2); err != nil {
		t.Fatal(err)
	}

	days, err := db.ListDays()
	if err != nil {
		t.Fatalf("ListDays: %v", err)
	}
	if len(days) != 2 || days[0] != "2026-08-21" || days[1] != "2026-08-20" {
		t.Errorf("got %v, want newest first", days)
	}
}

func TestOpenEnablesWALAndBusyTimeout(t *testing.T) {
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	var mode string
	if err := db.db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var timeout int
	if err := db.db.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout); err != nil {
		t.Fatalf("PRAGMA busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	db, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	db.Close()

	db, err = Open(dir)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer db.Close()

	if _, err := db.ListDays(); err != nil {
		t.Errorf("ListDays after reopen: %v", err)
	}
}

package applet

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gr3q/cputemp/internal/config"
	"github.com/gr3q/cputemp/internal/logging"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	t.Setenv("CPUTEMP_HOME", t.TempDir())
	return New(config.Default(), nil, nil, logging.Discard())
}

func TestReadingUpdatesModel(t *testing.T) {
	m := newTestModel(t)

	now := time.Now()
	updated, _ := m.Update(readingMsg{temp: 52.5, hasTemp: true, time: now})
	m = updated.(Model)

	if !m.hasTemp || m.temp != 52.5 {
		t.Errorf("got temp %f (has=%v), want 52.5", m.temp, m.hasTemp)
	}
	if m.series.Len() != 1 {
		t.Errorf("series length: got %d, want 1", m.series.Len())
	}
}

func TestAbsentReadingRendersPlaceholder(t *testing.T) {
	m := newTestModel(t)
	m.width = 60
	m.height = 20

	updated, _ := m.Update(readingMsg{hasTemp: false, time: time.Now()})
	m = updated.(Model)

	if !strings.Contains(m.View(), "--") {
		t.Error("expected -- placeholder when no reading is available")
	}
	if m.series.Len() != 0 {
		t.Error("absent readings must not enter the history")
	}
}

func TestUnitTogglePersists(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(key("f"))
	m = updated.(Model)

	if !m.cfg.Fahrenheit {
		t.Fatal("expected Fahrenheit after toggle")
	}

	saved, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !saved.Fahrenheit {
		t.Error("toggle was not persisted")
	}
}

func TestIntervalFloorRejected(t *testing.T) {
	m := newTestModel(t)
	m.showSettings = true
	m.intervalInput = "100"

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if m.inputErr == "" {
		t.Error("expected an input error for a 100ms interval")
	}
	if m.cfg.RefreshIntervalMS != 1000 {
		t.Errorf("interval should be unchanged, got %d", m.cfg.RefreshIntervalMS)
	}
}

func TestIntervalApplied(t *testing.T) {
	m := newTestModel(t)
	m.showSettings = true
	m.intervalInput = "2500"

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if m.inputErr != "" {
		t.Fatalf("unexpected input error: %s", m.inputErr)
	}
	if m.cfg.RefreshIntervalMS != 2500 {
		t.Errorf("interval: got %d, want 2500", m.cfg.RefreshIntervalMS)
	}

	saved, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if saved.RefreshIntervalMS != 2500 {
		t.Error("interval was not persisted")
	}
}

func TestConfigMessageUpdatesModel(t *testing.T) {
	m := newTestModel(t)

	want := config.Config{Fahrenheit: true, RefreshIntervalMS: 750, LogLevel: "info"}
	updated, _ := m.Update(configMsg(want))
	m = updated.(Model)

	if m.cfg != want {
		t.Errorf("config: got %+v, want %+v", m.cfg, want)
	}
}

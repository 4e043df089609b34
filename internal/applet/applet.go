// Package applet implements the panel applet TUI: one big CPU
// temperature value, a sparkline of its recent history, and a settings
// popup for the display unit and refresh interval.
package applet

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gr3q/cputemp/internal/chart"
	"github.com/gr3q/cputemp/internal/config"
	"github.com/gr3q/cputemp/internal/cputemp"
	"github.com/gr3q/cputemp/internal/history"
	"github.com/gr3q/cputemp/internal/sensor"
	"github.com/gr3q/cputemp/internal/store"
)

// historySize is 10 minutes of points at the default 1s interval.
const historySize = 600

// ── Messages ─────────────────────────────────────────────────────────

type tickMsg time.Time

type readingMsg struct {
	temp        float64
	hasTemp     bool
	selectedKey string
	readings    []sensor.Reading
	time        time.Time
}

type configMsg config.Config

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model for the applet.
type Model struct {
	cfg   config.Config
	cfgCh <-chan config.Config
	db    *store.DB
	log   *slog.Logger

	temp     float64
	hasTemp  bool
	series   *history.Buffer
	lastPoll time.Time
	paused   bool
	err      error

	showSettings  bool
	intervalInput string
	inputErr      string

	width  int
	height int
}

// New creates the initial applet model. db may be nil when the reading
// log could not be opened; the applet then runs without persistence.
func New(cfg config.Config, cfgCh <-chan config.Config, db *store.DB, log *slog.Logger) Model {
	return Model{
		cfg:           cfg,
		cfgCh:         cfgCh,
		db:            db,
		log:           log,
		series:        history.NewBuffer(historySize),
		intervalInput: strconv.FormatInt(cfg.RefreshIntervalMS, 10),
	}
}

// ── Commands ─────────────────────────────────────────────────────────

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// poll re-enumerates the sensors and runs the selection policy. The
// snapshot is built fresh every call; nothing is cached across polls.
func (m Model) poll() tea.Msg {
	readings, err := sensor.ReadAll()
	if err != nil {
		return errMsg{err}
	}

	sel, ok := cputemp.SelectReading(readings)

	msg := readingMsg{
		temp:     sel.Temp,
		hasTemp:  ok,
		readings: readings,
		time:     time.Now(),
	}
	if ok {
		msg.selectedKey = sel.Key()
	}
	return msg
}

func (m Model) waitConfig() tea.Cmd {
	if m.cfgCh == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, ok := <-m.cfgCh
		if !ok {
			return nil
		}
		return configMsg(cfg)
	}
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.poll, tickCmd(m.cfg.Interval()), m.waitConfig())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		if m.showSettings {
			return m.updateSettings(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "f":
			m.cfg.Fahrenheit = !m.cfg.Fahrenheit
			m.saveConfig()
		case "s", "enter":
			m.showSettings = true
			m.intervalInput = strconv.FormatInt(m.cfg.RefreshIntervalMS, 10)
			m.inputErr = ""
		case " ", "p":
			m.paused = !m.paused
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		// Interval changes apply here, at the next schedule; the
		// running wait is never interrupted.
		if m.paused {
			return m, tickCmd(m.cfg.Interval())
		}
		return m, tea.Batch(m.poll, tickCmd(m.cfg.Interval()))

	case readingMsg:
		m.temp = msg.temp
		m.hasTemp = msg.hasTemp
		m.lastPoll = msg.time
		m.err = nil
		if msg.hasTemp {
			m.series.Push(msg.temp, msg.time)
		}
		if m.db != nil {
			if err := m.db.Write(msg.readings, msg.selectedKey, msg.time); err != nil {
				m.log.Warn("reading log write failed", "err", err)
			}
		}

	case configMsg:
		old := m.cfg
		m.cfg = config.Config(msg)
		if old != m.cfg {
			m.log.Info("config changed",
				"fahrenheit", m.cfg.Fahrenheit,
				"refresh_ms", m.cfg.RefreshIntervalMS)
		}
		return m, m.waitConfig()

	case errMsg:
		m.err = msg.err
		m.hasTemp = false
	}

	return m, nil
}

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "s":
		m.showSettings = false
	case "f":
		m.cfg.Fahrenheit = !m.cfg.Fahrenheit
		m.saveConfig()
	case "backspace":
		if len(m.intervalInput) > 0 {
			m.intervalInput = m.intervalInput[:len(m.intervalInput)-1]
		}
	case "enter":
		m.applyInterval()
	default:
		if len(msg.String()) == 1 && msg.String() >= "0" && msg.String() <= "9" {
			if len(m.intervalInput) < 7 {
				m.intervalInput += msg.String()
				m.inputErr = ""
			}
		}
	}
	return m, nil
}

func (m *Model) applyInterval() {
	ms, err := strconv.ParseInt(m.intervalInput, 10, 64)
	if err != nil {
		m.inputErr = "not a number"
		return
	}
	if time.Duration(ms)*time.Millisecond < config.MinRefreshInterval {
		m.inputErr = fmt.Sprintf("minimum is %dms", config.MinRefreshInterval.Milliseconds())
		return
	}
	m.cfg.RefreshIntervalMS = ms
	m.inputErr = ""
	m.saveConfig()
}

func (m *Model) saveConfig() {
	if err := config.Save(m.cfg); err != nil {
		m.log.Error("saving config failed", "err", err)
		m.inputErr = "save failed"
	}
}

// ── View ─────────────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorCrit     = lipgloss.Color("196")
	colorPaused   = lipgloss.Color("196")
)

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	contentWidth := m.width - 2
	if contentWidth < 30 {
		contentWidth = 30
	}

	var sections []string
	sections = append(sections, m.renderTitleBar(contentWidth))

	if m.err != nil {
		errBox := lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Padding(0, 1).
			Render(fmt.Sprintf("ERROR: %v", m.err))
		sections = append(sections, errBox)
	}

	sections = append(sections, m.renderValuePanel(contentWidth))

	if m.showSettings {
		sections = append(sections, m.renderSettings(contentWidth))
	}

	sections = append(sections, m.renderFooter(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("CPU TEMPERATURE")

	var statusParts []string
	if !m.lastPoll.IsZero() {
		statusParts = append(statusParts, lipgloss.NewStyle().
			Foreground(colorDim).
			Render(m.lastPoll.Format("15:04:05")))
	}
	statusParts = append(statusParts, lipgloss.NewStyle().
		Foreground(colorDim).
		Render(fmt.Sprintf("every %dms", m.cfg.RefreshIntervalMS)))
	if m.paused {
		statusParts = append(statusParts, lipgloss.NewStyle().
			Foreground(colorPaused).
			Bold(true).
			Render("PAUSED"))
	}

	sep := lipgloss.NewStyle().Foreground(colorDim).Render(" │ ")
	right := strings.Join(statusParts, sep)

	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + strings.Repeat(" ", gap) + right)
}

func (m Model) renderValuePanel(width int) string {
	value := "--"
	if m.hasTemp {
		value = chart.FormatCompact(m.temp, m.cfg.Fahrenheit)
	}

	unit := "Celsius"
	if m.cfg.Fahrenheit {
		unit = "Fahrenheit"
	}

	big := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("214")).
		Render(value)
	unitText := lipgloss.NewStyle().
		Foreground(colorDim).
		Render("  " + unit)

	var rows []string
	rows = append(rows, big+unitText)

	chartWidth := width - 8
	if chartWidth > 120 {
		chartWidth = 120
	}
	if chartWidth >= 15 && m.series.Len() > 0 {
		rangeMin := math.Max(0, m.series.Min-5)
		rangeMax := m.series.Peak + 5
		pts := m.series.LastNPoints(chartWidth)

		frameL := lipgloss.NewStyle().Foreground(colorBorder).Render("▕")
		frameR := lipgloss.NewStyle().Foreground(colorBorder).Render("▏")
		spark := chart.RenderSparklinePoints(pts, chartWidth, rangeMin, rangeMax, 0, 0, false, false)
		rows = append(rows, frameL+spark+frameR)

		timeline := chart.RenderTimeline(pts, chartWidth)
		if strings.TrimSpace(timeline) != "" {
			rows = append(rows, " "+timeline)
		}

		dimS := lipgloss.NewStyle().Foreground(colorDim)
		valS := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
		rows = append(rows, dimS.Render("avg ")+valS.Render(chart.FormatTemp(m.series.Avg(), m.cfg.Fahrenheit))+
			dimS.Render("  lo ")+valS.Render(chart.FormatTemp(m.series.Min, m.cfg.Fahrenheit))+
			dimS.Render("  pk ")+valS.Render(chart.FormatTemp(m.series.Peak, m.cfg.Fahrenheit)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderSettings(width int) string {
	labelS := lipgloss.NewStyle().Foreground(colorLabel)
	dimS := lipgloss.NewStyle().Foreground(colorDim)

	toggle := "[ ]"
	if m.cfg.Fahrenheit {
		toggle = "[x]"
	}

	var rows []string
	rows = append(rows, lipgloss.NewStyle().Bold(true).Render("Settings"))
	rows = append(rows, labelS.Render("Fahrenheit        ")+toggle+dimS.Render("  (f to toggle)"))
	rows = append(rows, labelS.Render("Refresh (ms)      ")+m.intervalInput+"▏"+dimS.Render("  (enter to apply)"))
	if m.inputErr != "" {
		rows = append(rows, lipgloss.NewStyle().Foreground(colorCrit).Render(m.inputErr))
	}
	rows = append(rows, dimS.Render("esc closes settings"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("214")).
		Padding(0, 1).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderFooter(width int) string {
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	keyS := lipgloss.NewStyle().Foreground(colorLabel)

	keys := dimS.Render("q") + keyS.Render(":quit") +
		dimS.Render("  f") + keyS.Render(":unit") +
		dimS.Render("  s") + keyS.Render(":settings") +
		dimS.Render("  p") + keyS.Render(":pause")

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(keys)
}

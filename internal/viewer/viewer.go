// Package viewer implements the history browser TUI over the SQLite
// reading log, with day navigation and time scrubbing. The selected CPU
// temperature series is shown first, raw per-sensor series below it.
package viewer

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gr3q/cputemp/internal/chart"
	"github.com/gr3q/cputemp/internal/history"
	"github.com/gr3q/cputemp/internal/sensor"
	"github.com/gr3q/cputemp/internal/store"
)

// selectedSeries is the synthetic key for the values the selection
// policy picked.
const selectedSeries = "CPU (selected)"

// Run launches the history browser.
func Run(db *store.DB, fahrenheit bool) error {
	days, err := db.ListDays()
	if err != nil {
		return fmt.Errorf("list days: %w", err)
	}
	if len(days) == 0 {
		return fmt.Errorf("no history recorded yet — run the applet first")
	}

	p := tea.NewProgram(
		initModel(db, days, fahrenheit),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = p.Run()
	return err
}

// ── Model ────────────────────────────────────────────────────────────

type model struct {
	db         *store.DB
	fahrenheit bool

	days   []string
	dayIdx int
	cursor int // index into timeSlots
	scroll int
	width  int
	height int
	err    error

	timeSlots []time.Time
	order     []string // series keys, selected series first
	series    map[string][]history.Point
}

func initModel(db *store.DB, days []string, fahrenheit bool) model {
	m := model{db: db, days: days, fahrenheit: fahrenheit}
	m.loadDay()
	return m
}

func (m *model) loadDay() {
	rows, err := m.db.LoadDay(m.days[m.dayIdx])
	if err != nil {
		m.err = err
		return
	}
	m.err = nil

	timeSet := make(map[int64]time.Time)
	seriesMap := make(map[string][]history.Point)

	for _, r := range rows {
		timeSet[r.Time.Unix()] = r.Time
		p := history.Point{Temp: r.Temp, Time: r.Time}
		key := r.Chip + "/" + r.Label
		seriesMap[key] = append(seriesMap[key], p)
		if r.Selected {
			seriesMap[selectedSeries] = append(seriesMap[selectedSeries], p)
		}
	}

	var order []string
	for k := range seriesMap {
		if k != selectedSeries {
			order = append(order, k)
		}
	}
	sort.Strings(order)
	if _, ok := seriesMap[selectedSeries]; ok {
		order = append([]string{selectedSeries}, order...)
	}
	m.order = order

	var times []time.Time
	for _, t := range timeSet {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	m.timeSlots = times

	for k, pts := range seriesMap {
		sort.Slice(pts, func(i, j int) bool { return pts[i].Time.Before(pts[j].Time) })
		seriesMap[k] = pts
	}
	m.series = seriesMap

	if len(m.timeSlots) > 0 {
		m.cursor = len(m.timeSlots) - 1
	}
	m.scroll = 0
}

// ── Init / Update ────────────────────────────────────────────────────

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		// Time navigation
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor < len(m.timeSlots)-1 {
				m.cursor++
			}
		case "shift+left", "H":
			m.cursor -= 60
			if m.cursor < 0 {
				m.cursor = 0
			}
		case "shift+right", "L":
			m.cursor += 60
			if m.cursor >= len(m.timeSlots) {
				m.cursor = len(m.timeSlots) - 1
			}
		case "home":
			m.cursor = 0
		case "end":
			if len(m.timeSlots) > 0 {
				m.cursor = len(m.timeSlots) - 1
			}

		// Day navigation
		case "[":
			if m.dayIdx < len(m.days)-1 {
				m.dayIdx++
				m.loadDay()
			}
		case "]":
			if m.dayIdx > 0 {
				m.dayIdx--
				m.loadDay()
			}

		// Scroll
		case "up", "k":
			if m.scroll > 0 {
				m.scroll--
			}
		case "down", "j":
			m.scroll++
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// ── View ─────────────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorChipName = lipgloss.Color("147")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorCrit     = lipgloss.Color("196")
)

func (m model) View() string {
	if m.width == 0 {
		return "  Loading..."
	}

	contentWidth := m.width - 2
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string
	sections = append(sections, m.renderTitle(contentWidth))

	if m.err != nil {
		errBox := lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Padding(0, 1).
			Render(fmt.Sprintf("ERROR: %v", m.err))
		sections = append(sections, errBox)
	}

	if len(m.timeSlots) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(2, 0).
			Align(lipgloss.Center).
			Width(contentWidth).
			Render("No data for this day.")
		sections = append(sections, empty)
	} else {
		sections = append(sections, m.renderCursorInfo(contentWidth))
		sections = append(sections, m.renderPanels(contentWidth)...)
	}

	sections = append(sections, m.renderFooter(contentWidth))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	// Scroll
	lines := strings.Split(content, "\n")
	visibleLines := m.height
	if visibleLines < 5 {
		visibleLines = 5
	}
	maxScroll := len(lines) - visibleLines
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}

	start := m.scroll
	end := start + visibleLines
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[start:end], "\n")
}

func (m model) renderTitle(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("CPU TEMP HISTORY")

	day := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true).
		Render(m.days[m.dayIdx])

	nav := lipgloss.NewStyle().
		Foreground(colorDim).
		Render(fmt.Sprintf("  [ %d/%d ]", m.dayIdx+1, len(m.days)))

	dataInfo := ""
	if len(m.timeSlots) > 0 {
		first := m.timeSlots[0].Format("15:04:05")
		last := m.timeSlots[len(m.timeSlots)-1].Format("15:04:05")
		dataInfo = lipgloss.NewStyle().
			Foreground(colorDim).
			Render(fmt.Sprintf("  %s - %s  (%d series)", first, last, len(m.order)))
	}

	right := day + nav + dataInfo

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

func (m model) renderCursorInfo(width int) string {
	if m.cursor < 0 || m.cursor >= len(m.timeSlots) {
		return ""
	}

	t := m.timeSlots[m.cursor]
	ts := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true).
		Render(t.Format("15:04:05"))

	pos := lipgloss.NewStyle().
		Foreground(colorDim).
		Render(fmt.Sprintf("  %d/%d", m.cursor+1, len(m.timeSlots)))

	barWidth := width - 30
	if barWidth < 10 {
		barWidth = 10
	}

	return lipgloss.NewStyle().
		Padding(0, 1).
		Render("  " + ts + pos + "  " + m.renderScrubber(barWidth))
}

func (m model) renderScrubber(width int) string {
	if len(m.timeSlots) == 0 || width <= 0 {
		return ""
	}

	pos := 0
	if len(m.timeSlots) > 1 {
		pos = m.cursor * (width - 1) / (len(m.timeSlots) - 1)
	}
	if pos >= width {
		pos = width - 1
	}

	var sb strings.Builder
	dimS := lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	curS := lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	tickS := lipgloss.NewStyle().Foreground(lipgloss.Color("239"))

	for i := 0; i < width; i++ {
		if i == pos {
			sb.WriteString(curS.Render("◆"))
			continue
		}
		// Mark hour boundaries
		slotIdx := 0
		if len(m.timeSlots) > 1 && width > 1 {
			slotIdx = i * (len(m.timeSlots) - 1) / (width - 1)
		}
		if slotIdx > 0 && slotIdx < len(m.timeSlots) &&
			m.timeSlots[slotIdx].Hour() != m.timeSlots[slotIdx-1].Hour() {
			sb.WriteString(tickS.Render("│"))
			continue
		}
		sb.WriteString(dimS.Render("─"))
	}

	return sb.String()
}

func (m model) renderPanels(totalWidth int) []string {
	if m.cursor < 0 || m.cursor >= len(m.timeSlots) {
		return nil
	}

	innerWidth := totalWidth - 4
	if innerWidth < 30 {
		innerWidth = 30
	}

	chartWidth := innerWidth - 50
	if chartWidth < 15 {
		chartWidth = 15
	}
	if chartWidth > 140 {
		chartWidth = 140
	}

	labelW := 18
	tempW := 8

	var panels []string

	for _, key := range m.order {
		pts := m.series[key]
		if len(pts) == 0 {
			continue
		}

		var rows []string

		title := key
		if key != selectedSeries {
			parts := strings.SplitN(key, "/", 2)
			friendly := sensor.FriendlyName(parts[0])
			title = friendly
			rows = append(rows,
				lipgloss.NewStyle().Bold(true).Foreground(colorChipName).Render(title)+
					"  "+lipgloss.NewStyle().Foreground(colorDim).Render(key))
		} else {
			rows = append(rows,
				lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")).Render(title))
		}

		curTemp := tempAtTime(pts, m.timeSlots[m.cursor])

		minV, maxV := math.MaxFloat64, -math.MaxFloat64
		for _, p := range pts {
			if p.Temp < minV {
				minV = p.Temp
			}
			if p.Temp > maxV {
				maxV = p.Temp
			}
		}
		rangeMin := math.Max(0, minV-5)
		rangeMax := maxV + 5

		label := key
		if idx := strings.Index(label, "/"); idx >= 0 {
			label = label[idx+1:]
		}
		labelText := lipgloss.NewStyle().
			Foreground(colorLabel).
			Bold(true).
			Width(labelW).
			Render(truncate(label, labelW))

		temp := lipgloss.NewStyle().
			Width(tempW).
			Align(lipgloss.Right).
			Render(chart.RenderTempValue(curTemp, 0, 0, false, false, m.fahrenheit))

		sparkPts := sparkWindow(pts, m.cursor, chartWidth, m.timeSlots)
		frameL := lipgloss.NewStyle().Foreground(colorBorder).Render("▕")
		frameR := lipgloss.NewStyle().Foreground(colorBorder).Render("▏")
		spark := chart.RenderSparklinePoints(sparkPts, chartWidth, rangeMin, rangeMax, 0, 0, false, false)

		dimS := lipgloss.NewStyle().Foreground(colorDim)
		valS := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
		avg := 0.0
		for _, p := range pts {
			avg += p.Temp
		}
		avg /= float64(len(pts))
		stats := dimS.Render(" avg") + valS.Render(fmt.Sprintf("%5.1f", avg)) +
			dimS.Render(" lo") + valS.Render(fmt.Sprintf("%5.1f", minV)) +
			dimS.Render(" pk") + valS.Render(fmt.Sprintf("%5.1f", maxV))

		rows = append(rows, labelText+" "+temp+" "+frameL+spark+frameR+stats)

		timeline := chart.RenderTimeline(sparkPts, chartWidth)
		if strings.TrimSpace(timeline) != "" {
			pad := strings.Repeat(" ", labelW+tempW+2)
			rows = append(rows, pad+" "+timeline)
		}

		panel := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(totalWidth).
			Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

		panels = append(panels, panel)
	}

	return panels
}

func (m model) renderFooter(width int) string {
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	keyS := lipgloss.NewStyle().Foreground(colorLabel)

	keys := dimS.Render("q") + keyS.Render(":quit") +
		dimS.Render("  h/l") + keyS.Render(":scrub") +
		dimS.Render("  H/L") + keyS.Render(":skip 1m") +
		dimS.Render("  home/end") + keyS.Render(":jump") +
		dimS.Render("  [/]") + keyS.Render(":day") +
		dimS.Render("  j/k") + keyS.Render(":scroll")

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(keys)
}

// ── Helpers ──────────────────────────────────────────────────────────

// tempAtTime finds the temperature closest to the given time.
func tempAtTime(pts []history.Point, t time.Time) float64 {
	best := pts[0].Temp
	bestDiff := absDuration(pts[0].Time.Sub(t))
	for _, p := range pts {
		diff := absDuration(p.Time.Sub(t))
		if diff < bestDiff {
			bestDiff = diff
			best = p.Temp
		}
		if p.Time.After(t) && diff > bestDiff {
			break // past our point, getting further
		}
	}
	return best
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// sparkWindow builds the window of points ending at the cursor position
// for the sparkline to render.
func sparkWindow(pts []history.Point, cursorIdx, width int, timeSlots []time.Time) []history.Point {
	if len(pts) == 0 || len(timeSlots) == 0 {
		return nil
	}

	tempMap := make(map[int64]float64, len(pts))
	for _, p := range pts {
		tempMap[p.Time.Unix()] = p.Temp
	}

	var result []history.Point
	for i := width - 1; i >= 0; i-- {
		slotIdx := cursorIdx - i
		if slotIdx < 0 || slotIdx >= len(timeSlots) {
			continue
		}
		t := timeSlots[slotIdx]
		if temp, ok := tempMap[t.Unix()]; ok {
			result = append(result, history.Point{Temp: temp, Time: t})
		}
	}
	return result
}

func truncate(s string, w int) string {
	if len(s) <= w {
		return s
	}
	if w <= 3 {
		return s[:w]
	}
	return s[:w-1] + "…"
}

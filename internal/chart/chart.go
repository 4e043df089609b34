// Package chart renders sparklines and temperature values for the
// applet and the history viewer. All internal math is Celsius; display
// unit conversion happens only at the formatting edge.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gr3q/cputemp/internal/history"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// ToFahrenheit converts a Celsius value for display.
func ToFahrenheit(celsius float64) float64 {
	return celsius*1.8 + 32.0
}

// FormatCompact renders the panel value the way the applet shows it:
// whole degrees plus the degree sign, e.g. "47°". The unit letter is
// omitted in the compact form.
func FormatCompact(celsius float64, fahrenheit bool) string {
	v := celsius
	if fahrenheit {
		v = ToFahrenheit(celsius)
	}
	return fmt.Sprintf("%.0f°", v)
}

// FormatTemp renders a full value with its unit, e.g. "47.5°C".
func FormatTemp(celsius float64, fahrenheit bool) string {
	if fahrenheit {
		return fmt.Sprintf("%.1f°F", ToFahrenheit(celsius))
	}
	return fmt.Sprintf("%.1f°C", celsius)
}

// TempColor returns the color for a Celsius value given thresholds.
func TempColor(v, high, crit float64, hasHigh, hasCrit bool) lipgloss.Color {
	switch {
	case hasCrit && v >= crit:
		return lipgloss.Color("196") // red
	case hasHigh && v >= high:
		return lipgloss.Color("208") // orange
	case hasHigh && v >= high*0.85:
		return lipgloss.Color("220") // yellow
	default:
		return lipgloss.Color("78") // soft green
	}
}

// RenderTempValue renders a color-coded temperature value.
func RenderTempValue(celsius, high, crit float64, hasHigh, hasCrit, fahrenheit bool) string {
	s := fmt.Sprintf("%7s", FormatTemp(celsius, fahrenheit))
	style := lipgloss.NewStyle().Foreground(TempColor(celsius, high, crit, hasHigh, hasCrit))
	if hasCrit && celsius >= crit {
		style = style.Bold(true)
	}
	return style.Render(s)
}

// RenderSparklinePoints renders a sparkline with minute tick marks.
// A subtle pipe is drawn at each minute boundary.
func RenderSparklinePoints(points []history.Point, width int, rangeMin, rangeMax float64, high, crit float64, hasHigh, hasCrit bool) string {
	if width <= 0 {
		return ""
	}

	if len(points) == 0 {
		dim := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
		return dim.Render(strings.Repeat("╌", width))
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}

	padLen := width - len(points)
	span := rangeMax - rangeMin
	if span <= 0 {
		span = 1
	}

	var sb strings.Builder

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	for i := 0; i < padLen; i++ {
		sb.WriteString(dim.Render("╌"))
	}

	tickStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("239"))

	for i, p := range points {
		norm := (p.Temp - rangeMin) / span
		norm = math.Max(0, math.Min(1, norm))

		idx := int(norm * 7)
		if idx > 7 {
			idx = 7
		}

		if isMinuteTick(points, i) {
			sb.WriteString(tickStyle.Render("│"))
			continue
		}

		ch := string(sparkBlocks[idx])
		color := TempColor(p.Temp, high, crit, hasHigh, hasCrit)
		style := lipgloss.NewStyle().Foreground(color)
		if hasCrit && p.Temp >= crit {
			style = style.Bold(true)
		}
		sb.WriteString(style.Render(ch))
	}

	return sb.String()
}

func isMinuteTick(points []history.Point, i int) bool {
	p := points[i]
	if p.Time.IsZero() {
		return false
	}
	if p.Time.Second() == 0 {
		return true
	}
	if i > 0 && !points[i-1].Time.IsZero() {
		return p.Time.Minute() != points[i-1].Time.Minute()
	}
	return false
}

// RenderTimeline renders HH:MM labels under the sparkline at minute
// tick positions.
func RenderTimeline(points []history.Point, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}

	padLen := width - len(points)

	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}

	tickStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("239"))

	type tick struct {
		pos   int
		label string
	}
	var ticks []tick

	for i, p := range points {
		if p.Time.IsZero() {
			continue
		}
		if isMinuteTick(points, i) {
			ticks = append(ticks, tick{pos: padLen + i, label: p.Time.Format("15:04")})
		}
	}

	lastEnd := -1
	for _, t := range ticks {
		start := t.pos - 2
		if start < 0 {
			start = 0
		}
		end := start + len(t.label)
		if end > width {
			continue
		}
		if start <= lastEnd+1 {
			continue
		}
		for j, ch := range t.label {
			line[start+j] = ch
		}
		lastEnd = end
	}

	return tickStyle.Render(string(line))
}

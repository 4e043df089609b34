package chart

import (
	"strings"
	"testing"
	"time"

	"github.com/gr3q/cputemp/internal/history"
)

func TestToFahrenheit(t *testing.T) {
	tests := []struct{ c, f float64 }{
		{0, 32},
		{100, 212},
		{-40, -40},
		{37, 98.6},
	}
	for _, tt := range tests {
		if got := ToFahrenheit(tt.c); got < tt.f-0.001 || got > tt.f+0.001 {
			t.Errorf("ToFahrenheit(%f) = %f, want %f", tt.c, got, tt.f)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	if got := FormatCompact(47.4, false); got != "47°" {
		t.Errorf("celsius: got %q, want 47°", got)
	}
	if got := FormatCompact(47.0, true); got != "117°" {
		t.Errorf("fahrenheit: got %q, want 117°", got)
	}
}

func TestFormatTemp(t *testing.T) {
	if got := FormatTemp(47.5, false); got != "47.5°C" {
		t.Errorf("got %q, want 47.5°C", got)
	}
	if got := FormatTemp(0, true); got != "32.0°F" {
		t.Errorf("got %q, want 32.0°F", got)
	}
}

func TestSparkline(t *testing.T) {
	pts := make([]history.Point, 0, 9)
	for _, v := range []float64{30, 35, 40, 50, 60, 70, 80, 90, 100} {
		pts = append(pts, history.Point{Temp: v})
	}
	result := RenderSparklinePoints(pts, 20, 20, 110, 80, 100, true, true)
	if len(result) == 0 {
		t.Error("sparkline should not be empty")
	}
}

func TestSparklineEmpty(t *testing.T) {
	result := RenderSparklinePoints(nil, 10, 0, 100, 0, 0, false, false)
	if !strings.Contains(result, "╌") {
		t.Error("empty sparkline should render placeholder dashes")
	}
}

func TestSparklineMinuteTicks(t *testing.T) {
	// Points crossing a minute boundary get a tick mark
	base := time.Date(2026, 8, 21, 14, 0, 50, 0, time.Local)
	var pts []history.Point
	for i := 0; i < 20; i++ {
		pts = append(pts, history.Point{
			Temp: float64(40 + i%5),
			Time: base.Add(time.Duration(i) * time.Second),
		})
	}

	result := RenderSparklinePoints(pts, 20, 30, 55, 80, 100, true, true)
	if !strings.Contains(result, "│") {
		t.Error("expected minute tick mark in sparkline")
	}

	timeline := RenderTimeline(pts, 20)
	if !strings.Contains(timeline, "14:01") {
		t.Errorf("expected 14:01 label in timeline, got %q", timeline)
	}
}

// Package history provides a ring buffer of recent temperature values
// with min/peak/avg statistics, feeding the applet's sparkline.
package history

import (
	"math"
	"time"
)

// Point is a single data point in the temperature history.
type Point struct {
	Temp float64
	Time time.Time
}

// Buffer stores a ring buffer of temperature readings.
type Buffer struct {
	Points []Point
	Max    int // capacity
	Min    float64
	Peak   float64
}

// NewBuffer creates a ring buffer with the given capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{
		Points: make([]Point, 0, capacity),
		Max:    capacity,
		Min:    math.MaxFloat64,
		Peak:   -math.MaxFloat64,
	}
}

// Push adds a new reading. Min and Peak track everything ever pushed,
// not just the retained window.
func (b *Buffer) Push(temp float64, t time.Time) {
	p := Point{Temp: temp, Time: t}
	if len(b.Points) >= b.Max {
		copy(b.Points, b.Points[1:])
		b.Points[len(b.Points)-1] = p
	} else {
		b.Points = append(b.Points, p)
	}

	if temp < b.Min {
		b.Min = temp
	}
	if temp > b.Peak {
		b.Peak = temp
	}
}

// Last returns the most recent temperature, or 0 if empty.
func (b *Buffer) Last() float64 {
	if len(b.Points) == 0 {
		return 0
	}
	return b.Points[len(b.Points)-1].Temp
}

// Len reports how many points are currently retained.
func (b *Buffer) Len() int {
	return len(b.Points)
}

// Avg returns the average temperature across retained points.
func (b *Buffer) Avg() float64 {
	if len(b.Points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range b.Points {
		sum += p.Temp
	}
	return sum / float64(len(b.Points))
}

// LastNPoints returns the last n points (with timestamps).
func (b *Buffer) LastNPoints(n int) []Point {
	if n <= 0 || len(b.Points) == 0 {
		return nil
	}
	start := len(b.Points) - n
	if start < 0 {
		start = 0
	}
	out := make([]Point, len(b.Points[start:]))
	copy(out, b.Points[start:])
	return out
}

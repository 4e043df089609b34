// Package cputemp picks the single reading that best represents the
// overall CPU temperature out of a full hardware sensor enumeration.
//
// Selection is a pure function of the snapshot it is handed: no state is
// kept between calls, and the returned value is always one a sensor
// actually reported, never an average. Unknown labels are ignored rather
// than treated as errors, so unrecognized hardware degrades to "no data".
package cputemp

import (
	"regexp"

	"github.com/gr3q/cputemp/internal/sensor"
)

// overallLabels are the labels that report a whole-package CPU
// temperature, in priority order (highest first).
var overallLabels = []string{
	"Tctl",            // AMD package sensor (k10temp/zenpower)
	"Package id 0",    // Intel package sensor (coretemp)
	"CPU Temperature", // motherboard-reported
}

// noPriority marks a label that is not a canonical overall sensor.
const noPriority = -1

// Per-core fallback patterns. Anchored single-digit forms only: "CPU 12"
// or "Tctl10" must not match.
var (
	intelCoreRe = regexp.MustCompile(`^CPU [0-9]$`)
	amdCoreRe   = regexp.MustCompile(`^Tctl[0-9]$`)
)

// Select returns the CPU temperature in Celsius for the given sensor
// snapshot. A canonical overall sensor wins if any reports a value;
// otherwise the hottest per-core sensor is used. ok is false when no
// usable sensor exists at all.
func Select(readings []sensor.Reading) (temp float64, ok bool) {
	r, ok := SelectReading(readings)
	if !ok {
		return 0, false
	}
	return r.Temp, true
}

// SelectReading is Select returning the winning reading itself, for
// callers that need to know which sensor won, not just its value.
// Matching the winner back by temperature would misattribute it
// whenever an unrelated sensor happens to report the same value.
func SelectReading(readings []sensor.Reading) (sensor.Reading, bool) {
	if r, ok := selectOverall(readings); ok {
		return r, true
	}
	return selectHottestCore(readings)
}

// overallPriority returns the position of label in overallLabels
// (lower is better), or noPriority if it matches none of them.
func overallPriority(label string) int {
	for i, l := range overallLabels {
		if l == label {
			return i
		}
	}
	return noPriority
}

func selectOverall(readings []sensor.Reading) (sensor.Reading, bool) {
	best := noPriority
	var pick sensor.Reading
	found := false

	for _, r := range readings {
		p := overallPriority(r.Label)
		if p == noPriority {
			continue
		}
		if !r.HasTemp {
			continue
		}
		// Only a strictly better priority replaces the current pick,
		// so between duplicate labels the first-enumerated one wins.
		if found && p >= best {
			continue
		}
		best = p
		pick = r
		found = true
	}

	return pick, found
}

func selectHottestCore(readings []sensor.Reading) (sensor.Reading, bool) {
	var pick sensor.Reading
	found := false

	for _, r := range readings {
		if !r.HasTemp {
			continue
		}
		if !intelCoreRe.MatchString(r.Label) && !amdCoreRe.MatchString(r.Label) {
			continue
		}
		if !found || r.Temp > pick.Temp {
			pick = r
		}
		found = true
	}

	return pick, found
}

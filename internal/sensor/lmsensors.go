package sensor

import (
	"encoding/json"
	"errors"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ReadAll returns a fresh enumeration of every thermal sensor. Sources
// are tried in order: `sensors -j`, `sensors` text output, raw hwmon
// sysfs. Nothing is cached between calls.
func ReadAll() ([]Reading, error) {
	readings, err := readSensorsJSON()
	if err != nil {
		// Older lm-sensors builds lack -j
		readings, err = readSensorsText()
	}
	if err != nil {
		readings = ReadHwmon()
		if len(readings) == 0 {
			return nil, errors.New("no sensor source available (lm-sensors missing and hwmon empty)")
		}
	}
	return readings, nil
}

// ── JSON parser (primary) ────────────────────────────────────────────

func readSensorsJSON() ([]Reading, error) {
	out, err := exec.Command("sensors", "-j").Output()
	if err != nil {
		return nil, err
	}
	return parseSensorsJSON(out)
}

func parseSensorsJSON(out []byte) ([]Reading, error) {
	var data map[string]json.RawMessage
	if err := json.Unmarshal(out, &data); err != nil {
		return nil, err
	}

	var readings []Reading

	// Sort chip names for deterministic ordering
	chipNames := make([]string, 0, len(data))
	for k := range data {
		chipNames = append(chipNames, k)
	}
	sort.Strings(chipNames)

	for _, chipName := range chipNames {
		var chip map[string]json.RawMessage
		if err := json.Unmarshal(data[chipName], &chip); err != nil {
			continue
		}

		adapter := ""
		if raw, ok := chip["Adapter"]; ok {
			json.Unmarshal(raw, &adapter)
		}

		labels := make([]string, 0, len(chip))
		for k := range chip {
			if k != "Adapter" {
				labels = append(labels, k)
			}
		}
		sort.Strings(labels)

		for _, label := range labels {
			var fields map[string]float64
			if err := json.Unmarshal(chip[label], &fields); err != nil {
				continue
			}

			// Only thermal features carry temp*-prefixed fields;
			// fan and voltage entries are skipped entirely.
			if !hasTempField(fields) {
				continue
			}

			r := Reading{
				Chip:    chipName,
				Adapter: adapter,
				Label:   label,
			}

			for k, v := range fields {
				if strings.HasSuffix(k, "_input") && strings.Contains(k, "temp") {
					// Sentinel readings below absolute zero mean the
					// sensor exists but reports nothing right now.
					if v >= -200 {
						r.Temp = v
						r.HasTemp = true
					}
					break
				}
			}

			for k, v := range fields {
				if strings.HasSuffix(k, "_max") && v > 0 && v < 1000 {
					r.High = v
					r.HasHigh = true
				}
				if strings.HasSuffix(k, "_crit") && v > 0 && v < 1000 {
					r.Crit = v
					r.HasCrit = true
				}
			}

			readings = append(readings, r)
		}
	}

	return readings, nil
}

func hasTempField(fields map[string]float64) bool {
	for k := range fields {
		if strings.HasPrefix(k, "temp") {
			return true
		}
	}
	return false
}

// ── Text parser (fallback) ───────────────────────────────────────────

func readSensorsText() ([]Reading, error) {
	out, err := exec.Command("sensors").Output()
	if err != nil {
		return nil, err
	}
	return ParseSensorsText(string(out)), nil
}

var (
	adapterRe  = regexp.MustCompile(`^Adapter:\s+(.+)$`)
	namedValRe = regexp.MustCompile(`(\w+)\s*=\s*([+-]?\d+\.?\d*)°C`)
	tempValRe  = regexp.MustCompile(`[+-]?(\d+\.?\d*)°C`)
)

// ParseSensorsText parses the human-readable `sensors` output.
func ParseSensorsText(output string) []Reading {
	var readings []Reading
	var currentChip, currentAdapter string

	lines := strings.Split(output, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")

		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := adapterRe.FindStringSubmatch(line); m != nil {
			currentAdapter = m[1]
			continue
		}

		if strings.Contains(line, "°C") {
			idx := strings.Index(line, ":")
			if idx < 0 {
				continue
			}
			label := strings.TrimSpace(line[:idx])

			// Extract the first temperature value after the colon
			rest := line[idx+1:]
			m := tempValRe.FindStringSubmatch(rest)
			if m == nil {
				continue
			}
			temp, err := strconv.ParseFloat(m[1], 64)
			if err != nil || temp < -200 {
				continue
			}
			// Check for negative sign
			fullMatch := tempValRe.FindString(rest)
			if strings.HasPrefix(strings.TrimSpace(fullMatch), "-") {
				temp = -temp
			}

			r := Reading{
				Chip:    currentChip,
				Adapter: currentAdapter,
				Label:   label,
				Temp:    temp,
				HasTemp: true,
			}

			if high := extractNamedVal(line, "high"); high > 0 && high < 1000 {
				r.High = high
				r.HasHigh = true
			}
			if crit := extractNamedVal(line, "crit"); crit > 0 && crit < 1000 {
				r.Crit = crit
				r.HasCrit = true
			}
			if i+1 < len(lines) {
				next := strings.TrimRight(lines[i+1], "\r")
				if strings.Contains(next, "crit") && !strings.Contains(next, ":") {
					if crit := extractNamedVal(next, "crit"); crit > 0 && crit < 1000 {
						r.Crit = crit
						r.HasCrit = true
					}
				}
			}

			readings = append(readings, r)
			continue
		}

		// Chip header — non-indented line without °C
		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			currentChip = strings.TrimSpace(line)
		}
	}

	return readings
}

func extractNamedVal(line, name string) float64 {
	matches := namedValRe.FindAllStringSubmatch(line, -1)
	for _, m := range matches {
		if m[1] == name {
			v, err := strconv.ParseFloat(m[2], 64)
			if err == nil && v > -200 {
				return v
			}
		}
	}
	return 0
}

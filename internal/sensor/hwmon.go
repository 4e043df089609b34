package sensor

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

var hwmonRoot = "/sys/class/hwmon"

// ReadHwmon walks /sys/class/hwmon directly. Used when the sensors
// binary is not installed; driver labels (temp*_label) are the same
// strings lm-sensors would report, e.g. "Tctl" or "Package id 0".
func ReadHwmon() []Reading {
	matches, _ := filepath.Glob(filepath.Join(hwmonRoot, "hwmon*"))
	sort.Strings(matches)

	var readings []Reading
	for _, dir := range matches {
		chip := readTrimmed(filepath.Join(dir, "name"))
		if chip == "" {
			continue
		}

		inputs, _ := filepath.Glob(filepath.Join(dir, "temp*_input"))
		sort.Strings(inputs)

		for _, input := range inputs {
			base := strings.TrimSuffix(filepath.Base(input), "_input")

			label := readTrimmed(filepath.Join(dir, base+"_label"))
			if label == "" {
				label = base
			}

			r := Reading{
				Chip:  chip + "-" + filepath.Base(dir),
				Label: label,
			}

			// An unreadable or empty input file still names a sensor;
			// it just has no value this instant.
			if raw := readTrimmed(input); raw != "" {
				if milli, err := strconv.ParseFloat(raw, 64); err == nil {
					r.Temp = milli / 1000.0
					r.HasTemp = true
				}
			}

			if v, ok := readMilliC(filepath.Join(dir, base+"_max")); ok {
				r.High = v
				r.HasHigh = true
			}
			if v, ok := readMilliC(filepath.Join(dir, base+"_crit")); ok {
				r.Crit = v
				r.HasCrit = true
			}

			readings = append(readings, r)
		}
	}
	return readings
}

func readTrimmed(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func readMilliC(path string) (float64, bool) {
	raw := readTrimmed(path)
	if raw == "" {
		return 0, false
	}
	milli, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	v := milli / 1000.0
	if v <= 0 || v >= 1000 {
		return 0, false
	}
	return v, true
}

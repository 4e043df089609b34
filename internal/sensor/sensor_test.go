package sensor

import (
	"os"
	"path/filepath"
	"testing"
)

const testSensorOutput = `iwlwifi_1-virtual-0
Adapter: Virtual device
temp1:        +35.0°C

nvme-pci-0300
Adapter: PCI adapter
Composite:    +36.9°C  (low  = -273.1°C, high = +81.8°C)
                       (crit = +84.8°C)
Sensor 1:     +36.9°C  (low  = -273.1°C, high = +65261.8°C)
Sensor 2:     +49.9°C  (low  = -273.1°C, high = +65261.8°C)

coretemp-isa-0000
Adapter: ISA adapter
Package id 0:  +48.0°C  (high = +101.0°C, crit = +115.0°C)
Core 0:        +46.0°C  (high = +101.0°C, crit = +115.0°C)
Core 1:        +45.0°C  (high = +101.0°C, crit = +115.0°C)
Core 2:        +46.0°C  (high = +101.0°C, crit = +115.0°C)
Core 3:        +48.0°C  (high = +101.0°C, crit = +115.0°C)

pch_cannonlake-virtual-0
Adapter: Virtual device
temp1:        +39.0°C
`

func TestParseSensorsText(t *testing.T) {
	readings := ParseSensorsText(testSensorOutput)

	if len(readings) < 8 {
		t.Fatalf("expected at least 8 readings, got %d", len(readings))
	}

	var found bool
	for _, r := range readings {
		if r.Label == "Package id 0" {
			found = true
			if !r.HasTemp || r.Temp != 48.0 {
				t.Errorf("Package id 0 temp: got %f (has=%v), want 48.0", r.Temp, r.HasTemp)
			}
			if !r.HasHigh || r.High != 101.0 {
				t.Errorf("Package id 0 high: got %f (has=%v), want 101.0", r.High, r.HasHigh)
			}
			if !r.HasCrit || r.Crit != 115.0 {
				t.Errorf("Package id 0 crit: got %f (has=%v), want 115.0", r.Crit, r.HasCrit)
			}
			if r.Chip != "coretemp-isa-0000" {
				t.Errorf("Package id 0 chip: got %q, want coretemp-isa-0000", r.Chip)
			}
			break
		}
	}
	if !found {
		t.Error("did not find Package id 0 reading")
	}

	for _, r := range readings {
		if r.Label == "Composite" {
			if !r.HasHigh || r.High != 81.8 {
				t.Errorf("NVMe Composite high: got %f (has=%v), want 81.8", r.High, r.HasHigh)
			}
			if !r.HasCrit || r.Crit != 84.8 {
				t.Errorf("NVMe Composite crit: got %f (has=%v), want 84.8", r.Crit, r.HasCrit)
			}
			break
		}
	}
}

const testSensorJSON = `{
	"k10temp-pci-00c3": {
		"Adapter": "PCI adapter",
		"Tctl": {
			"temp1_input": 52.625
		},
		"Tdie": {
			"temp2_input": 52.625,
			"temp2_max": 95.0
		}
	},
	"nvme-pci-0400": {
		"Adapter": "PCI adapter",
		"Composite": {
			"temp1_input": 38.9,
			"temp1_max": 81.8,
			"temp1_crit": 84.8
		}
	},
	"it8686-isa-0a40": {
		"Adapter": "ISA adapter",
		"fan1": {
			"fan1_input": 1188.0
		},
		"CPU Temperature": {
			"temp1_input": 45.0
		}
	}
}`

func TestParseSensorsJSON(t *testing.T) {
	readings, err := parseSensorsJSON([]byte(testSensorJSON))
	if err != nil {
		t.Fatalf("parseSensorsJSON: %v", err)
	}

	byLabel := make(map[string]Reading)
	for _, r := range readings {
		byLabel[r.Label] = r
	}

	if _, ok := byLabel["fan1"]; ok {
		t.Error("fan entry should be skipped")
	}

	tctl, ok := byLabel["Tctl"]
	if !ok {
		t.Fatal("did not find Tctl reading")
	}
	if !tctl.HasTemp || tctl.Temp != 52.625 {
		t.Errorf("Tctl temp: got %f (has=%v), want 52.625", tctl.Temp, tctl.HasTemp)
	}
	if tctl.Chip != "k10temp-pci-00c3" {
		t.Errorf("Tctl chip: got %q", tctl.Chip)
	}

	comp := byLabel["Composite"]
	if !comp.HasHigh || comp.High != 81.8 || !comp.HasCrit || comp.Crit != 84.8 {
		t.Errorf("Composite thresholds: %+v", comp)
	}

	if mb, ok := byLabel["CPU Temperature"]; !ok || !mb.HasTemp || mb.Temp != 45.0 {
		t.Errorf("CPU Temperature: got %+v (found=%v)", mb, ok)
	}
}

func TestParseSensorsJSONValuelessSensor(t *testing.T) {
	// A thermal feature with thresholds but no readable input is still
	// enumerated, just without a value.
	input := `{
		"acpitz-acpi-0": {
			"Adapter": "ACPI interface",
			"temp1": {
				"temp1_crit": 105.0
			}
		}
	}`
	readings, err := parseSensorsJSON([]byte(input))
	if err != nil {
		t.Fatalf("parseSensorsJSON: %v", err)
	}
	if len(readings) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(readings))
	}
	r := readings[0]
	if r.HasTemp {
		t.Errorf("expected no temperature value, got %f", r.Temp)
	}
	if !r.HasCrit || r.Crit != 105.0 {
		t.Errorf("crit: got %f (has=%v), want 105.0", r.Crit, r.HasCrit)
	}
}

func TestReadHwmon(t *testing.T) {
	dir := t.TempDir()
	hw := filepath.Join(dir, "hwmon0")
	if err := os.MkdirAll(hw, 0o755); err != nil {
		t.Fatal(err)
	}
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(hw, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("name", "k10temp\n")
	write("temp1_label", "Tctl\n")
	write("temp1_input", "52625\n")
	write("temp2_label", "Tccd1\n")
	write("temp2_input", "48500\n")
	write("temp2_max", "95000\n")

	old := hwmonRoot
	hwmonRoot = dir
	defer func() { hwmonRoot = old }()

	readings := ReadHwmon()
	if len(readings) != 2 {
		t.Fatalf("expected 2 readings, got %d: %+v", len(readings), readings)
	}

	if readings[0].Label != "Tctl" || !readings[0].HasTemp || readings[0].Temp != 52.625 {
		t.Errorf("first reading: %+v", readings[0])
	}
	if readings[0].Chip != "k10temp-hwmon0" {
		t.Errorf("chip: got %q, want k10temp-hwmon0", readings[0].Chip)
	}
	if readings[1].Label != "Tccd1" || !readings[1].HasHigh || readings[1].High != 95.0 {
		t.Errorf("second reading: %+v", readings[1])
	}
}

func TestFriendlyName(t *testing.T) {
	tests := []struct {
		chip string
		want string
	}{
		{"coretemp-isa-0000", "CPU"},
		{"k10temp-pci-00c3", "CPU"},
		{"nvme-pci-0300", "NVMe SSD"},
		{"iwlwifi_1-virtual-0", "WiFi"},
		{"pch_cannonlake-virtual-0", "PCH (Chipset)"},
		{"amdgpu-pci-0600", "GPU (AMD)"},
		{"some-unknown-chip", "Sensor"},
	}
	for _, tt := range tests {
		if got := FriendlyName(tt.chip); got != tt.want {
			t.Errorf("FriendlyName(%q) = %q, want %q", tt.chip, got, tt.want)
		}
	}
}

// Package sensor enumerates hardware thermal sensors. Each call produces
// a fresh snapshot combining lm-sensors output (JSON, with a text-mode
// fallback for older installs) and a raw hwmon sysfs walk when the
// sensors binary is missing. Labels are passed through exactly as the
// driver reports them; the selection policy depends on verbatim labels.
package sensor

// Reading is a single thermal sensor as reported by the platform.
// A sensor can exist without currently reporting a value, in which case
// HasTemp is false and Temp is meaningless.
type Reading struct {
	Chip    string  // e.g. "coretemp-isa-0000"
	Adapter string  // e.g. "ISA adapter"
	Label   string  // e.g. "Package id 0"
	Temp    float64 // current temperature in Celsius, valid when HasTemp
	HasTemp bool
	High    float64 // high threshold (valid when HasHigh)
	Crit    float64 // critical threshold (valid when HasCrit)
	HasHigh bool
	HasCrit bool
}

// Key returns a unique identifier for this sensor.
func (r Reading) Key() string {
	return r.Chip + "/" + r.Label
}

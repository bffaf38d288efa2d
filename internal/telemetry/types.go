// Telemetry records following the GSI Bhukosh field names
package telemetry

import (
	"os"

	"lithosguard/internal/scenario"
)

// DefaultLithology is recorded on every generated point.
const DefaultLithology = "Quartzite (Fractured)"

// TelemetryPoint is one simulated sensor sample. JSON names follow the
// GSI Bhukosh record schema.
type TelemetryPoint struct {
	TimeHours         float64 `json:"Time_Hrs"`
	Lithology         string  `json:"Lithology"`
	RQD               int     `json:"RQD"`
	PorePressureKPa   float64 `json:"Pore_Water_Pressure_kPa"`
	AcousticEmission  float64 `json:"Raw_Acoustic_Emission_g"`
	DisplacementMM    float64 `json:"Displacement_mm"`
	ScenarioIntensity float64 `json:"Scenario_Intensity"`
}

// Series is an ordered run of points for one scenario.
type Series struct {
	Scenario scenario.Kind
	Points   []TelemetryPoint
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.Points) }

// Times returns the time column.
func (s Series) Times() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.TimeHours
	}
	return out
}

// Displacements returns the displacement column.
func (s Series) Displacements() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.DisplacementMM
	}
	return out
}

// Acoustic returns the acoustic emission column.
func (s Series) Acoustic() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.AcousticEmission
	}
	return out
}

// Until returns the prefix of points with TimeHours <= hour. When no point
// qualifies the first point is returned so callers always have a sample.
func (s Series) Until(hour float64) Series {
	n := 0
	for n < len(s.Points) && s.Points[n].TimeHours <= hour {
		n++
	}
	if n == 0 && len(s.Points) > 0 {
		n = 1
	}
	return Series{Scenario: s.Scenario, Points: s.Points[:n]}
}

// Clone returns a deep copy.
func (s Series) Clone() Series {
	pts := make([]TelemetryPoint, len(s.Points))
	copy(pts, s.Points)
	return Series{Scenario: s.Scenario, Points: pts}
}

// TelemetryTableName holds the table name used when writing frames to
// GreptimeDB. It defaults to "slope_telemetry" but can be overridden via
// the GREPTIMEDB_TABLE environment variable.
var TelemetryTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "slope_telemetry"
}()

// CommandTableName is the GreptimeDB table for outbound command records,
// overridable via ALARM_COMMAND_TABLE.
var CommandTableName = func() string {
	if env := os.Getenv("ALARM_COMMAND_TABLE"); env != "" {
		return env
	}
	return "alarm_commands"
}()

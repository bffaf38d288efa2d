package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind selects the generator shape.
type Kind string

const (
	Monsoon Kind = "monsoon"
	Stable  Kind = "stable"
	Seismic Kind = "seismic"
)

// Kinds lists the supported scenario kinds.
func Kinds() []Kind { return []Kind{Monsoon, Stable, Seismic} }

// ParseKind validates a scenario name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown scenario %q (want monsoon, stable or seismic)", s)
}

// Scenario is a parameterized telemetry shape for one kind.
type Scenario struct {
	Name         string       `yaml:"name"`
	Kind         Kind         `yaml:"kind"`
	Description  string       `yaml:"description,omitempty"`
	HorizonHours float64      `yaml:"horizon_hours"`
	Event        Event        `yaml:"event"`
	Pressure     Pressure     `yaml:"pressure"`
	Acoustic     Acoustic     `yaml:"acoustic"`
	Displacement Displacement `yaml:"displacement"`
}

// Event locates the driving event in time. Monsoon uses Steepness for its
// logistic rise; seismic uses WidthHours for its Gaussian pulse.
type Event struct {
	CenterHours float64 `yaml:"center_hours"`
	Steepness   float64 `yaml:"steepness,omitempty"`
	WidthHours  float64 `yaml:"width_hours,omitempty"`
}

// Pressure shapes pore-water pressure in kPa.
type Pressure struct {
	Baseline float64 `yaml:"baseline_kpa"`
	Rise     float64 `yaml:"rise_kpa,omitempty"`
	Noise    float64 `yaml:"noise_kpa,omitempty"`
}

// Acoustic shapes the acoustic emission signal in g.
type Acoustic struct {
	CarrierAmplitude  float64 `yaml:"carrier_amplitude,omitempty"`
	CarrierFrequency  float64 `yaml:"carrier_cycles_per_hour,omitempty"`
	BurstAmplitude    float64 `yaml:"burst_amplitude,omitempty"`
	BurstThresholdKPa float64 `yaml:"burst_threshold_kpa,omitempty"`
	PulseAmplitude    float64 `yaml:"pulse_amplitude,omitempty"`
	Noise             float64 `yaml:"noise"`
}

// Displacement shapes slope movement in mm.
type Displacement struct {
	Base        float64 `yaml:"base_mm,omitempty"`
	End         float64 `yaml:"end_mm,omitempty"`
	PulseGain   float64 `yaml:"pulse_gain_mm,omitempty"`
	CreepScale  float64 `yaml:"creep_scale_mm,omitempty"`
	CreepPer10K float64 `yaml:"creep_rate_per_10kpa,omitempty"`
	Noise       float64 `yaml:"noise_mm,omitempty"`
}

// Load reads a YAML scenario definition from disk. Fields the file omits
// keep the built-in values of its kind.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var head struct {
		Kind Kind `yaml:"kind"`
	}
	if err := yaml.Unmarshal(b, &head); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	kind, err := ParseKind(string(head.Kind))
	if err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	s := BuiltIn()[kind]
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if s.HorizonHours <= 0 {
		return nil, fmt.Errorf("scenario %s: horizon_hours must be positive", s.Name)
	}
	return &s, nil
}

// Lookup returns the built-in scenario for name.
func Lookup(name string) (Scenario, error) {
	k, err := ParseKind(name)
	if err != nil {
		return Scenario{}, err
	}
	return BuiltIn()[k], nil
}

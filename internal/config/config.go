// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Site describes the monitored slope.
type Site struct {
	Name      string `yaml:"name"`
	Sector    int    `yaml:"sector"`
	Formation string `yaml:"formation"`
}

// Generator controls synthetic telemetry generation.
type Generator struct {
	Scenario     string `yaml:"scenario"`
	Rows         int    `yaml:"rows"`
	Seed         int64  `yaml:"seed"`
	ScenarioFile string `yaml:"scenario_file"`
}

// Failure configures the caller-side failure injection hook.
type Failure struct {
	Inject   bool    `yaml:"inject"`
	Fraction float64 `yaml:"fraction"`
	Factor   float64 `yaml:"factor"`
}

// Physics holds the evaluator calling convention.
type Physics struct {
	CohesionKPa       float64 `yaml:"cohesion_kpa"`
	FrictionAngleDeg  float64 `yaml:"friction_angle_deg"`
	NormalStressKPa   float64 `yaml:"normal_stress_kpa"`
	ShearBaseKPa      float64 `yaml:"shear_base_kpa"`
	ShearRateKPaPerMM float64 `yaml:"shear_rate_kpa_per_mm"`
	CriticalFoS       float64 `yaml:"critical_fos"`
	TTFScaling        float64 `yaml:"ttf_scaling"`
}

// Monitor configures the monitoring loop.
type Monitor struct {
	PlaybackSpeed     int           `yaml:"playback_speed"`
	Pacing            time.Duration `yaml:"pacing"`
	BufferSize        int           `yaml:"buffer_size"`
	EarlyStop         bool          `yaml:"early_stop"`
	EarlyStopFraction float64       `yaml:"early_stop_fraction"`
	DataSource        string        `yaml:"data_source"`
}

// Classifier points at the optional external model artifact.
type Classifier struct {
	ModelPath string `yaml:"model_path"`
}

// Alarm parameterizes the simulated outbound command batch.
type Alarm struct {
	Topic   string `yaml:"topic"`
	Workers int    `yaml:"workers"`
	Truck   string `yaml:"truck"`
}

// Logging configures the slog handler.
type Logging struct {
	Level string `yaml:"level"`
}

// MonitorConfig is the root configuration.
type MonitorConfig struct {
	Site       Site       `yaml:"site"`
	Generator  Generator  `yaml:"generator"`
	Failure    Failure    `yaml:"failure"`
	Physics    Physics    `yaml:"physics"`
	Monitor    Monitor    `yaml:"monitor"`
	Classifier Classifier `yaml:"classifier"`
	Alarm      Alarm      `yaml:"alarm"`
	Logging    Logging    `yaml:"logging"`
}

// Data sources accepted by Monitor.DataSource.
const (
	SourceSimulator   = "simulator"
	SourcePhysicalAPI = "physical-api"
)

// Default returns the configuration used when no file is given.
func Default() *MonitorConfig {
	return &MonitorConfig{
		Site:      Site{Name: "Sector 4 (Himalayan Belt)", Sector: 4, Formation: "Quartzite Formation"},
		Generator: Generator{Scenario: "monsoon", Rows: 1000},
		Failure:   Failure{Fraction: 0.2, Factor: 1.5},
		Physics: Physics{
			CohesionKPa:       50,
			FrictionAngleDeg:  35,
			NormalStressKPa:   120,
			ShearBaseKPa:      80,
			ShearRateKPaPerMM: 2.5,
			CriticalFoS:       1.05,
			TTFScaling:        0.5,
		},
		Monitor: Monitor{
			PlaybackSpeed:     1,
			Pacing:            100 * time.Millisecond,
			BufferSize:        200,
			EarlyStop:         true,
			EarlyStopFraction: 0.8,
			DataSource:        SourceSimulator,
		},
		Classifier: Classifier{ModelPath: "models/seismic_classifier.yaml"},
		Alarm:      Alarm{Topic: "mine/pit1/control/alarm", Workers: 42, Truck: "#091"},
		Logging:    Logging{Level: "info"},
	}
}

// Load loads YAML config over the defaults and validates it against a CUE schema.
// An empty configPath returns the defaults; an empty cueSchemaPath skips schema validation.
func Load(configPath, cueSchemaPath string) (*MonitorConfig, error) {
	cfg := Default()
	if configPath == "" {
		return cfg, nil
	}
	if cueSchemaPath != "" {
		if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants the schema cannot express on its own.
func (c *MonitorConfig) Validate() error {
	if c.Generator.Rows <= 0 {
		return fmt.Errorf("generator.rows must be greater than zero")
	}
	if c.Monitor.BufferSize <= 0 {
		return fmt.Errorf("monitor.buffer_size must be greater than zero")
	}
	if c.Monitor.PlaybackSpeed <= 0 {
		return fmt.Errorf("monitor.playback_speed must be greater than zero")
	}
	if c.Monitor.Pacing < 0 {
		return fmt.Errorf("monitor.pacing cannot be negative")
	}
	if c.Monitor.EarlyStopFraction < 0 || c.Monitor.EarlyStopFraction > 1 {
		return fmt.Errorf("monitor.early_stop_fraction must be within [0,1]")
	}
	if c.Failure.Fraction <= 0 || c.Failure.Fraction > 1 {
		return fmt.Errorf("failure.fraction must be within (0,1]")
	}
	switch c.Monitor.DataSource {
	case SourceSimulator, SourcePhysicalAPI:
	default:
		return fmt.Errorf("monitor.data_source %q unknown", c.Monitor.DataSource)
	}
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lithosguard/internal/config"
	"lithosguard/internal/scenario"
	"lithosguard/internal/telemetry"
)

// seriesFlags are the generator flags shared by stream, forensics and generate.
type seriesFlags struct {
	scenario     string
	scenarioFile string
	rows         int
	seed         int64
	inject       bool
}

func (f *seriesFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.scenario, "scenario", "", "Scenario to generate (monsoon, stable, seismic)")
	cmd.Flags().StringVar(&f.scenarioFile, "scenario-file", "", "YAML scenario profile overriding the built-in shape")
	cmd.Flags().IntVar(&f.rows, "rows", 0, "Number of telemetry points over the 24h horizon")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Random seed (0 draws from the clock)")
	cmd.Flags().BoolVar(&f.inject, "inject-failure", false, "Multiply pore pressure over the trailing points")
}

// apply overrides cfg with the flags the user set.
func (f *seriesFlags) apply(cmd *cobra.Command, cfg *config.MonitorConfig) error {
	if cmd.Flags().Changed("scenario") {
		k, err := scenario.ParseKind(f.scenario)
		if err != nil {
			return err
		}
		cfg.Generator.Scenario = string(k)
	}
	if cmd.Flags().Changed("scenario-file") {
		cfg.Generator.ScenarioFile = f.scenarioFile
	}
	if cmd.Flags().Changed("rows") {
		cfg.Generator.Rows = f.rows
	}
	if cmd.Flags().Changed("seed") {
		cfg.Generator.Seed = f.seed
	}
	if cmd.Flags().Changed("inject-failure") {
		cfg.Failure.Inject = f.inject
	}
	return cfg.Validate()
}

// buildSeries generates the configured scenario and applies failure injection.
func buildSeries(cfg *config.MonitorConfig) (telemetry.Series, error) {
	var sc scenario.Scenario
	if cfg.Generator.ScenarioFile != "" {
		loaded, err := scenario.Load(cfg.Generator.ScenarioFile)
		if err != nil {
			return telemetry.Series{}, err
		}
		sc = *loaded
	} else {
		var err error
		sc, err = scenario.Lookup(cfg.Generator.Scenario)
		if err != nil {
			return telemetry.Series{}, fmt.Errorf("generator.scenario: %w", err)
		}
	}
	s := telemetry.NewGenerator(cfg.Generator.Seed).Generate(sc, cfg.Generator.Rows)
	if cfg.Failure.Inject {
		s = telemetry.InjectFailure(s, cfg.Failure.Fraction, cfg.Failure.Factor)
	}
	return s, nil
}

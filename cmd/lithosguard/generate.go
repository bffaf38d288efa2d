package main

import (
	"bufio"
	"os"

	"github.com/spf13/cobra"

	"lithosguard/internal/logging"
	"lithosguard/internal/telemetry"
)

var (
	generateSeries seriesFlags
	generateOutput string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write scenario telemetry as JSONL",
	Long:  "generate writes a synthetic scenario series as JSON lines for later replay.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := generateSeries.apply(cmd, cfg); err != nil {
			return err
		}
		series, err := buildSeries(cfg)
		if err != nil {
			return err
		}

		if generateOutput == "" || generateOutput == "-" {
			return telemetry.WriteJSONL(cmd.OutOrStdout(), series)
		}
		f, err := os.Create(generateOutput)
		if err != nil {
			return err
		}
		bw := bufio.NewWriter(f)
		if err := telemetry.WriteJSONL(bw, series); err != nil {
			f.Close()
			return err
		}
		if err := bw.Flush(); err != nil {
			f.Close()
			return err
		}
		logging.FromContext(cmd.Context()).Info("telemetry written", "path", generateOutput, "points", series.Len(), "scenario", series.Scenario)
		return f.Close()
	},
}

func init() {
	generateSeries.register(generateCmd)
	generateCmd.Flags().StringVar(&generateOutput, "output", "-", "Output file (- for STDOUT)")
}

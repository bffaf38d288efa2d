package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lithosguard/internal/classifier"
	"lithosguard/internal/logging"
	"lithosguard/internal/monitor"
	"lithosguard/internal/telemetry"
)

var (
	forensicSeries    seriesFlags
	forensicInput     string
	forensicHours     []float64
	forensicPrintOnly bool
	forensicLogFile   string
)

var forensicsCmd = &cobra.Command{
	Use:   "forensics",
	Short: "Inspect historical timeline positions",
	Long:  "forensics evaluates the series up to each requested hour. The alarm latches on critical positions and clears when a later position is stable.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logging.FromContext(ctx)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := forensicSeries.apply(cmd, cfg); err != nil {
			return err
		}

		var series telemetry.Series
		if forensicInput != "" {
			series, err = telemetry.ReadJSONLFile(forensicInput)
		} else {
			series, err = buildSeries(cfg)
		}
		if err != nil {
			return err
		}

		clf := classifier.Load(cfg.Classifier.ModelPath, log)
		opts, err := envOverrides(monitor.OptionsFromConfig(cfg, clf))
		if err != nil {
			return err
		}
		writer, cleanup, err := newWriter(cfg, writerOptions{printOnly: forensicPrintOnly, logFile: forensicLogFile}, log)
		if err != nil {
			return err
		}
		defer cleanup()

		m := monitor.New(opts, writer)
		frames, err := m.Scrub(ctx, series, forensicHours...)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "HOUR\tFOS\tSECTOR\tTTF_H\tRISK\tALARM\tLOW_BAND\tHIGH_BAND")
		for i, f := range frames {
			low, high := telemetry.BandEnergy(series.Until(forensicHours[i]).Acoustic())
			fmt.Fprintf(tw, "%.2f\t%.3f\t%s\t%.1f\t%s\t%t\t%.4f\t%.4f\n",
				f.Point.TimeHours, f.Evaluation.FactorOfSafety, f.SectorStatus,
				f.Evaluation.TimeToFailureHours, f.Evaluation.RiskLabel, f.Alarm.Triggered, low, high)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		for _, c := range m.Commands() {
			fmt.Fprintln(cmd.OutOrStdout(), c.Line)
		}
		return nil
	},
}

func init() {
	forensicSeries.register(forensicsCmd)
	forensicsCmd.Flags().StringVar(&forensicInput, "input", "", "JSONL telemetry file to inspect instead of generating")
	forensicsCmd.Flags().Float64SliceVar(&forensicHours, "hours", []float64{6, 12, 18, 24}, "Timeline positions to inspect")
	forensicsCmd.Flags().BoolVar(&forensicPrintOnly, "print-only", false, "Skip the GreptimeDB sink even when configured")
	forensicsCmd.Flags().StringVar(&forensicLogFile, "log-file", "", "Path to export frames and commands (JSONL)")
}

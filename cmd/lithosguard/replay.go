package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lithosguard/internal/classifier"
	"lithosguard/internal/logging"
	"lithosguard/internal/monitor"
)

var (
	replayInput     string
	replayPacing    time.Duration
	replayPrintOnly bool
	replayLogFile   string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a telemetry log file",
	Long:  "replay feeds telemetry from a JSONL file through the monitoring loop into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		ctx := cmd.Context()
		log := logging.FromContext(ctx)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		clf := classifier.Load(cfg.Classifier.ModelPath, log)
		opts := monitor.OptionsFromConfig(cfg, clf)
		if cmd.Flags().Changed("pacing") {
			opts.Pacing = replayPacing
		}
		opts, err = envOverrides(opts)
		if err != nil {
			return err
		}

		writer, cleanup, err := newWriter(cfg, writerOptions{printOnly: replayPrintOnly, stdout: true, logFile: replayLogFile}, log)
		if err != nil {
			return err
		}
		defer cleanup()

		sum, err := monitor.ReplayLogFile(ctx, replayInput, monitor.New(opts, writer))
		if err != nil {
			return err
		}
		log.Info("replay finished", "reason", sum.Reason, "ticks", sum.Ticks, "alarm", sum.Alarm.Triggered)
		return nil
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to telemetry log file")
	replayCmd.Flags().DurationVar(&replayPacing, "pacing", 0, "Delay between ticks (overrides config)")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print frames to STDOUT instead of writing to DB")
	replayCmd.Flags().StringVar(&replayLogFile, "log-file", "", "Path to export frames and commands (JSONL)")
	replayCmd.MarkFlagRequired("input")
}

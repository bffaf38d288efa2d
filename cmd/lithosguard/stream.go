package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"lithosguard/internal/admin"
	"lithosguard/internal/classifier"
	"lithosguard/internal/logging"
	"lithosguard/internal/monitor"
)

var (
	streamSeries    seriesFlags
	streamPrintOnly bool
	streamTUI       bool
	streamLogFile   string
	streamAdminAddr string
	streamHold      bool
	streamPlayback  int
	streamSource    string
	streamNoPause   bool
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Run the live monitoring loop",
	Long:  "stream generates scenario telemetry and evaluates it tick by tick, latching the alarm once per session.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logging.FromContext(ctx)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("playback") {
			cfg.Monitor.PlaybackSpeed = streamPlayback
		}
		if cmd.Flags().Changed("data-source") {
			cfg.Monitor.DataSource = streamSource
		}
		if streamNoPause {
			cfg.Monitor.EarlyStop = false
		}
		if err := streamSeries.apply(cmd, cfg); err != nil {
			return err
		}

		series, err := buildSeries(cfg)
		if err != nil {
			return err
		}

		clf := classifier.Load(cfg.Classifier.ModelPath, log)
		opts, err := envOverrides(monitor.OptionsFromConfig(cfg, clf))
		if err != nil {
			return err
		}

		writer, cleanup, err := newWriter(cfg, writerOptions{
			printOnly: streamPrintOnly,
			tui:       streamTUI,
			stdout:    true,
			logFile:   streamLogFile,
		}, log)
		if err != nil {
			return err
		}
		defer cleanup()

		m := monitor.New(opts, writer)
		if cfg.Failure.Inject {
			m.Rearm()
		}

		if streamAdminAddr != "" {
			srv := admin.NewServer(m)
			go func() {
				log.Info("admin UI listening", "addr", streamAdminAddr)
				monitor.SetAdminStatus(writer, true)
				if err := srv.Start(streamAdminAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					monitor.SetAdminStatus(writer, false)
					log.Error("admin server failed", "err", err)
				}
			}()
		}

		sum, err := m.Stream(ctx, series)
		if err != nil {
			return err
		}
		if !streamTUI {
			fmt.Fprintf(cmd.ErrOrStderr(), "session %s: %s after %d ticks, alarm=%t, commands=%d\n",
				m.SessionID(), sum.Reason, sum.Ticks, sum.Alarm.Triggered, sum.Commands)
		}

		if streamHold && (streamAdminAddr != "" || streamTUI) {
			log.Info("holding session open until interrupted", "state", m.State())
			<-ctx.Done()
		}
		return nil
	},
}

func init() {
	streamSeries.register(streamCmd)
	streamCmd.Flags().BoolVar(&streamPrintOnly, "print-only", false, "Print frames to STDOUT instead of writing to DB")
	streamCmd.Flags().BoolVar(&streamTUI, "tui", false, "Render frames in an interactive terminal UI")
	streamCmd.Flags().StringVar(&streamLogFile, "log-file", "", "Path to export frames and commands (JSONL)")
	streamCmd.Flags().StringVar(&streamAdminAddr, "admin", "", "Address for the admin UI (e.g. :8080)")
	streamCmd.Flags().BoolVar(&streamHold, "hold", false, "Keep the admin UI or TUI open after the stream ends")
	streamCmd.Flags().IntVar(&streamPlayback, "playback", 1, "Playback speed (points advanced per tick)")
	streamCmd.Flags().StringVar(&streamSource, "data-source", "simulator", "Data source (simulator, physical-api)")
	streamCmd.Flags().BoolVar(&streamNoPause, "no-pause", false, "Do not pause at a critical point late in the series")
}

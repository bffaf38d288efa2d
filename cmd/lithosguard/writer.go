package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/term"

	"lithosguard/internal/config"
	"lithosguard/internal/monitor"
)

// writerOptions selects the sinks a command publishes to.
type writerOptions struct {
	printOnly bool
	tui       bool
	stdout    bool
	logFile   string
}

// newWriter builds the frame writer from flags and env vars. It returns nil
// when no sink is selected and a cleanup function closing any resources.
func newWriter(cfg *config.MonitorConfig, o writerOptions, log *slog.Logger) (monitor.FrameWriter, func(), error) {
	var ws []monitor.FrameWriter
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Error("close writer", "err", err)
			}
		}
	}

	switch {
	case o.tui:
		tw := monitor.NewTUIWriter(cfg)
		ws = append(ws, tw)
		closers = append(closers, tw.Close)
	case o.stdout:
		ws = append(ws, stdoutWriter(cfg))
	}

	if endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); !o.printOnly && endpoint != "" {
		database := os.Getenv("GREPTIMEDB_DATABASE")
		if database == "" {
			database = "public"
		}
		gw, err := monitor.NewGreptimeDBWriter(endpoint, database, cfg.Site.Name, log)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		ws = append(ws, gw)
	}

	if o.logFile != "" {
		fw, err := monitor.NewFileWriter(o.logFile, o.logFile+".commands")
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		ws = append(ws, fw)
		closers = append(closers, fw.Close)
	}

	switch len(ws) {
	case 0:
		return nil, cleanup, nil
	case 1:
		return ws[0], cleanup, nil
	}
	return monitor.NewMultiWriter(ws...), cleanup, nil
}

// stdoutWriter prints colored frames on a terminal and JSON lines otherwise.
func stdoutWriter(cfg *config.MonitorConfig) monitor.FrameWriter {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return monitor.NewColorStdoutWriter(cfg)
	}
	return monitor.NewJSONStdoutWriter()
}

// envOverrides applies the SESSION_ID and TICK_INTERVAL env vars to opts.
func envOverrides(opts monitor.Options) (monitor.Options, error) {
	if id := os.Getenv("SESSION_ID"); id != "" {
		opts.SessionID = id
	}
	if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
		d, err := time.ParseDuration(envTick)
		if err != nil {
			return opts, fmt.Errorf("invalid TICK_INTERVAL: %w", err)
		}
		opts.Pacing = d
	}
	return opts, nil
}

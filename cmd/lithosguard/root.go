package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lithosguard/internal/config"
	"lithosguard/internal/logging"
)

var (
	configPath string
	schemaPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:          "lithosguard",
	Short:        "Slope stability monitoring toolkit",
	Long:         "LithosGuard evaluates slope telemetry for failure risk and raises the site alarm when the factor of safety collapses.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logLevel
		if !cmd.Flags().Changed("log-level") {
			if cfg, err := config.Load(configPath, ""); err == nil {
				level = cfg.Logging.Level
			}
		}
		cmd.SetContext(logging.NewContext(cmd.Context(), logging.New(level)))
		return nil
	},
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// loadConfig reads the configuration named by the persistent flags.
func loadConfig() (*config.MonitorConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) && !rootCmd.PersistentFlags().Changed("config") {
		return config.Default(), nil
	}
	cfg, err := config.Load(configPath, schemaPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/monitor.yaml", "Path to monitor configuration YAML")
	rootCmd.PersistentFlags().StringVar(&schemaPath, "schema", "schemas/monitor.cue", "Path to CUE schema file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(forensicsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(dashboardCmd)
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/Shivanand-hulikatti/conference-booking/internal/config"
	"github.com/Shivanand-hulikatti/conference-booking/internal/service"
	"github.com/Shivanand-hulikatti/conference-booking/internal/telemetry"
)

var (
	version = "dev"
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:          "conferenced",
	Short:        "Conference booking service",
	Long:         `conferenced serves the conference booking API: conference queries, organizer edits and seat registration.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./config.yaml, ./config/config.yaml or /etc/conferenced/config.yaml)")

	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd)
}

// loadConfig reads the configuration and installs the default logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	telemetry.SetupLogger(cfg.Logging.Format, cfg.Logging.Level)
	return cfg, nil
}

func retryPolicy(cfg *config.Config) service.RetryPolicy {
	return service.RetryPolicy{
		MaxAttempts: cfg.Registration.MaxAttempts,
		BaseDelay:   cfg.Registration.BaseBackoff,
		MaxDelay:    cfg.Registration.MaxBackoff,
	}
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flightcheck/internal/adapters/browser"
	"flightcheck/internal/adapters/localstore"
	"flightcheck/internal/adapters/s3store"
	"flightcheck/internal/adapters/screenshot"
	"flightcheck/internal/config"
	"flightcheck/internal/core/ports"
	"flightcheck/internal/service"
)

// loadConfig reads the config file named by --config and applies the
// remaining flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if url, _ := cmd.Flags().GetString("url"); url != "" {
		cfg.Target.URL = url
	}
	if cfg.Target.URL == "" {
		return nil, fmt.Errorf("no target URL configured (set --url or FLIGHTCHECK_TARGET_URL)")
	}
	return cfg, nil
}

// buildOrchestrator wires the scenario, evidence adapters and step
// runner from config.
func buildOrchestrator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*service.Orchestrator, error) {
	scenario := browser.NewFlightSearch(browser.Config{
		TargetURL:   cfg.Target.URL,
		Origin:      cfg.Target.Origin,
		Destination: cfg.Target.Destination,
		DaysAhead:   cfg.Target.DaysAhead,
		Headless:    cfg.Browser.Headless,
		Timeout:     time.Duration(cfg.Browser.TimeoutSeconds) * time.Second,
	}, logger)

	capturer := screenshot.NewCapturer(cfg.Screenshot.Dir)

	var uploader ports.ArtifactUploader
	switch cfg.Upload.Backend {
	case "s3":
		s3Uploader, err := s3store.NewUploader(ctx, s3store.Config{
			Bucket:  cfg.Upload.Bucket,
			Region:  cfg.Upload.Region,
			Retries: cfg.Upload.Retries,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("init s3 uploader: %w", err)
		}
		uploader = s3Uploader
	default:
		uploader = localstore.NewUploader(cfg.Upload.Dir)
	}

	runner := service.NewStepRunner(capturer, uploader, logger)
	return service.NewOrchestrator(scenario, runner, logger), nil
}

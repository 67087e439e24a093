package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"flightcheck/internal/core/domain"
	"flightcheck/internal/logger"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute one validation run and print the report",
		RunE:  runExecute,
	}
}

func runExecute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		return err
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orc, err := buildOrchestrator(ctx, cfg, zlog)
	if err != nil {
		return err
	}

	report := orc.Run(ctx)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n=== Run Summary ===")
	fmt.Fprintf(out, "Run ID:     %s\n", report.RunID)
	fmt.Fprintf(out, "Status:     %s\n", report.Status)
	fmt.Fprintf(out, "Message:    %s\n", report.Message)
	fmt.Fprintf(out, "Timestamp:  %s\n", report.Timestamp.Format(time.RFC3339))
	if report.ScreenshotURL != "" {
		fmt.Fprintf(out, "Screenshot: %s\n", report.ScreenshotURL)
	}
	for _, step := range report.Steps {
		line := fmt.Sprintf("  [%s] %s (%dms)", step.Status, step.Name, step.DurationMS)
		if step.ErrorMessage != "" {
			line += " - " + step.ErrorMessage
		}
		fmt.Fprintln(out, line)
	}

	if report.Status != domain.StatusSuccess {
		return fmt.Errorf("run failed: %s", report.Message)
	}
	return nil
}

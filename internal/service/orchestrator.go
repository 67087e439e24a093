package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"flightcheck/internal/core/domain"
	"flightcheck/internal/core/ports"
)

// Orchestrator runs a scenario's ordered steps through the step runner
// and assembles the final report.
type Orchestrator struct {
	scenario ports.Scenario
	runner   *StepRunner
	logger   *zap.Logger
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(scenario ports.Scenario, runner *StepRunner, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		scenario: scenario,
		runner:   runner,
		logger:   logger,
	}
}

// Run executes one complete validation run. It always returns a report:
// a failed step or a session that would not open surface as status
// "error" with a message, never as a panic or a bare error to the
// caller.
func (o *Orchestrator) Run(ctx context.Context) *domain.RunReport {
	runID := uuid.New().String()
	report := &domain.RunReport{
		RunID:     runID,
		Status:    domain.StatusSuccess,
		Message:   "all steps passed",
		Timestamp: time.Now().UTC(),
		Steps:     []domain.StepResult{},
	}

	o.logger.Info("starting run", zap.String("run", runID))

	page, err := o.scenario.Open(ctx)
	if err != nil {
		report.Status = domain.StatusError
		report.Message = "open session: " + err.Error()
		o.logger.Error("failed to open session", zap.String("run", runID), zap.Error(err))
		return report
	}
	defer func() {
		if cerr := o.scenario.Close(); cerr != nil {
			o.logger.Warn("closing session", zap.String("run", runID), zap.Error(cerr))
		}
	}()

	run := NewRunContext(runID)
	for _, step := range o.scenario.Steps() {
		o.logger.Info("running step", zap.String("run", runID), zap.String("step", step.Name))
		if err := o.runner.RunStep(ctx, run, step.Name, page, step.Work); err != nil {
			report.Status = domain.StatusError
			report.Message = err.Error()
			o.logger.Error("step failed", zap.String("run", runID), zap.String("step", step.Name), zap.Error(err))
			break
		}
	}

	report.Steps = run.Results()
	report.ScreenshotURL = primaryScreenshot(report.Steps)

	o.logger.Info("run finished",
		zap.String("run", runID),
		zap.String("status", string(report.Status)),
		zap.Int("steps", len(report.Steps)))
	return report
}

// primaryScreenshot picks the latest step screenshot as the report's
// headline evidence: the final page state is the one worth looking at
// first.
func primaryScreenshot(steps []domain.StepResult) string {
	for i := len(steps) - 1; i >= 0; i-- {
		if steps[i].ScreenshotURL != "" {
			return steps[i].ScreenshotURL
		}
	}
	return ""
}

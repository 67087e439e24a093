package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"flightcheck/internal/core/domain"
	"flightcheck/internal/core/ports"
)

// RunContext accumulates step results for a single run. Every run gets
// its own instance; the step runner is the only writer and only ever
// appends, so a run never sees another run's results.
type RunContext struct {
	RunID   string
	results []domain.StepResult
}

// NewRunContext creates an empty result sequence for one run.
func NewRunContext(runID string) *RunContext {
	return &RunContext{RunID: runID}
}

// Results returns the ordered step results recorded so far.
func (c *RunContext) Results() []domain.StepResult {
	out := make([]domain.StepResult, len(c.results))
	copy(out, c.results)
	return out
}

func (c *RunContext) append(r domain.StepResult) {
	c.results = append(c.results, r)
}

// StepRunner executes one named unit of work with timing, error
// capture and screenshot evidence. Evidence failures are logged and
// swallowed; work failures are recorded and re-raised.
type StepRunner struct {
	capturer ports.ScreenshotCapturer
	uploader ports.ArtifactUploader
	logger   *zap.Logger
	now      func() time.Time
}

// NewStepRunner creates a runner using the given evidence collaborators.
func NewStepRunner(capturer ports.ScreenshotCapturer, uploader ports.ArtifactUploader, logger *zap.Logger) *StepRunner {
	return &StepRunner{
		capturer: capturer,
		uploader: uploader,
		logger:   logger,
		now:      time.Now,
	}
}

// RunStep executes work under the given name and records exactly one
// StepResult on run, in order:
//
//  1. run the work, capturing its error if any;
//  2. unconditionally attempt a screenshot of the page's current state
//     and its upload — a failure here is logged and discarded, it never
//     changes the step's status and never fails the step;
//  3. record the duration, evidence time included;
//  4. append the result to run;
//  5. return the work's error, if it had one, so the caller stops the
//     sequence before later steps run against a broken page.
func (r *StepRunner) RunStep(ctx context.Context, run *RunContext, name string, page ports.Page, work ports.Work) error {
	start := r.now()

	result := domain.StepResult{
		Name:   name,
		Status: domain.StatusSuccess,
	}

	workErr := work(ctx)
	if workErr != nil {
		result.Status = domain.StatusError
		result.ErrorMessage = workErr.Error()
	}

	ev := r.collectEvidence(ctx, page, name)
	if ev.err != nil {
		r.logger.Warn("evidence capture failed",
			zap.String("run", run.RunID),
			zap.String("step", name),
			zap.Error(ev.err))
	} else {
		result.ScreenshotURL = ev.url
	}

	result.DurationMS = r.now().Sub(start).Milliseconds()
	run.append(result)

	if workErr != nil {
		return fmt.Errorf("step %q failed: %w", name, workErr)
	}
	return nil
}

// evidenceOutcome is the explicit result of the evidence phase. A
// failed outcome is logged by the caller and then discarded; it never
// reaches the step's status.
type evidenceOutcome struct {
	url string
	err error
}

func (r *StepRunner) collectEvidence(ctx context.Context, page ports.Page, label string) evidenceOutcome {
	localPath, err := r.capturer.Capture(ctx, page, label)
	if err != nil {
		return evidenceOutcome{err: fmt.Errorf("capture screenshot: %w", err)}
	}

	url, err := r.uploader.Upload(ctx, localPath, filepath.Base(localPath))
	if err != nil {
		return evidenceOutcome{err: fmt.Errorf("upload screenshot: %w", err)}
	}

	return evidenceOutcome{url: url}
}

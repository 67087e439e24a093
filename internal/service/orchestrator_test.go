package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"flightcheck/internal/core/domain"
	"flightcheck/internal/core/ports"
)

type stubScenario struct {
	openErr error
	steps   []ports.Step
	closed  int
}

func (s *stubScenario) Open(ctx context.Context) (ports.Page, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	return nopPage{}, nil
}

func (s *stubScenario) Steps() []ports.Step { return s.steps }

func (s *stubScenario) Close() error {
	s.closed++
	return nil
}

func passing(name string) ports.Step {
	return ports.Step{Name: name, Work: func(ctx context.Context) error { return nil }}
}

func newTestOrchestrator(scenario ports.Scenario) *Orchestrator {
	runner := NewStepRunner(&fakeCapturer{}, &fakeUploader{}, zap.NewNop())
	return NewOrchestrator(scenario, runner, zap.NewNop())
}

func TestRunAllStepsPass(t *testing.T) {
	scenario := &stubScenario{steps: []ports.Step{passing("Navigate"), passing("Validate")}}
	report := newTestOrchestrator(scenario).Run(context.Background())

	if report.Status != domain.StatusSuccess {
		t.Fatalf("expected success, got %q (%s)", report.Status, report.Message)
	}
	if len(report.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(report.Steps))
	}
	for _, step := range report.Steps {
		if step.Status != domain.StatusSuccess {
			t.Fatalf("step %q not successful: %+v", step.Name, step)
		}
	}
	if report.ScreenshotURL == "" {
		t.Fatal("expected a primary screenshot URL")
	}
	if report.RunID == "" || report.Timestamp.IsZero() {
		t.Fatalf("report missing run metadata: %+v", report)
	}
	if scenario.closed != 1 {
		t.Fatalf("expected scenario closed once, got %d", scenario.closed)
	}
}

func TestRunStopsAtFirstFailedStep(t *testing.T) {
	var laterRan bool
	scenario := &stubScenario{steps: []ports.Step{
		passing("Navigate"),
		{Name: "Validate", Work: func(ctx context.Context) error { return errors.New("not found") }},
		{Name: "Later", Work: func(ctx context.Context) error { laterRan = true; return nil }},
	}}

	report := newTestOrchestrator(scenario).Run(context.Background())

	if report.Status != domain.StatusError {
		t.Fatalf("expected error status, got %q", report.Status)
	}
	if !strings.Contains(report.Message, "not found") {
		t.Fatalf("message %q does not carry the step error", report.Message)
	}
	if len(report.Steps) != 2 {
		t.Fatalf("expected 2 steps (later step skipped), got %d", len(report.Steps))
	}
	if report.Steps[0].Status != domain.StatusSuccess || report.Steps[1].Status != domain.StatusError {
		t.Fatalf("unexpected step statuses: %+v", report.Steps)
	}
	if report.Steps[1].ErrorMessage != "not found" {
		t.Fatalf("expected errorMessage %q, got %q", "not found", report.Steps[1].ErrorMessage)
	}
	if laterRan {
		t.Fatal("step after the failure must not run")
	}
	if scenario.closed != 1 {
		t.Fatalf("expected scenario closed once, got %d", scenario.closed)
	}
}

func TestRunOpenFailureIsRunLevel(t *testing.T) {
	scenario := &stubScenario{openErr: errors.New("browser would not start")}
	report := newTestOrchestrator(scenario).Run(context.Background())

	if report.Status != domain.StatusError {
		t.Fatalf("expected error status, got %q", report.Status)
	}
	if !strings.Contains(report.Message, "browser would not start") {
		t.Fatalf("message %q does not carry the open error", report.Message)
	}
	if len(report.Steps) != 0 {
		t.Fatalf("expected no steps, got %d", len(report.Steps))
	}
	if scenario.closed != 0 {
		t.Fatal("a session that never opened must not be closed")
	}
}

func TestRunsDoNotShareResults(t *testing.T) {
	scenario := &stubScenario{steps: []ports.Step{passing("Navigate"), passing("Validate")}}
	orc := newTestOrchestrator(scenario)

	first := orc.Run(context.Background())
	second := orc.Run(context.Background())

	if len(first.Steps) != 2 || len(second.Steps) != 2 {
		t.Fatalf("expected 2 steps per run, got %d and %d", len(first.Steps), len(second.Steps))
	}
	if first.RunID == second.RunID {
		t.Fatal("runs must get distinct IDs")
	}
}

func TestEvidenceFailureDoesNotFailRun(t *testing.T) {
	scenario := &stubScenario{steps: []ports.Step{passing("Navigate")}}
	runner := NewStepRunner(&fakeCapturer{err: errors.New("disk full")}, &fakeUploader{}, zap.NewNop())
	report := NewOrchestrator(scenario, runner, zap.NewNop()).Run(context.Background())

	if report.Status != domain.StatusSuccess {
		t.Fatalf("expected success despite evidence failure, got %q (%s)", report.Status, report.Message)
	}
	if report.ScreenshotURL != "" {
		t.Fatalf("expected no primary screenshot, got %q", report.ScreenshotURL)
	}
}

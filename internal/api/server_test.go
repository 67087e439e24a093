package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"flightcheck/internal/core/domain"
)

type stubRunner struct {
	report *domain.RunReport
}

func (s *stubRunner) Run(ctx context.Context) *domain.RunReport { return s.report }

func successReport() *domain.RunReport {
	return &domain.RunReport{
		RunID:         "run-1",
		Status:        domain.StatusSuccess,
		Message:       "all steps passed",
		Timestamp:     time.Now().UTC(),
		ScreenshotURL: "https://bucket.s3.us-east-1.amazonaws.com/screenshots/validate.png",
		Steps: []domain.StepResult{
			{Name: "Navigate", Status: domain.StatusSuccess, DurationMS: 120},
			{Name: "Validate", Status: domain.StatusSuccess, DurationMS: 80},
		},
	}
}

func doCheck(t *testing.T, report *domain.RunReport) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := NewServer(&stubRunner{report: report}, zap.NewNop()).Router()

	req := httptest.NewRequest(http.MethodPost, "/check", strings.NewReader(`{"trigger":"manual"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCheckSuccessReturns200(t *testing.T) {
	rec := doCheck(t, successReport())

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Message       string              `json:"message"`
		Timestamp     time.Time           `json:"timestamp"`
		ScreenshotURL string              `json:"screenshotUrl"`
		Steps         []domain.StepResult `json:"steps"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Message != "all steps passed" {
		t.Fatalf("unexpected message %q", body.Message)
	}
	if body.Timestamp.IsZero() {
		t.Fatal("expected a timestamp")
	}
	if body.ScreenshotURL == "" {
		t.Fatal("expected a screenshot URL")
	}
	if len(body.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(body.Steps))
	}
}

func TestCheckFailureReturns500(t *testing.T) {
	report := successReport()
	report.Status = domain.StatusError
	report.Message = `step "Validate" failed: not found`
	report.Steps[1].Status = domain.StatusError
	report.Steps[1].ErrorMessage = "not found"

	rec := doCheck(t, report)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body domain.RunReport
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(body.Message, "not found") {
		t.Fatalf("message %q does not carry the failure", body.Message)
	}
	if body.Steps[1].ErrorMessage != "not found" {
		t.Fatalf("unexpected step error %q", body.Steps[1].ErrorMessage)
	}
}

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewServer(&stubRunner{report: successReport()}, zap.NewNop()).Router()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

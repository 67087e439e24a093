package domain

import "time"

// Status classifies the outcome of a step or a whole run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// StepResult holds the outcome of one validation step. A step gets
// exactly one StepResult per invocation, whatever happened to its work
// or its screenshot.
type StepResult struct {
	Name          string `json:"name"`
	Status        Status `json:"status"`
	DurationMS    int64  `json:"durationMs"`
	ScreenshotURL string `json:"screenshotUrl,omitempty"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
}

// RunReport is the result of one complete validation run.
type RunReport struct {
	RunID         string       `json:"runId"`
	Status        Status       `json:"status"`
	Message       string       `json:"message"`
	Timestamp     time.Time    `json:"timestamp"`
	ScreenshotURL string       `json:"screenshotUrl,omitempty"`
	Steps         []StepResult `json:"steps"`
}

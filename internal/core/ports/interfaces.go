package ports

import "context"

// Page is the one capability the core needs from a live browser page:
// a screenshot of its current rendered state.
type Page interface {
	// Screenshot writes a PNG of the current page state to destPath.
	Screenshot(ctx context.Context, destPath string) error
}

// ScreenshotCapturer produces a labeled screenshot on ephemeral local
// storage.
type ScreenshotCapturer interface {
	// Capture screenshots the page and returns the local file path.
	// The filename is derived from the label plus a timestamp.
	Capture(ctx context.Context, page Page, label string) (string, error)
}

// ArtifactUploader persists a local file to durable object storage.
type ArtifactUploader interface {
	// Upload stores the file under the given logical name and returns
	// a stable retrieval URL for it.
	Upload(ctx context.Context, localPath, logicalName string) (string, error)
}

// Work is a caller-supplied unit of validation work. It returns an
// error with a human-readable message on failure.
type Work func(ctx context.Context) error

// Step pairs a name with the work it runs. Order within a scenario is
// significant.
type Step struct {
	Name string
	Work Work
}

// Scenario owns a browser session and defines the ordered validation
// steps to run against it.
type Scenario interface {
	// Open launches the session and returns the page under test.
	Open(ctx context.Context) (Page, error)

	// Steps returns the ordered validation steps. Valid only after a
	// successful Open.
	Steps() []Step

	// Close releases the session and the browser behind it.
	Close() error
}

package screenshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"flightcheck/internal/core/ports"
)

// Capturer implements ports.ScreenshotCapturer on ephemeral local
// storage.
type Capturer struct {
	dir string
	now func() time.Time
}

// NewCapturer creates a Capturer writing into dir.
func NewCapturer(dir string) *Capturer {
	return &Capturer{dir: dir, now: time.Now}
}

// Capture screenshots the page into a file named after the label and
// the current time, returning the file's path.
func (c *Capturer) Capture(ctx context.Context, page ports.Page, label string) (string, error) {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory %s: %w", c.dir, err)
	}

	name := fmt.Sprintf("%s_%d.png", normalizeLabel(label), c.now().UnixMilli())
	path := filepath.Join(c.dir, name)

	if err := page.Screenshot(ctx, path); err != nil {
		return "", fmt.Errorf("failed to screenshot %q: %w", label, err)
	}
	return path, nil
}

// normalizeLabel lower-cases the label and collapses whitespace runs
// to single underscores.
func normalizeLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), "_"))
}

package localstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Uploader implements ports.ArtifactUploader on the local filesystem,
// for development runs without an object store.
type Uploader struct {
	BaseDir string
}

// NewUploader creates an Uploader rooted at baseDir.
func NewUploader(baseDir string) *Uploader {
	return &Uploader{BaseDir: baseDir}
}

// Upload copies the file under <base>/screenshots/<logicalName> and
// returns a file:// URL for it.
func (u *Uploader) Upload(ctx context.Context, localPath, logicalName string) (string, error) {
	destDir := filepath.Join(u.BaseDir, "screenshots")
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", destDir, err)
	}

	dest := filepath.Join(destDir, logicalName)
	if err := copyFile(localPath, dest); err != nil {
		return "", fmt.Errorf("failed to store %s: %w", logicalName, err)
	}

	abs, err := filepath.Abs(dest)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dest, err)
	}
	return "file://" + abs, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

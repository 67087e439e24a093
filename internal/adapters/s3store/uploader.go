package s3store

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

const keyPrefix = "screenshots"

// Config holds the externally supplied bucket settings.
type Config struct {
	Bucket string
	Region string
	// Retries is how many extra upload attempts to make after the
	// first failure. Zero means fail on the first error.
	Retries int
}

// putObjectAPI is the slice of the S3 client the uploader needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader implements ports.ArtifactUploader on an S3 bucket.
type Uploader struct {
	client putObjectAPI
	cfg    Config
	logger *zap.Logger
}

// NewUploader creates an Uploader using the default AWS credential
// chain.
func NewUploader(ctx context.Context, cfg Config, logger *zap.Logger) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket not configured")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Uploader{
		client: s3.NewFromConfig(awsCfg),
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Upload stores the file under screenshots/<logicalName> and returns
// the object's URL.
func (u *Uploader) Upload(ctx context.Context, localPath, logicalName string) (string, error) {
	key := path.Join(keyPrefix, logicalName)

	var lastErr error
	for attempt := 0; attempt <= u.cfg.Retries; attempt++ {
		if attempt > 0 {
			u.logger.Warn("retrying upload",
				zap.String("key", key),
				zap.Int("attempt", attempt+1),
				zap.Error(lastErr))
		}
		if lastErr = u.putObject(ctx, localPath, key); lastErr == nil {
			return u.objectURL(key), nil
		}
	}
	return "", fmt.Errorf("failed to upload %s: %w", key, lastErr)
}

func (u *Uploader) putObject(ctx context.Context, localPath, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("image/png"),
	})
	return err
}

func (u *Uploader) objectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.Bucket, u.cfg.Region, key)
}

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/inventory-health/internal/config"
	"github.com/chartmuseum/storage"
)

const defaultRegion = "us-east-1"

// S3Client reads stock summaries from, and writes reports to, an S3-compatible
// bucket (Sevalla, AWS) through chartmuseum's Amazon backend.
type S3Client struct {
	backend storage.Backend
	bucket  string
}

func NewS3Client(cfg config.StorageConfig) (*S3Client, error) {
	if err := requireFields(cfg, true); err != nil {
		return nil, err
	}

	host, secure := splitEndpoint(cfg.Endpoint, cfg.UseSSL)
	scheme := "https"
	if !secure {
		scheme = "http"
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = defaultRegion
	}

	// The Amazon backend resolves credentials through the AWS default chain.
	for k, v := range map[string]string{
		"AWS_ACCESS_KEY_ID":     cfg.AccessKey,
		"AWS_SECRET_ACCESS_KEY": cfg.SecretKey,
		"AWS_REGION":            region,
		"AWS_DEFAULT_REGION":    region,
	} {
		if err := os.Setenv(k, v); err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", k, err)
		}
	}

	pathStyle := true
	backend := storage.NewAmazonS3BackendWithOptions(
		cfg.Bucket,
		"",
		region,
		scheme+"://"+host,
		"",
		&storage.AmazonS3Options{S3ForcePathStyle: &pathStyle},
	)

	return &S3Client{backend: backend, bucket: cfg.Bucket}, nil
}

func (c *S3Client) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	objects, err := c.backend.ListObjects(prefix)
	if err != nil {
		return nil, fmt.Errorf("s3 list %s/%s failed: %w", c.bucket, prefix, err)
	}
	results := make([]ObjectInfo, 0, len(objects))
	for _, object := range objects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// ListObjects returns keys relative to the prefix
		key := object.Path
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			key = strings.TrimSuffix(prefix, "/") + "/" + key
		}
		results = append(results, ObjectInfo{
			Key:          key,
			Size:         int64(len(object.Content)),
			LastModified: object.LastModified,
		})
	}
	return results, nil
}

func (c *S3Client) DownloadObject(ctx context.Context, key, destPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	object, err := c.backend.GetObject(key)
	if err != nil {
		return fmt.Errorf("s3 get %s failed: %w", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("failed creating directory for %s: %w", destPath, err)
	}
	if err := os.WriteFile(destPath, object.Content, 0o644); err != nil {
		return fmt.Errorf("failed writing %s: %w", destPath, err)
	}
	return nil
}

func (c *S3Client) UploadObject(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.backend.PutObject(key, data); err != nil {
		return fmt.Errorf("s3 upload %s failed: %w", key, err)
	}
	return nil
}

var _ ObjectStorage = (*S3Client)(nil)

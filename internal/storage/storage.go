package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/inventory-health/internal/config"
)

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ObjectStorage captures the S3-compatible operations used for stock summaries and reports.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	DownloadObject(ctx context.Context, key string, destPath string) error
	UploadObject(ctx context.Context, key string, data []byte) error
}

// New returns the backend selected by cfg.Driver, or nil when storage is disabled.
func New(cfg config.StorageConfig) (ObjectStorage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "none":
		return nil, nil
	case "sevalla", "s3":
		client, err := NewS3Client(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "minio":
		client, err := NewMinioClient(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func requireFields(cfg config.StorageConfig, credentials bool) error {
	name := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if cfg.Endpoint == "" {
		return fmt.Errorf("%s endpoint must be provided", name)
	}
	if credentials && (cfg.AccessKey == "" || cfg.SecretKey == "") {
		return fmt.Errorf("%s credentials must be provided", name)
	}
	if cfg.Bucket == "" {
		return fmt.Errorf("%s bucket must be provided", name)
	}
	return nil
}

// splitEndpoint strips any scheme from endpoint. An explicit scheme wins
// over useSSL.
func splitEndpoint(endpoint string, useSSL bool) (string, bool) {
	endpoint = strings.TrimSpace(endpoint)
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		endpoint, useSSL = strings.TrimPrefix(endpoint, "https://"), true
	case strings.HasPrefix(endpoint, "http://"):
		endpoint, useSSL = strings.TrimPrefix(endpoint, "http://"), false
	}
	return strings.TrimSuffix(strings.TrimPrefix(endpoint, "//"), "/"), useSSL
}

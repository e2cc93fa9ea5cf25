package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/puffinc/hercules/internal/config"
	"github.com/puffinc/hercules/internal/dataset"
)

// ErrObjectNotFound is returned when an s3:// path names a missing object.
var ErrObjectNotFound = errors.New("object not found")

const objectScheme = "s3://"

// IsObjectURL reports whether path names an object in S3-compatible storage.
func IsObjectURL(path string) bool {
	return strings.HasPrefix(path, objectScheme)
}

// ParseObjectURL splits "s3://bucket/key" into bucket and key.
func ParseObjectURL(path string) (bucket, key string, err error) {
	if !IsObjectURL(path) {
		return "", "", fmt.Errorf("not an s3 URL: %q", path)
	}
	bucket, key, _ = strings.Cut(strings.TrimPrefix(path, objectScheme), "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 URL must be s3://bucket/key, got %q", path)
	}
	return bucket, key, nil
}

// newObjectClient builds a client for the configured endpoint. Empty keys
// fall back to anonymous access.
func newObjectClient(cfg *config.S3Config) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}
	return client, nil
}

// StatObject checks that the object behind an s3:// path exists and
// returns its size in bytes.
func StatObject(ctx context.Context, cfg *config.SourceConfig) (int64, error) {
	bucket, key, err := ParseObjectURL(cfg.Path)
	if err != nil {
		return 0, err
	}
	client, err := newObjectClient(&cfg.S3)
	if err != nil {
		return 0, err
	}

	info, err := client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return 0, objectError(cfg.Path, err)
	}
	return info.Size, nil
}

// LoadObjectCSV streams the CSV object behind an s3:// path. Keys ending in
// .gz, .zst or .lz4 are decompressed on the fly.
func LoadObjectCSV(ctx context.Context, cfg *config.SourceConfig, opts CSVOptions) (*dataset.Dataset, error) {
	bucket, key, err := ParseObjectURL(cfg.Path)
	if err != nil {
		return nil, err
	}
	client, err := newObjectClient(&cfg.S3)
	if err != nil {
		return nil, err
	}

	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, objectError(cfg.Path, err)
	}
	defer obj.Close()

	// GetObject is lazy; Stat surfaces a missing object before decoding starts.
	if _, err := obj.Stat(); err != nil {
		return nil, objectError(cfg.Path, err)
	}

	r, release, err := decompress(obj, CompressionFor(key))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Path, err)
	}
	defer release()

	ds, err := ReadCSV(ctx, r, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Path, err)
	}
	return ds, nil
}

func objectError(path string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NotFound" || resp.Code == "NoSuchBucket" {
		return fmt.Errorf("%s: %w", path, ErrObjectNotFound)
	}
	return fmt.Errorf("failed to read %s: %w", path, err)
}

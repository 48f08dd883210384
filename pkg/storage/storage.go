// Package storage defines the FileStore interface for reading and writing
// artifact files. It abstracts the destination so that callers can write to
// local disk or to an S3-compatible object store without changing
// application code.
//
// The CLI uses it for store snapshot exports and for saving decoded
// template preview images.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// FileStore is a minimal interface for file-oriented storage.
//
// Paths are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type FileStore interface {
	// Read opens the named file for reading.
	// The caller must close the returned ReadCloser when done.
	// If the file does not exist, an error wrapping os.ErrNotExist is returned.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write opens the named file for writing.
	// If the file already exists it is replaced.
	// Parent directories are created automatically.
	// The caller must close the returned WriteCloser to flush data.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Delete removes the named file.
	// If the file does not exist, Delete returns nil (idempotent).
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, path string) (bool, error)
}

// Open resolves a destination string into a FileStore.
//
// Destinations of the form "s3://bucket/prefix" are backed by S3 using
// ambient AWS configuration (environment, shared config files, instance
// roles). Anything else is treated as a local directory path, created if
// missing.
func Open(ctx context.Context, dest string) (FileStore, error) {
	if strings.HasPrefix(dest, "s3://") {
		bucket, prefix, err := splitS3URL(dest)
		if err != nil {
			return nil, err
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("storage: load AWS config: %w", err)
		}
		return NewS3(s3.NewFromConfig(cfg), bucket, prefix), nil
	}
	return NewLocal(dest)
}

// splitS3URL splits "s3://bucket/some/prefix" into bucket and prefix.
// The prefix may be empty.
func splitS3URL(dest string) (bucket, prefix string, err error) {
	rest := strings.TrimPrefix(dest, "s3://")
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("storage: invalid S3 destination %q", dest)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

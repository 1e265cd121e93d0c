package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Package storage contains the object store client used by the gateway.
// It knows how keys are laid out in the bucket and nothing about what the objects mean.

// ErrNotFound is returned when a key does not exist in the bucket.
var ErrNotFound = errors.New("object not found")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// HTTPETag returns the ETag quoted for use in an HTTP header.
func (o ObjectInfo) HTTPETag() string {
	if o.ETag == "" {
		return ""
	}
	return `"` + o.ETag + `"`
}

// Storage is a reusable, S3-compatible object storage client interface.
// Methods use context and streaming readers; no local disk is used.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	// A missing key yields ErrNotFound.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Head returns an object's info without fetching its content.
	Head(ctx context.Context, key string) (ObjectInfo, error)
	// List enumerates at most limit keys under prefix, in store order.
	List(ctx context.Context, prefix string, limit int) ([]ObjectInfo, error)
}

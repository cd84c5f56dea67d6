package storage

import (
	"context"
	"io"
)

// Storage is a key-addressed blob store.
type Storage interface {
	// Put stores size bytes from r under key and returns the blob locator.
	// An empty contentType is detected from the content where the backend
	// records one.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)

	// Get opens the blob. The caller closes the reader.
	// Returns ErrNotFound when the blob does not exist.
	Get(ctx context.Context, loc string) (io.ReadCloser, error)

	Exists(ctx context.Context, loc string) (bool, error)

	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, loc string) error
}

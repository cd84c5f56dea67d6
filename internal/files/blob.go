package files

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/filesmanager/pkg/storage"
)

const defaultWriteTimeout = 30 * time.Second

// BlobStore names and persists file content on a storage backend.
type BlobStore struct {
	store        storage.Storage
	writeTimeout time.Duration
}

// NewBlobStore wraps store. A non-positive writeTimeout selects 30s.
func NewBlobStore(store storage.Storage, writeTimeout time.Duration) *BlobStore {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &BlobStore{store: store, writeTimeout: writeTimeout}
}

// Persist durably writes data under a fresh random name and returns the
// blob path. It returns only after the write is complete or has failed.
func (b *BlobStore) Persist(ctx context.Context, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.writeTimeout)
	defer cancel()

	path, err := b.store.Put(ctx, uuid.NewString(), bytes.NewReader(data), int64(len(data)), "")
	if err != nil {
		return "", errors.Join(ErrBlobWrite, err)
	}
	return path, nil
}

// ResolveReadPath picks the blob to serve for rec. A size selects the
// "_<size>" variant of an image and is ignored for other kinds. The
// resolved blob must exist.
func (b *BlobStore) ResolveReadPath(ctx context.Context, rec Record, size string) (string, error) {
	if rec.BlobPath == "" {
		return "", ErrNotFound
	}

	path := rec.BlobPath
	if size != "" && rec.Kind == KindImage {
		if !isVariantSize(size) {
			return "", ErrNotFound
		}
		path += "_" + size
	}

	ok, err := b.store.Exists(ctx, path)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidKey) {
			return "", ErrNotFound
		}
		return "", err
	}
	if !ok {
		return "", ErrNotFound
	}
	return path, nil
}

// Open streams the blob at path. The caller closes the reader.
func (b *BlobStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	rc, err := b.store.Get(ctx, path)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rc, nil
}

// isVariantSize accepts a decimal width only, so a size can never steer the
// path outside the blob's own name.
func isVariantSize(s string) bool {
	if len(s) > 5 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

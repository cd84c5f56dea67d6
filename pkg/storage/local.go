package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const tempPattern = ".upload-*.tmp"

// Local stores blobs as files under a root directory.
type Local struct {
	root string
}

// NewLocal creates the root directory if needed.
func NewLocal(root string) (*Local, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty root", ErrInvalidConfig)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &Local{root: abs}, nil
}

// Root returns the absolute root directory.
func (l *Local) Root() string {
	return l.root
}

// Put writes r to a temporary file beside the target, fsyncs it, renames
// it into place and fsyncs the directory so the rename survives a crash.
// A cancelled ctx aborts the write before the rename.
func (l *Local) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	target, err := l.resolve(filepath.FromSlash(key))
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Join(ErrWriteFailed, err)
	}

	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return "", errors.Join(ErrWriteFailed, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, ctxReader{ctx: ctx, r: r}); err != nil {
		return "", errors.Join(ErrWriteFailed, err)
	}
	if err := tmp.Sync(); err != nil {
		return "", errors.Join(ErrWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Join(ErrWriteFailed, err)
	}
	if err := ctx.Err(); err != nil {
		return "", errors.Join(ErrWriteFailed, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return "", errors.Join(ErrWriteFailed, err)
	}
	committed = true

	if err := syncDir(dir); err != nil {
		return "", errors.Join(ErrWriteFailed, err)
	}

	return target, nil
}

func (l *Local) Get(_ context.Context, loc string) (io.ReadCloser, error) {
	path, err := l.resolve(loc)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrReadFailed, err)
	}
	return f, nil
}

func (l *Local) Exists(_ context.Context, loc string) (bool, error) {
	path, err := l.resolve(loc)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, errors.Join(ErrReadFailed, err)
	}
	return info.Mode().IsRegular(), nil
}

func (l *Local) Delete(_ context.Context, loc string) error {
	path, err := l.resolve(loc)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Join(ErrDeleteFailed, err)
	}
	return nil
}

// SweepTemp removes temporary upload files under the root whose last
// modification is older than maxAge. It returns the number removed.
func (l *Local) SweepTemp(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match(tempPattern, d.Name()); !ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		removed++
		return nil
	})

	return removed, err
}

// syncDir flushes directory entries of dir to disk.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	if err := d.Sync(); err != nil {
		_ = d.Close()
		return err
	}
	return d.Close()
}

// resolve accepts a locator and rejects anything outside the root.
func (l *Local) resolve(loc string) (string, error) {
	if loc == "" {
		return "", ErrInvalidKey
	}
	path := filepath.Clean(loc)
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.root, path)
	}
	rel, err := filepath.Rel(l.root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrInvalidKey
	}
	return path, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

var _ Storage = (*Local)(nil)

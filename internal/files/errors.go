package files

import "errors"

var (
	ErrMissingName     = errors.New("files: missing name")
	ErrMissingType     = errors.New("files: missing type")
	ErrMissingData     = errors.New("files: missing data")
	ErrInvalidData     = errors.New("files: invalid data")
	ErrParentNotFound  = errors.New("files: parent not found")
	ErrParentNotFolder = errors.New("files: parent is not a folder")

	// ErrNotFound covers absent records, records the caller may not read
	// and missing content alike.
	ErrNotFound = errors.New("files: not found")

	ErrFolderHasNoContent = errors.New("files: folder has no content")

	ErrBlobWrite      = errors.New("files: blob write failed")
	ErrMetadataWrite  = errors.New("files: metadata write failed")
	ErrDispatchFailed = errors.New("files: job dispatch failed")
)

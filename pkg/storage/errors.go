package storage

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

var (
	ErrInvalidConfig = errors.New("storage: invalid configuration")
	ErrInvalidKey    = errors.New("storage: invalid key")
	ErrNotFound      = errors.New("storage: blob not found")
	ErrAccessDenied  = errors.New("storage: access denied")
	ErrWriteFailed   = errors.New("storage: write failed")
	ErrReadFailed    = errors.New("storage: read failed")
	ErrDeleteFailed  = errors.New("storage: delete failed")
)

// wrapS3Error maps S3 API failures onto the package sentinels. The original
// error is formatted with %v so callers match on sentinels only.
func wrapS3Error(err, fallback error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return fmt.Errorf("%w: %v", fallback, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

package tasks

import "errors"

var (
	ErrMissingFileID = errors.New("tasks: missing fileId")
	ErrMissingUserID = errors.New("tasks: missing userId")
	ErrFileNotFound  = errors.New("tasks: file not found")
	ErrDecodeImage   = errors.New("tasks: failed to decode image")
	ErrEncodeImage   = errors.New("tasks: failed to encode thumbnail")
	ErrStoreVariant  = errors.New("tasks: failed to store thumbnail")
)

package users

import "errors"

var (
	ErrMissingEmail       = errors.New("users: missing email")
	ErrMissingPassword    = errors.New("users: missing password")
	ErrAlreadyExists      = errors.New("users: already exists")
	ErrNotFound           = errors.New("users: not found")
	ErrInvalidCredentials = errors.New("users: invalid credentials")
	ErrHashPassword       = errors.New("users: failed to hash password")
)

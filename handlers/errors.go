package handlers

import (
	"net/http"

	"github.com/dmitrymomot/filesmanager/internal/auth"
	"github.com/dmitrymomot/filesmanager/internal/files"
	"github.com/dmitrymomot/filesmanager/internal/users"
	"github.com/dmitrymomot/filesmanager/middlewares"
)

// ErrorMappings translates domain errors into client responses. Anything
// not listed is a server fault.
func ErrorMappings() []middlewares.ErrorMapping {
	return []middlewares.ErrorMapping{
		{Err: files.ErrMissingName, Code: http.StatusBadRequest, Message: "Missing name"},
		{Err: files.ErrMissingType, Code: http.StatusBadRequest, Message: "Missing type"},
		{Err: files.ErrMissingData, Code: http.StatusBadRequest, Message: "Missing data"},
		{Err: files.ErrInvalidData, Code: http.StatusBadRequest, Message: "Invalid data"},
		{Err: files.ErrParentNotFound, Code: http.StatusBadRequest, Message: "Parent not found"},
		{Err: files.ErrParentNotFolder, Code: http.StatusBadRequest, Message: "Parent is not a folder"},
		{Err: files.ErrFolderHasNoContent, Code: http.StatusBadRequest, Message: "A folder doesn't have content"},
		{Err: files.ErrNotFound, Code: http.StatusNotFound, Message: "Not found"},

		{Err: users.ErrMissingEmail, Code: http.StatusBadRequest, Message: "Missing email"},
		{Err: users.ErrMissingPassword, Code: http.StatusBadRequest, Message: "Missing password"},
		{Err: users.ErrAlreadyExists, Code: http.StatusBadRequest, Message: "Already exist"},
		{Err: users.ErrInvalidCredentials, Code: http.StatusUnauthorized, Message: middlewares.UnauthorizedMessage},
		{Err: auth.ErrUnauthorized, Code: http.StatusUnauthorized, Message: middlewares.UnauthorizedMessage},
	}
}

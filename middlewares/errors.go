package middlewares

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/filesmanager/internal"
)

// PanicError is a recovered panic.
type PanicError struct {
	Value any
	Stack []byte // nil when stack capture is disabled
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// TimeoutError reports a handler that failed after its deadline.
type TimeoutError struct {
	Duration time.Duration
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Duration)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

func IsPanicError(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}

func IsTimeoutError(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// InternalErrorMessage is the only message clients see for server faults.
const InternalErrorMessage = "Internal server error"

// ErrorMapping renders Err, matched with errors.Is, as Code with Message.
type ErrorMapping struct {
	Err     error
	Code    int
	Message string
}

// ErrorHandler renders errors as {"error": message}. An *internal.HTTPError
// is rendered as is. Other errors are matched against mappings in order;
// anything unmatched is logged and answered with a generic 500.
func ErrorHandler(mappings ...ErrorMapping) internal.ErrorHandler {
	return func(c internal.Context, err error) error {
		code, msg := http.StatusInternalServerError, InternalErrorMessage

		if he := internal.AsHTTPError(err); he != nil && he.Code < http.StatusInternalServerError {
			code, msg = he.Code, he.Message
		} else if m, ok := matchMapping(err, mappings); ok {
			code, msg = m.Code, m.Message
		}

		if code >= http.StatusInternalServerError {
			c.LogError("request failed",
				slog.Any("error", err),
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
			)
			msg = InternalErrorMessage
		}

		return c.JSON(code, map[string]string{"error": msg})
	}
}

func matchMapping(err error, mappings []ErrorMapping) (ErrorMapping, bool) {
	for _, m := range mappings {
		if errors.Is(err, m.Err) {
			return m, true
		}
	}
	return ErrorMapping{}, false
}

package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/filesmanager/internal"
)

const DefaultTimeout = 30 * time.Second

// Timeout installs a deadline on the request context. Handlers observe it
// through the Context they receive; blob writes, queries and job dispatch
// abort once it passes. An error returned after the deadline is reported as
// a *TimeoutError.
func Timeout(timeout time.Duration) internal.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()
			c.SetContext(ctx)

			err := next(c)
			if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				c.LogWarn("request timeout", "timeout", timeout.String(), "error", err)
				return &TimeoutError{Duration: timeout, Err: err}
			}
			return err
		}
	}
}

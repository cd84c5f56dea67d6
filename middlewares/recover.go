package middlewares

import (
	"runtime"

	"github.com/dmitrymomot/filesmanager/internal"
)

// DefaultStackSize caps the captured stack trace in bytes.
const DefaultStackSize = 4096

type RecoverOption func(*recoverConfig)

type recoverConfig struct {
	stackSize int
}

func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *recoverConfig) {
		cfg.stackSize = size
	}
}

// Recover turns a panic into a *PanicError for the error handler. A stack
// size of zero or less disables stack capture.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &recoverConfig{stackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				var stack []byte
				if cfg.stackSize > 0 {
					stack = make([]byte, cfg.stackSize)
					stack = stack[:runtime.Stack(stack, false)]
				}

				c.LogError("panic recovered", "panic", r, "stack", string(stack))
				err = &PanicError{Value: r, Stack: stack}
			}()

			return next(c)
		}
	}
}

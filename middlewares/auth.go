package middlewares

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/filesmanager/internal"
	"github.com/dmitrymomot/filesmanager/internal/auth"
	"github.com/dmitrymomot/filesmanager/pkg/logger"
)

// TokenHeader carries the session token.
const TokenHeader = "X-Token"

// UnauthorizedMessage is the body of every 401.
const UnauthorizedMessage = "Unauthorized"

type tokenKey struct{}

type TokenAuthConfig struct {
	Extractor internal.Extractor
}

type TokenAuthOption func(*TokenAuthConfig)

// WithTokenExtractor replaces the default X-Token header source.
func WithTokenExtractor(ext internal.Extractor) TokenAuthOption {
	return func(cfg *TokenAuthConfig) {
		cfg.Extractor = ext
	}
}

// TokenAuth rejects requests without a resolvable token with 401. On success
// the user id is available through Context.UserID.
func TokenAuth(resolver auth.Resolver, opts ...TokenAuthOption) internal.Middleware {
	return tokenAuth(resolver, true, opts...)
}

// OptionalTokenAuth resolves a token when one is sent and lets anonymous
// requests through with an empty user id. Invalid tokens are treated as
// anonymous.
func OptionalTokenAuth(resolver auth.Resolver, opts ...TokenAuthOption) internal.Middleware {
	return tokenAuth(resolver, false, opts...)
}

func tokenAuth(resolver auth.Resolver, required bool, opts ...TokenAuthOption) internal.Middleware {
	cfg := &TokenAuthConfig{
		Extractor: internal.NewExtractor(internal.FromHeader(TokenHeader)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			token, ok := cfg.Extractor.Extract(c)
			if !ok {
				if required {
					return internal.ErrUnauthorized(UnauthorizedMessage)
				}
				return next(c)
			}

			userID, err := resolver.Resolve(c, token)
			switch {
			case err == nil:
				c.Set(internal.UserIDKey{}, userID)
				c.Set(tokenKey{}, token)
			case errors.Is(err, auth.ErrUnauthorized):
				if required {
					return internal.ErrUnauthorized(UnauthorizedMessage, internal.WithError(err))
				}
			default:
				return err
			}

			return next(c)
		}
	}
}

// GetToken returns the token the request was authenticated with.
func GetToken(c internal.Context) string {
	return internal.ContextValue[string](c, tokenKey{})
}

// UserIDExtractor adds "user_id" to log records of authenticated requests.
func UserIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(internal.UserIDKey{}).(string); ok && v != "" {
			return slog.String("user_id", v), true
		}
		return slog.Attr{}, false
	}
}

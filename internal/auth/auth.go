// Package auth issues opaque session tokens and resolves them to user ids.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/filesmanager/pkg/cache"
)

const DefaultTokenTTL = 24 * time.Hour

var (
	ErrUnauthorized = errors.New("auth: unauthorized")
	ErrTokenStore   = errors.New("auth: token store unavailable")
)

// Resolver maps a token to the id of the user it was issued to.
type Resolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// Tokens keeps token to user id mappings in a cache with a fixed lifetime.
type Tokens struct {
	store cache.Cache[string]
	ttl   time.Duration
}

// NewTokens uses DefaultTokenTTL when ttl is not positive.
func NewTokens(store cache.Cache[string], ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{store: store, ttl: ttl}
}

// Issue creates a new token for userID.
func (t *Tokens) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := t.store.Set(ctx, token, userID, t.ttl); err != nil {
		return "", errors.Join(ErrTokenStore, err)
	}
	return token, nil
}

// Resolve returns ErrUnauthorized for empty, unknown and expired tokens.
func (t *Tokens) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}

	userID, err := t.store.Get(ctx, token)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", errors.Join(ErrTokenStore, err)
	}
	if userID == "" {
		return "", ErrUnauthorized
	}
	return userID, nil
}

// Revoke deletes token. Unknown tokens are reported as ErrUnauthorized.
func (t *Tokens) Revoke(ctx context.Context, token string) error {
	if _, err := t.Resolve(ctx, token); err != nil {
		return err
	}
	if err := t.store.Delete(ctx, token); err != nil {
		return errors.Join(ErrTokenStore, err)
	}
	return nil
}

var _ Resolver = (*Tokens)(nil)

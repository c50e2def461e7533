package cache

import (
	"context"
	"fmt"
	"time"
)

// TokenBlacklist tracks revoked refresh tokens by JTI. Entries expire
// together with the token itself, so the set stays bounded.
type TokenBlacklist struct {
	store Store
}

// NewTokenBlacklist creates a TokenBlacklist on top of the given store.
func NewTokenBlacklist(store Store) *TokenBlacklist {
	return &TokenBlacklist{store: store}
}

func (b *TokenBlacklist) key(jti string) string {
	return fmt.Sprintf("auth:blacklist:%s", jti)
}

// Revoke marks a refresh token as unusable until it would have expired.
func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired; nothing to track.
		return nil
	}
	return b.store.Set(ctx, b.key(jti), "revoked", ttl)
}

// IsRevoked reports whether the token was revoked.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return b.store.Exists(ctx, b.key(jti))
}

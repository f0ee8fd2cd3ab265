package redis

import (
	"context"
	"time"
)

const blacklistKeyPrefix = "token:blacklist:"

// TokenBlacklist stores revoked refresh token IDs (jti) in Redis. Entries
// carry a TTL equal to the remaining lifetime of the token, so the set
// cleans itself up without a sweeper.
type TokenBlacklist struct{}

var (
	setBlacklistValue   = Set
	existsBlacklistKey  = Exists
	deleteBlacklistKeys = Del
)

// NewTokenBlacklist creates a new token blacklist
func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{}
}

// Add revokes a token ID until it would have expired anyway. Adding an
// already-revoked token is a no-op, which keeps logout idempotent.
func (b *TokenBlacklist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired; nothing to revoke.
		return nil
	}
	return setBlacklistValue(ctx, blacklistKeyPrefix+jti, "1", ttl)
}

// Contains reports whether a token ID has been revoked
func (b *TokenBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	return existsBlacklistKey(ctx, blacklistKeyPrefix+jti)
}

// Remove clears a revoked token ID (used in tests and admin tooling)
func (b *TokenBlacklist) Remove(ctx context.Context, jti string) error {
	return deleteBlacklistKeys(ctx, blacklistKeyPrefix+jti)
}

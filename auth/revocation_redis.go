package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/redis/go-redis/v9"
)

// RedisDenylist is a RevocationRegistry shared across server instances.
// Redis handles the expiry-based purge natively: each entry carries a TTL
// matching the revoked token's remaining lifetime.
type RedisDenylist struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

var _ RevocationRegistry = (*RedisDenylist)(nil)

// NewRedisDenylist returns a registry backed by the given client. The prefix
// namespaces keys so the registry can share a database with other stores.
func NewRedisDenylist(client redis.UniversalClient, prefix string) *RedisDenylist {
	if prefix == "" {
		prefix = "auth:denylist"
	}
	return &RedisDenylist{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// WithClock overrides the clock, useful for tests.
func (d *RedisDenylist) WithClock(now func() time.Time) *RedisDenylist {
	if now != nil {
		d.now = now
	}
	return d
}

// Revoke inserts the token with a TTL covering its remaining validity. SET is
// naturally idempotent; re-revoking refreshes the TTL, which never shortens a
// retention below the token's own expiry.
func (d *RedisDenylist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if token == "" {
		return nil
	}

	ttl := RefreshTokenTTL
	if !expiresAt.IsZero() {
		ttl = expiresAt.Sub(d.now())
	}
	if ttl <= 0 {
		// Already expired; keep a short window so in-flight verifications
		// still observe the revocation.
		ttl = time.Minute
	}

	if err := d.client.Set(ctx, d.key(token), "1", ttl).Err(); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to store revocation entry")
	}
	return nil
}

// IsRevoked reports membership.
func (d *RedisDenylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(token)).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to check revocation entry")
	}
	return n > 0, nil
}

// key hashes the token so raw credentials never land in Redis.
func (d *RedisDenylist) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return d.prefix + ":" + hex.EncodeToString(sum[:])
}

package auth

import (
	"context"
	"sync"
	"time"
)

// DefaultPurgeInterval is how often the in-memory denylist sweeps out
// entries whose tokens have expired on their own.
const DefaultPurgeInterval = 10 * time.Minute

// Denylist is the in-memory RevocationRegistry. Entries are keyed by token
// with their natural expiry so the set cannot grow without bound: a token
// past its own expiry is already invalid and need not stay in the registry.
type Denylist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

var _ RevocationRegistry = (*Denylist)(nil)

type DenylistOption func(*Denylist)

// WithDenylistClock injects a custom clock, useful for tests.
func WithDenylistClock(now func() time.Time) DenylistOption {
	return func(d *Denylist) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDenylist returns an empty registry.
func NewDenylist(opts ...DenylistOption) *Denylist {
	d := &Denylist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Revoke inserts the token. Inserting an already revoked token is a no-op.
// A zero expiresAt falls back to the refresh token window, the longest any
// outstanding token can remain otherwise valid.
func (d *Denylist) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	if token == "" {
		return nil
	}
	if expiresAt.IsZero() {
		expiresAt = d.now().Add(RefreshTokenTTL)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.entries[token]; ok {
		return nil
	}
	d.entries[token] = expiresAt
	return nil
}

// IsRevoked reports membership.
func (d *Denylist) IsRevoked(_ context.Context, token string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.entries[token]
	return ok, nil
}

// Len returns the number of retained entries.
func (d *Denylist) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Purge drops entries whose expiry has passed and returns how many were removed.
func (d *Denylist) Purge() int {
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	removed := 0
	for token, expiresAt := range d.entries {
		if expiresAt.Before(now) {
			delete(d.entries, token)
			removed++
		}
	}
	return removed
}

// StartPurging runs Purge on the given interval until ctx is done. A
// non-positive interval selects DefaultPurgeInterval.
func (d *Denylist) StartPurging(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPurgeInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.Purge()
			}
		}
	}()
}

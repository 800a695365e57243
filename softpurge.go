package cachified

import (
	"context"
	"time"
)

type softPurgeConfig struct {
	swr   time.Duration
	clock Clock
}

// SoftPurgeOption configures a SoftPurge call.
type SoftPurgeOption func(*softPurgeConfig)

// WithPurgeStaleWhileRevalidate is accepted for symmetry with Get but has
// no effect on the stored entry: the stale window is a per-call parameter
// of Get, not stored metadata. Callers wanting a custom window after a
// purge must pass WithStaleWhileRevalidate to the next Get.
func WithPurgeStaleWhileRevalidate(d time.Duration) SoftPurgeOption {
	return func(c *softPurgeConfig) {
		c.swr = d
	}
}

// WithPurgeClock sets a custom clock for time operations.
func WithPurgeClock(clk Clock) SoftPurgeOption {
	return func(c *softPurgeConfig) {
		c.clock = clk
	}
}

// SoftPurge marks the entry for key immediately stale without deleting it,
// by rewriting its TTL to zero in place. A subsequent Get with a
// stale-while-revalidate window serves the preserved value while refreshing
// it in the background.
//
// If the entry was already expired when purged, its creation time is
// re-based to now so that stale serving starts from the purge moment rather
// than from the original, possibly long-past, creation time. An unexpired
// entry keeps its creation time and simply becomes stale at its true age.
//
// Purging an absent key succeeds as a no-op. Storage failures surface to
// the caller as a *CacheError.
func SoftPurge[T any](ctx context.Context, cache Cache[T], key string, opts ...SoftPurgeOption) error {
	cfg := softPurgeConfig{clock: realClock{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	entry, ok, err := cache.Get(ctx, key)
	if err != nil {
		return &CacheError{Op: "get", Key: key, Err: err}
	}
	if !ok {
		return nil
	}

	now := cfg.clock.Now()
	expired := entry.Metadata.IsExpired(now)

	zero := time.Duration(0)
	entry.Metadata.TTL = &zero
	if expired {
		entry.Metadata.CreatedAt = now
	}

	if err := cache.Set(ctx, key, entry); err != nil {
		return &CacheError{Op: "set", Key: key, Err: err}
	}
	return nil
}

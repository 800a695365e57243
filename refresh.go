package cachified

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// Refresher collapses concurrent background refreshes for the same key into
// a single producer invocation. Callers that want deduplication share one
// Refresher across Get calls via WithRefresher; without it, every caller
// observing the same stale window dispatches an independent refresh.
//
// The zero value is ready to use.
type Refresher struct {
	group singleflight.Group
}

func (r *Refresher) do(key string, fn func()) {
	r.group.Do(key, func() (any, error) {
		fn()
		return nil, nil
	})
}

// spawnRefresh recomputes the value for key on a detached goroutine and
// writes it back on success. The refresh is fire-and-forget: the caller's
// cancellation does not reach it, its failures are dropped, and its write
// is last-writer-wins with no compare-and-swap against the entry that
// triggered it. The refreshed value is written without validation; only
// the synchronous path validates before persisting.
func spawnRefresh[T any](ctx context.Context, cache Cache[T], key string, fresh FreshFunc[T], cfg config[T]) {
	ctx = context.WithoutCancel(ctx)

	run := func() {
		value, err := fresh(ctx)
		if err != nil {
			cfg.stats.refreshFailure()
			cfg.logger.WithField("key", key).WithError(err).Debug("background refresh failed")
			return
		}

		entry := Entry[T]{
			Value: value,
			Metadata: Metadata{
				CreatedAt: cfg.clock.Now(),
				TTL:       ttlPtr(cfg.ttl),
			},
		}

		if err := cache.Set(ctx, key, entry); err != nil {
			cfg.stats.refreshFailure()
			cfg.logger.WithField("key", key).WithError(err).Debug("background refresh write failed")
			return
		}
		cfg.stats.refresh()
	}

	if cfg.refresher != nil {
		go cfg.refresher.do(key, run)
		return
	}
	go run()
}

func ttlPtr(d time.Duration) *time.Duration {
	if d <= 0 {
		return nil
	}
	return &d
}

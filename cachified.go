package cachified

import (
	"context"
	"errors"
)

// FreshFunc produces an authoritative value for a key. The engine calls it
// at most once per Get invocation, plus once inside any background refresh
// it dispatches. It must be safe to invoke concurrently for the same key.
type FreshFunc[T any] func(ctx context.Context) (T, error)

// Get returns the value for key, deciding between the stored entry and a
// fresh one.
//
// An unexpired stored value that passes validation is returned as-is. An
// expired value inside the stale-while-revalidate window is returned
// immediately while a detached background refresh recomputes it. Otherwise
// fresh is invoked synchronously; its result is validated, persisted when a
// positive TTL is configured, and returned.
//
// Failure handling favors availability: a failing cache read degrades to a
// miss, a failing cache write still returns the computed value, and with
// WithFallbackToCache a producer failure is masked by any acceptable stored
// value. The only terminal errors are a producer failure with no fallback
// and a fresh value that fails validation.
func Get[T any](ctx context.Context, cache Cache[T], key string, fresh FreshFunc[T], opts ...Option[T]) (T, error) {
	cfg := defaultConfig[T]()
	for _, opt := range opts {
		opt(&cfg)
	}

	// now is sampled once; every window decision below uses it.
	now := cfg.clock.Now()

	if !cfg.forceFresh {
		if entry, ok := lookup(ctx, cache, key, cfg); ok {
			if !entry.Metadata.IsExpired(now) {
				if accept(cfg.validator, entry.Value) {
					cfg.stats.hit()
					return entry.Value, nil
				}
				// rejected stored value: recompute below
			} else if cfg.swr > 0 {
				staleUntil := entry.Metadata.CreatedAt.Add(entry.Metadata.ttlOrZero()).Add(cfg.swr)
				if now.Before(staleUntil) {
					spawnRefresh(ctx, cache, key, fresh, cfg)
					if accept(cfg.validator, entry.Value) {
						cfg.stats.staleHit()
						return entry.Value, nil
					}
					// rejected stale value: recompute below while the
					// already-dispatched refresh runs on
				}
			}
		}
	}

	cfg.stats.miss()

	value, err := fresh(ctx)
	if err != nil {
		if cfg.fallbackToCache {
			if entry, ok := lookup(ctx, cache, key, cfg); ok && accept(cfg.validator, entry.Value) {
				return entry.Value, nil
			}
		}
		var zero T
		return zero, &FreshValueError{Key: key, Err: err}
	}

	if cfg.validator != nil {
		if verr := cfg.validator.Check(value); verr != nil {
			var zero T
			return zero, asValidationError(verr)
		}
	}

	if cfg.ttl > 0 {
		ttl := cfg.ttl
		entry := Entry[T]{Value: value, Metadata: Metadata{CreatedAt: now, TTL: &ttl}}
		if err := cache.Set(ctx, key, entry); err != nil {
			// write failures are swallowed; the caller still gets the value
			cfg.logger.WithField("key", key).WithError(err).Warn("cache write failed")
		}
	}

	return value, nil
}

// lookup treats a failing cache read as a miss.
func lookup[T any](ctx context.Context, cache Cache[T], key string, cfg config[T]) (Entry[T], bool) {
	entry, ok, err := cache.Get(ctx, key)
	if err != nil {
		cfg.logger.WithField("key", key).WithError(err).Debug("cache read failed")
		return Entry[T]{}, false
	}
	return entry, ok
}

func accept[T any](v Validator[T], value T) bool {
	return v == nil || v.Check(value) == nil
}

func asValidationError(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return err
	}
	return &ValidationError{Err: err}
}

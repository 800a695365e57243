// Package cachified decides, on every request, whether to serve a stored
// value, serve a stale value while refreshing it in the background, or
// block and compute a fresh one — so callers never hand-roll TTL checks,
// stale-while-revalidate windows, validation-triggered recomputation, or
// graceful invalidation.
//
// # Overview
//
// The package sits in front of an arbitrary key-value store, expressed as
// the Cache interface. Given a key, a TTL policy, and a producer for the
// authoritative value, Get classifies the stored entry as fresh, stale,
// expired, or invalid and drives the matching side effects. SoftPurge marks
// an entry stale in place so the next Get serves it through a
// stale-while-revalidate window instead of busting it outright.
//
// # Basic Usage
//
// Wrap an expensive computation with a key and a TTL:
//
//	ctx := context.Background()
//	cache := cachified.NewMemoryCache[string]()
//
//	value, err := cachified.Get(ctx, cache, "user-1",
//		func(ctx context.Context) (string, error) {
//			return fetchUser(ctx, "user-1") // database call, API request, ...
//		},
//		cachified.WithTTL[string](5*time.Minute),
//	)
//
// The first call invokes the producer and persists the result; calls within
// the TTL return the stored value without touching the producer.
//
// # Stale-While-Revalidate
//
// A stale window lets expired values keep serving while a detached refresh
// recomputes them:
//
//	value, err := cachified.Get(ctx, cache, "user-1", fetchUser,
//		cachified.WithTTL[string](time.Minute),
//		cachified.WithStaleWhileRevalidate[string](5*time.Minute),
//	)
//
// A caller that finds the entry expired but inside the window gets the
// stale value immediately; the refresh runs on its own goroutine, detached
// from the caller's context, and overwrites the entry when it succeeds.
// Concurrent callers each dispatch their own refresh unless they share a
// Refresher via WithRefresher.
//
// # Validation
//
// A Validator vets values before they are served. A stored value that fails
// the check is recomputed transparently; a freshly produced value that
// fails the check fails the call:
//
//	value, err := cachified.Get(ctx, cache, "user-1", fetchUser,
//		cachified.WithTTL[string](time.Minute),
//		cachified.WithValidator[string](cachified.NonEmptyString),
//	)
//
// # Soft Purge
//
// SoftPurge rewrites an entry's metadata to force a controlled staleness
// window without losing the value:
//
//	_ = cachified.SoftPurge(ctx, cache, "user-1")
//
// # Fallback
//
// WithFallbackToCache serves whatever acceptable value is stored — even an
// expired one — when the producer fails, masking the producer error.
// WithForceFresh does the opposite and bypasses the lookup entirely.
//
// # Backends
//
// Any implementation of Cache works. MemoryCache is the in-process default;
// the rediscache and sqlitecache subpackages persist entries to Redis and
// SQLite respectively.
//
// # Testing
//
// Inject a custom clock to control time:
//
//	type fakeClock struct{ now time.Time }
//	func (c *fakeClock) Now() time.Time { return c.now }
//
//	clk := &fakeClock{now: time.Now()}
//	v, err := cachified.Get(ctx, cache, "k", fresh,
//		cachified.WithTTL[string](time.Minute),
//		cachified.WithClock[string](clk),
//	)
//
// # Thread Safety
//
// Get and SoftPurge are safe for invocation from many concurrent callers
// sharing one cache handle. No lock is held across a decision: two callers
// racing on the same key are resolved last-writer-wins by the store.
package cachified

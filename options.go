package cachified

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

type config[T any] struct {
	ttl             time.Duration
	swr             time.Duration
	forceFresh      bool
	fallbackToCache bool
	validator       Validator[T]
	clock           Clock
	logger          logrus.FieldLogger
	stats           *Stats
	refresher       *Refresher
}

var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

func defaultConfig[T any]() config[T] {
	return config[T]{
		clock:  realClock{},
		logger: discardLogger,
	}
}

// Option configures a single Get call. Options are per-call and immutable;
// none of them are persisted with the entry.
type Option[T any] func(*config[T])

// WithTTL sets the time-to-live applied to newly written entries.
// With a zero or negative TTL the fresh value is returned but never
// persisted.
func WithTTL[T any](d time.Duration) Option[T] {
	return func(c *config[T]) {
		c.ttl = d
	}
}

// WithStaleWhileRevalidate allows serving an expired entry for d past its
// expiry while a refresh runs in the background.
func WithStaleWhileRevalidate[T any](d time.Duration) Option[T] {
	return func(c *config[T]) {
		c.swr = d
	}
}

// WithForceFresh bypasses the cache lookup for this call. The producer is
// always invoked; the result is persisted under the usual TTL rules.
func WithForceFresh[T any](force bool) Option[T] {
	return func(c *config[T]) {
		c.forceFresh = force
	}
}

// WithFallbackToCache serves a stored value, even an expired one, when the
// producer fails, masking the producer error.
func WithFallbackToCache[T any](fallback bool) Option[T] {
	return func(c *config[T]) {
		c.fallbackToCache = fallback
	}
}

// WithValidator checks stored and freshly produced values before they are
// served. A stored value that fails the check triggers recomputation; a
// fresh value that fails the check fails the call.
func WithValidator[T any](v Validator[T]) Option[T] {
	return func(c *config[T]) {
		c.validator = v
	}
}

// WithCheck is shorthand for WithValidator(ValidatorFunc(fn)).
func WithCheck[T any](fn func(value T) error) Option[T] {
	return WithValidator[T](ValidatorFunc[T](fn))
}

// WithClock sets a custom clock for time operations.
// Useful for testing TTL and stale-window behavior.
func WithClock[T any](clk Clock) Option[T] {
	return func(c *config[T]) {
		c.clock = clk
	}
}

// WithLogger routes swallowed failures (degraded cache reads, failed cache
// writes, dropped background refreshes) to l. The default discards them.
func WithLogger[T any](l logrus.FieldLogger) Option[T] {
	return func(c *config[T]) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStats records decision outcomes on s.
func WithStats[T any](s *Stats) Option[T] {
	return func(c *config[T]) {
		c.stats = s
	}
}

// WithRefresher deduplicates concurrent background refreshes through r.
// Without it, every caller that observes the same stale window dispatches
// its own refresh.
func WithRefresher[T any](r *Refresher) Option[T] {
	return func(c *config[T]) {
		c.refresher = r
	}
}

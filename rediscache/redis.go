// Package rediscache provides a Redis-backed store for cachified entries.
//
// Entries are stored as a JSON envelope under a configurable key prefix.
// Server-side expiry is set to the entry's TTL plus a configurable
// keep-stale margin; without a margin, Redis evicts entries the moment they
// expire and stale-while-revalidate windows never see them.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	cachified "github.com/NurMarvin/cachified-rs"
)

// DefaultPrefix is prepended to every key unless WithPrefix overrides it.
const DefaultPrefix = "cachified:"

// Cache is a distributed cachified.Cache backed by Redis.
type Cache[T any] struct {
	client    redis.UniversalClient
	prefix    string
	keepStale time.Duration
	log       logrus.FieldLogger
}

type config struct {
	prefix    string
	keepStale time.Duration
	log       logrus.FieldLogger
}

// Option configures a Cache.
type Option func(*config)

// WithPrefix sets a custom prefix for all cache keys.
func WithPrefix(prefix string) Option {
	return func(c *config) {
		c.prefix = prefix
	}
}

// WithKeepStale keeps entries alive in Redis for d past their TTL so that
// stale-while-revalidate windows up to d can still serve them. Without it,
// server-side expiry coincides with the entry TTL.
func WithKeepStale(d time.Duration) Option {
	return func(c *config) {
		c.keepStale = d
	}
}

// WithLogger routes swallowed scan/delete errors to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// New creates a Redis-backed cache on top of an existing client.
func New[T any](client redis.UniversalClient, opts ...Option) *Cache[T] {
	cfg := config{prefix: DefaultPrefix, log: discardLogger}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Cache[T]{
		client:    client,
		prefix:    cfg.prefix,
		keepStale: cfg.keepStale,
		log:       cfg.log,
	}
}

func (c *Cache[T]) fullKey(key string) string {
	return c.prefix + key
}

// Get retrieves the entry for key. A missing key or an undecodable payload
// is reported as absent, not as an error.
func (c *Cache[T]) Get(ctx context.Context, key string) (cachified.Entry[T], bool, error) {
	data, err := c.client.Get(ctx, c.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cachified.Entry[T]{}, false, nil
	}
	if err != nil {
		return cachified.Entry[T]{}, false, err
	}

	var entry cachified.Entry[T]
	if err := json.Unmarshal(data, &entry); err != nil {
		c.log.WithField("key", key).WithError(err).Debug("undecodable cache payload")
		return cachified.Entry[T]{}, false, nil
	}
	return entry, true, nil
}

// Set stores the entry for key. Entries with a positive TTL expire
// server-side at TTL plus the keep-stale margin; entries without a TTL, and
// soft-purged entries carrying an explicit zero TTL, are kept until
// overwritten or deleted.
func (c *Cache[T]) Set(ctx context.Context, key string, entry cachified.Entry[T]) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	var expiration time.Duration
	if entry.Metadata.TTL != nil && *entry.Metadata.TTL > 0 {
		expiration = *entry.Metadata.TTL + c.keepStale
	}
	return c.client.Set(ctx, c.fullKey(key), data, expiration).Err()
}

// Delete removes the entry for key.
func (c *Cache[T]) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.fullKey(key)).Err()
}

// Clear removes all entries under the configured prefix.
func (c *Cache[T]) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.WithField("key", iter.Val()).WithError(err).Debug("clear: delete failed")
		}
	}
	return iter.Err()
}

// Len counts the entries under the configured prefix.
func (c *Cache[T]) Len(ctx context.Context) (int, error) {
	n := 0
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		n++
	}
	return n, iter.Err()
}

// Compile-time interface assertion.
var _ cachified.Cache[string] = (*Cache[string])(nil)

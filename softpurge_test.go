package cachified

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type SoftPurgeSuite struct {
	suite.Suite
	ctx   context.Context
	clk   *mockClock
	cache *MemoryCache[string]
}

func (s *SoftPurgeSuite) SetupTest() {
	s.ctx = context.Background()
	s.clk = &mockClock{now: time.Now()}
	s.cache = NewMemoryCache[string]()
}

func TestSoftPurgeSuite(t *testing.T) {
	suite.Run(t, new(SoftPurgeSuite))
}

func (s *SoftPurgeSuite) TestPurgeThenStaleServe() {
	var count atomic.Int32
	opts := []Option[string]{WithTTL[string](5 * time.Minute), WithClock[string](s.clk)}

	_, err := Get(s.ctx, s.cache, "k",
		func(context.Context) (string, error) {
			count.Add(1)
			return "original", nil
		}, opts...)
	s.Require().NoError(err)
	s.Equal(int32(1), count.Load())

	s.Require().NoError(SoftPurge(s.ctx, s.cache, "k", WithPurgeClock(s.clk)))

	entry, ok, err := s.cache.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.Require().True(ok, "soft purge preserves the entry")
	s.Equal("original", entry.Value)
	s.Require().NotNil(entry.Metadata.TTL)
	s.Equal(time.Duration(0), *entry.Metadata.TTL)
	s.True(entry.IsExpired(s.clk.Now()))

	// immediately stale: a Get with a stale window serves the old value
	// and refreshes in the background
	done := make(chan struct{})
	v, err := Get(s.ctx, s.cache, "k",
		func(context.Context) (string, error) {
			defer close(done)
			count.Add(1)
			return "refreshed", nil
		},
		append(opts, WithStaleWhileRevalidate[string](time.Minute))...)
	s.Require().NoError(err)
	s.Equal("original", v)

	<-done
	s.Eventually(func() bool {
		entry, ok, _ := s.cache.Get(s.ctx, "k")
		return ok && entry.Value == "refreshed"
	}, time.Second, time.Millisecond)

	v, err = Get(s.ctx, s.cache, "k",
		func(context.Context) (string, error) {
			count.Add(1)
			return "never", nil
		}, opts...)
	s.Require().NoError(err)
	s.Equal("refreshed", v)
	s.Equal(int32(2), count.Load())
}

func (s *SoftPurgeSuite) TestPurgeAbsentKeyIsNoOp() {
	s.Require().NoError(SoftPurge(s.ctx, s.cache, "nonexistent", WithPurgeClock(s.clk)))

	n, err := s.cache.Len(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, n)
}

func (s *SoftPurgeSuite) TestPurgeExpiredEntryRebasesCreation() {
	ttl := 50 * time.Second
	created := s.clk.Now().Add(-100 * time.Second) // expired 50s ago
	s.Require().NoError(s.cache.Set(s.ctx, "k", NewEntry("v", created, &ttl)))

	s.Require().NoError(SoftPurge(s.ctx, s.cache, "k", WithPurgeClock(s.clk)))

	entry, ok, err := s.cache.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal("v", entry.Value)
	s.Require().NotNil(entry.Metadata.TTL)
	s.Equal(time.Duration(0), *entry.Metadata.TTL)
	s.True(entry.Metadata.CreatedAt.Equal(s.clk.Now()),
		"stale window must be re-based to the purge moment")
}

func (s *SoftPurgeSuite) TestPurgeUnexpiredEntryKeepsCreation() {
	ttl := 5 * time.Minute
	created := s.clk.Now().Add(-time.Minute)
	s.Require().NoError(s.cache.Set(s.ctx, "k", NewEntry("v", created, &ttl)))

	s.Require().NoError(SoftPurge(s.ctx, s.cache, "k", WithPurgeClock(s.clk)))

	entry, _, err := s.cache.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.True(entry.Metadata.CreatedAt.Equal(created),
		"an unexpired entry keeps its true age")
	s.True(entry.IsExpired(s.clk.Now()))
}

func (s *SoftPurgeSuite) TestPurgeWithoutTTLBecomesStale() {
	s.Require().NoError(s.cache.Set(s.ctx, "k", NewEntry("v", s.clk.Now().Add(-time.Hour), nil)))

	s.Require().NoError(SoftPurge(s.ctx, s.cache, "k", WithPurgeClock(s.clk)))

	entry, _, err := s.cache.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.True(entry.IsExpired(s.clk.Now()), "an immortal entry becomes stale once purged")
}

func (s *SoftPurgeSuite) TestStaleWindowOverrideIsInert() {
	ttl := 5 * time.Minute
	created := s.clk.Now()
	s.Require().NoError(s.cache.Set(s.ctx, "k", NewEntry("v", created, &ttl)))

	s.Require().NoError(SoftPurge(s.ctx, s.cache, "k",
		WithPurgeClock(s.clk),
		WithPurgeStaleWhileRevalidate(2*time.Minute)))

	entry, _, err := s.cache.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.Require().NotNil(entry.Metadata.TTL)
	s.Equal(time.Duration(0), *entry.Metadata.TTL)
	s.True(entry.Metadata.CreatedAt.Equal(created),
		"the override changes nothing beyond the usual purge rewrite")
}

func (s *SoftPurgeSuite) TestReadFailureSurfaces() {
	cache := &faultCache[string]{Cache: s.cache, failGet: true}

	err := SoftPurge(s.ctx, cache, "k", WithPurgeClock(s.clk))

	var cerr *CacheError
	s.Require().ErrorAs(err, &cerr)
	s.Equal("get", cerr.Op)
}

func (s *SoftPurgeSuite) TestWriteFailureSurfaces() {
	ttl := time.Minute
	s.Require().NoError(s.cache.Set(s.ctx, "k", NewEntry("v", s.clk.Now(), &ttl)))
	cache := &faultCache[string]{Cache: s.cache, failSet: true}

	err := SoftPurge(s.ctx, cache, "k", WithPurgeClock(s.clk))

	var cerr *CacheError
	s.Require().ErrorAs(err, &cerr)
	s.Equal("set", cerr.Op)
}

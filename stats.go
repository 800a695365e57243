package cachified

import "sync/atomic"

// Stats holds engine counters using atomic values for lock-free updates.
// Pass one to Get via WithStats to observe decision outcomes.
type Stats struct {
	hits            atomic.Int64
	misses          atomic.Int64
	staleHits       atomic.Int64
	refreshes       atomic.Int64
	refreshFailures atomic.Int64
}

// Hits returns the number of calls served from an unexpired entry.
func (s *Stats) Hits() int64 {
	return s.hits.Load()
}

// Misses returns the number of calls that fell through to the producer.
func (s *Stats) Misses() int64 {
	return s.misses.Load()
}

// StaleHits returns the number of calls served a stale value while a
// background refresh was dispatched.
func (s *Stats) StaleHits() int64 {
	return s.staleHits.Load()
}

// Refreshes returns the number of background refreshes written back.
func (s *Stats) Refreshes() int64 {
	return s.refreshes.Load()
}

// RefreshFailures returns the number of background refreshes dropped
// because the producer or the write-back failed.
func (s *Stats) RefreshFailures() int64 {
	return s.refreshFailures.Load()
}

// HitRate returns the fraction of calls served from the cache, stale serves
// included. Returns 0 if there have been no calls.
func (s *Stats) HitRate() float64 {
	hits := s.hits.Load() + s.staleHits.Load()
	total := hits + s.misses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

func (s *Stats) hit() {
	if s != nil {
		s.hits.Add(1)
	}
}

func (s *Stats) miss() {
	if s != nil {
		s.misses.Add(1)
	}
}

func (s *Stats) staleHit() {
	if s != nil {
		s.staleHits.Add(1)
	}
}

func (s *Stats) refresh() {
	if s != nil {
		s.refreshes.Add(1)
	}
}

func (s *Stats) refreshFailure() {
	if s != nil {
		s.refreshFailures.Add(1)
	}
}

// Snapshot is a point-in-time copy of engine statistics.
type Snapshot struct {
	Hits            int64
	Misses          int64
	StaleHits       int64
	Refreshes       int64
	RefreshFailures int64
}

// Snapshot returns a point-in-time copy of the stats.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Hits:            s.hits.Load(),
		Misses:          s.misses.Load(),
		StaleHits:       s.staleHits.Load(),
		Refreshes:       s.refreshes.Load(),
		RefreshFailures: s.refreshFailures.Load(),
	}
}

package cachified

import "time"

// Entry is the persisted unit: a value plus its cache metadata.
// Store adapters serialize it as-is, so both fields carry JSON tags.
type Entry[T any] struct {
	Value    T        `json:"value"`
	Metadata Metadata `json:"metadata"`
}

// NewEntry builds an entry created at now.
// A nil ttl means the entry never expires.
func NewEntry[T any](value T, now time.Time, ttl *time.Duration) Entry[T] {
	return Entry[T]{
		Value:    value,
		Metadata: Metadata{CreatedAt: now, TTL: ttl},
	}
}

// IsExpired reports whether the entry has expired at now.
func (e Entry[T]) IsExpired(now time.Time) bool {
	return e.Metadata.IsExpired(now)
}

// Age returns how old the entry is at now.
func (e Entry[T]) Age(now time.Time) time.Duration {
	return e.Metadata.Age(now)
}

// Metadata describes when an entry was created and how long it lives.
// A nil TTL means the entry never expires. A zero TTL marks the entry
// expired for any time at or after CreatedAt, which is how SoftPurge
// invalidates an entry without deleting it.
type Metadata struct {
	CreatedAt time.Time      `json:"createdAt"`
	TTL       *time.Duration `json:"ttl,omitempty"`
}

// IsExpired reports whether the entry has expired at now.
// The boundary is inclusive: an entry is expired exactly at CreatedAt + TTL.
func (m Metadata) IsExpired(now time.Time) bool {
	if m.TTL == nil {
		return false
	}
	return !now.Before(m.CreatedAt.Add(*m.TTL))
}

// ExpiresAt returns the expiry time, or false when the entry has no TTL.
func (m Metadata) ExpiresAt() (time.Time, bool) {
	if m.TTL == nil {
		return time.Time{}, false
	}
	return m.CreatedAt.Add(*m.TTL), true
}

// Age returns how old the entry is at now, saturating at zero.
func (m Metadata) Age(now time.Time) time.Duration {
	if now.Before(m.CreatedAt) {
		return 0
	}
	return now.Sub(m.CreatedAt)
}

func (m Metadata) ttlOrZero() time.Duration {
	if m.TTL == nil {
		return 0
	}
	return *m.TTL
}

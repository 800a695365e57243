// Package sqlitecache provides a SQLite-backed store for cachified entries.
//
// Each entry occupies one row: the value as a JSON payload, the metadata in
// plain columns. The driver is pure Go (no CGO), so the adapter works
// anywhere the module compiles.
package sqlitecache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	cachified "github.com/NurMarvin/cachified-rs"
)

type record struct {
	Key          string `gorm:"primaryKey;size:512"`
	Payload      []byte
	CreatedNanos int64
	TTLNanos     *int64
}

func (record) TableName() string { return "cache_entries" }

// Cache is a persistent cachified.Cache backed by SQLite.
type Cache[T any] struct {
	db *gorm.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// migrates the cache table. Use ":memory:" for an ephemeral database.
func Open[T any](path string) (*Cache[T], error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return New[T](db)
}

// New wraps an existing gorm connection and migrates the cache table.
func New[T any](db *gorm.DB) (*Cache[T], error) {
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, err
	}
	return &Cache[T]{db: db}, nil
}

// Get retrieves the entry for key.
func (c *Cache[T]) Get(ctx context.Context, key string) (cachified.Entry[T], bool, error) {
	var rec record
	err := c.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cachified.Entry[T]{}, false, nil
	}
	if err != nil {
		return cachified.Entry[T]{}, false, err
	}

	var value T
	if err := json.Unmarshal(rec.Payload, &value); err != nil {
		return cachified.Entry[T]{}, false, err
	}

	var ttl *time.Duration
	if rec.TTLNanos != nil {
		d := time.Duration(*rec.TTLNanos)
		ttl = &d
	}

	return cachified.Entry[T]{
		Value: value,
		Metadata: cachified.Metadata{
			CreatedAt: time.Unix(0, rec.CreatedNanos),
			TTL:       ttl,
		},
	}, true, nil
}

// Set upserts the entry for key.
func (c *Cache[T]) Set(ctx context.Context, key string, entry cachified.Entry[T]) error {
	payload, err := json.Marshal(entry.Value)
	if err != nil {
		return err
	}

	var ttlNanos *int64
	if entry.Metadata.TTL != nil {
		n := int64(*entry.Metadata.TTL)
		ttlNanos = &n
	}

	rec := record{
		Key:          key,
		Payload:      payload,
		CreatedNanos: entry.Metadata.CreatedAt.UnixNano(),
		TTLNanos:     ttlNanos,
	}

	return c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "created_nanos", "ttl_nanos"}),
	}).Create(&rec).Error
}

// Delete removes the entry for key.
func (c *Cache[T]) Delete(ctx context.Context, key string) error {
	return c.db.WithContext(ctx).Delete(&record{}, "key = ?", key).Error
}

// Clear removes all entries.
func (c *Cache[T]) Clear(ctx context.Context) error {
	return c.db.WithContext(ctx).Exec("DELETE FROM cache_entries").Error
}

// Len returns the number of stored entries.
func (c *Cache[T]) Len(ctx context.Context) (int, error) {
	var n int64
	if err := c.db.WithContext(ctx).Model(&record{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

// Compile-time interface assertion.
var _ cachified.Cache[string] = (*Cache[string])(nil)

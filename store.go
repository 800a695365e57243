package cachified

import "context"

// Cache is the storage capability the engine reads and writes through.
// Implementations must be safe for concurrent use from multiple decision
// calls and from detached background refreshes sharing the same handle.
//
// The engine performs no locking of its own and never holds an entry beyond
// a single decision cycle; the cache is the sole durable owner of entries.
type Cache[T any] interface {
	// Get retrieves the entry for key.
	// Returns the entry and true if present, a zero entry and false otherwise.
	Get(ctx context.Context, key string) (Entry[T], bool, error)

	// Set stores the entry for key, overwriting any previous entry.
	Set(ctx context.Context, key string, entry Entry[T]) error

	// Delete removes the entry for key.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Len returns the number of stored entries.
	Len(ctx context.Context) (int, error)
}

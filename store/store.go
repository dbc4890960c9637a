package store

import "context"

// Store defines the interface for visit counter backends.
//
// Counters are monotonically non-decreasing: the interface deliberately has
// no reset or decrement operation. Clearing a counter is a datastore
// administration task, not something the service does.
type Store interface {
	// Increment atomically increments the counter for the given key and
	// returns the new count. Implementations must use the backend's atomic
	// increment primitive; a fetch-then-set sequence would lose updates
	// under concurrent callers.
	Increment(ctx context.Context, key string) (current int64, err error)

	// Get returns the current counter value for the key, or 0 if the key
	// has never been incremented.
	Get(ctx context.Context, key string) (current int64, err error)

	// Ping reports whether the backend is reachable and ready to accept
	// commands. The startup gate calls this until it succeeds.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

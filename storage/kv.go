package storage

import "time"

// KVConfig contains settings specific to the display store.
type KVConfig struct {
	// How long a display ID stays readable after its last write. Expiry
	// is the only way records leave the store, so callers must set this.
	KeyTTLDuration time.Duration
}

// KeyValue exposes a common interface for performing CRUD operations on the
// display store. Keys are display IDs; values are serialized bundles.
//
// Implementations need to include connection logic in code to initialize a
// store.
type KeyValue interface {
	// Replace the value for a display ID or create a new one if it
	// doesn't exist
	Put(KVEntry) error
	// Return an entry given its key
	Read(key []byte) (KVEntry, error)
	// Cleanup performs routine deletion of old records
	Cleanup() error
	// Drain/tear down the connection, or something analogous for an
	// embedded database
	Close() error
}

// KVEntry is what we'll write to and read from the display store
type KVEntry struct {
	Key   []byte
	Value []byte
}

// Package storage provides the durable string-keyed blob store the
// engine persists through. Absence of a key is a valid state, not an
// error; callers own serialization.
package storage

import (
	"context"
	"fmt"
)

// Store is a durable key/value store for JSON blobs.
type Store interface {
	// Get returns the blob for key, or ok=false if the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set writes the blob for key and returns the previous blob, or
	// prev=nil if the key was absent before the write.
	Set(ctx context.Context, key string, value []byte) (prev []byte, err error)

	// Delete removes the key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
}

func wrap(op, key string, err error) error {
	return fmt.Errorf("storage: %s %q: %w", op, key, err)
}

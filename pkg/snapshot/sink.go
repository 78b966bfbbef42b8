// Package snapshot dumps complete registry state to durable storage.
package snapshot

import (
	"context"
	"io"
)

// Sink is a destination for serialized snapshots.
//
// Implementations: FSSink (local directory), S3Sink (S3-compatible object
// storage).
type Sink interface {
	// Put stores one snapshot body under the given key, overwriting any
	// previous object with the same key.
	Put(ctx context.Context, key string, body io.Reader) error
}

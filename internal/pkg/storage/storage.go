package storage

import (
	"context"
	"io"
)

// Storage abstracts where payment-proof screenshots live.
type Storage interface {
	// Put stores an object under key and returns nothing; the public
	// URL is derived via URL.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for a stored object.
	URL(key string) string
}

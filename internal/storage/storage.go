package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open when no artifact exists under the key.
var ErrNotFound = errors.New("storage: not found")

// ErrInvalidKey is returned for keys that would escape the storage root.
var ErrInvalidKey = errors.New("storage: invalid key")

// Storage abstracts where generated report artifacts are kept.
// LocalStorage is the only implementation; an object store can replace it.
type Storage interface {
	// Save writes the artifact under key (e.g. "reports/2026/10/<id>.pdf").
	Save(ctx context.Context, key string, data io.Reader, contentType string) error

	// Open returns a reader for the artifact. The caller must close it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the artifact. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

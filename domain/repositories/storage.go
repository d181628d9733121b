package repositories

import (
	"context"

	"github.com/satriahrh/rolespeak/server/domain/entities"
)

// ObjectStorage defines the bucket operations used by the service. Paths are
// relative to the configured bucket.
type ObjectStorage interface {
	// Upload stores data under path and returns the stored path
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	// List returns the objects directly under prefix, ordered by name
	List(ctx context.Context, prefix string) ([]entities.StoredObject, error)
	DeleteMany(ctx context.Context, paths []string) error
	// Copy duplicates an object and returns the destination path
	Copy(ctx context.Context, srcPath, dstPath string) (string, error)
}

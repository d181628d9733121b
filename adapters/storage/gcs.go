package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/satriahrh/rolespeak/server/domain"
	"github.com/satriahrh/rolespeak/server/domain/entities"
	"github.com/satriahrh/rolespeak/server/domain/repositories"
)

const gcsProvider = "gcs"

// GCSConfig holds configuration for Google Cloud Storage
type GCSConfig struct {
	Bucket string
	// CredentialsFile is optional; application default credentials are used otherwise
	CredentialsFile string
	// ClientOptions are appended after the credentials option
	ClientOptions []option.ClientOption
}

// GCSStorage implements ObjectStorage on a Google Cloud Storage bucket
type GCSStorage struct {
	client *storage.Client
	bucket string
	logger *zap.Logger
}

var _ repositories.ObjectStorage = (*GCSStorage)(nil)

// NewGCSStorage creates a GCS backend
func NewGCSStorage(ctx context.Context, config GCSConfig, logger *zap.Logger) (*GCSStorage, error) {
	if config.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	var opts []option.ClientOption
	if config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.CredentialsFile))
	}
	opts = append(opts, config.ClientOptions...)

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSStorage{
		client: client,
		bucket: config.Bucket,
		logger: logger,
	}, nil
}

// Upload implements ObjectStorage interface. Existing objects are not overwritten.
func (g *GCSStorage) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	path = strings.Trim(path, "/")
	if contentType == "" {
		contentType = contentTypeForPath(path)
	}

	w := g.client.Bucket(g.bucket).Object(path).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", gcsError(err, "upload object")
	}
	if err := w.Close(); err != nil {
		return "", gcsError(err, "upload object")
	}

	g.logger.Info("Uploaded object",
		zap.String("path", path),
		zap.Int("size", len(data)))
	return path, nil
}

// List implements ObjectStorage interface
func (g *GCSStorage) List(ctx context.Context, prefix string) ([]entities.StoredObject, error) {
	prefix = listPrefix(prefix)

	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{Prefix: prefix, Delimiter: "/"})
	objects := []entities.StoredObject{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, gcsError(err, "list objects")
		}
		if attrs.Prefix != "" {
			continue // synthetic folder
		}
		objects = append(objects, entities.StoredObject{
			Name:      strings.TrimPrefix(attrs.Name, prefix),
			Path:      attrs.Name,
			Size:      attrs.Size,
			UpdatedAt: attrs.Updated,
		})
	}
	return objects, nil
}

// DeleteMany implements ObjectStorage interface. Missing objects are ignored.
func (g *GCSStorage) DeleteMany(ctx context.Context, paths []string) error {
	for _, path := range paths {
		err := g.client.Bucket(g.bucket).Object(strings.Trim(path, "/")).Delete(ctx)
		if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			return gcsError(err, "delete objects")
		}
	}

	g.logger.Info("Deleted objects", zap.Int("count", len(paths)))
	return nil
}

// Copy implements ObjectStorage interface
func (g *GCSStorage) Copy(ctx context.Context, srcPath, dstPath string) (string, error) {
	srcPath = strings.Trim(srcPath, "/")
	dstPath = strings.Trim(dstPath, "/")

	bucket := g.client.Bucket(g.bucket)
	if _, err := bucket.Object(dstPath).CopierFrom(bucket.Object(srcPath)).Run(ctx); err != nil {
		return "", gcsError(err, "copy object")
	}
	return dstPath, nil
}

// Close releases the underlying client
func (g *GCSStorage) Close() error {
	return g.client.Close()
}

func gcsError(err error, operation string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		body := apiErr.Body
		if body == "" {
			body = apiErr.Message
		}
		return &domain.UpstreamError{
			Provider:   gcsProvider,
			Operation:  operation,
			StatusCode: apiErr.Code,
			Body:       body,
		}
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}

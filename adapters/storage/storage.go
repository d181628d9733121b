package storage

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/rolespeak/server/domain/repositories"
)

// Supported storage backends
const (
	BackendSupabase = "supabase"
	BackendGCS      = "gcs"
	BackendMemory   = "memory"
)

const defaultBucket = "roleplay"

// Config selects and configures the object storage backend
type Config struct {
	Backend            string
	Bucket             string
	SupabaseURL        string
	SupabaseKey        string
	GCSCredentialsFile string
}

// NewConfigFromEnv creates a new Config from environment variables
func NewConfigFromEnv() Config {
	return Config{
		Backend:            strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE_BACKEND"))),
		Bucket:             os.Getenv("STORAGE_BUCKET"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseKey:        os.Getenv("SUPABASE_KEY"),
		GCSCredentialsFile: os.Getenv("GCS_CREDENTIALS_FILE"),
	}
}

// New builds the configured backend. httpClient is used by the REST backends.
func New(ctx context.Context, config Config, httpClient *http.Client, logger *zap.Logger) (repositories.ObjectStorage, error) {
	bucket := config.Bucket
	if bucket == "" {
		bucket = defaultBucket
		logger.Info("Using default storage bucket", zap.String("bucket", bucket))
	}

	backend := config.Backend
	if backend == "" {
		backend = BackendSupabase
	}

	logger.Info("Initializing object storage",
		zap.String("backend", backend),
		zap.String("bucket", bucket))

	switch backend {
	case BackendSupabase:
		return NewSupabaseStorage(SupabaseConfig{
			URL:    config.SupabaseURL,
			Key:    config.SupabaseKey,
			Bucket: bucket,
		}, httpClient, logger)
	case BackendGCS:
		return NewGCSStorage(ctx, GCSConfig{
			Bucket:          bucket,
			CredentialsFile: config.GCSCredentialsFile,
		}, logger)
	case BackendMemory:
		logger.Warn("Using in-memory object storage, files are lost on restart")
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

func contentTypeForPath(path string) string {
	s := strings.ToLower(path)
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".mp3"):
		return "audio/mpeg"
	default:
		return "application/octet-stream"
	}
}

func listPrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

package storage

import (
	"context"
	"os"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestNew(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	store, err := New(ctx, Config{Backend: BackendMemory}, nil, logger)
	if err != nil {
		t.Fatalf("Failed to create memory storage: %v", err)
	}
	if _, ok := store.(*MemoryStorage); !ok {
		t.Errorf("Expected *MemoryStorage, got %T", store)
	}

	// supabase is the default backend and needs credentials
	if _, err := New(ctx, Config{}, nil, logger); err == nil {
		t.Error("Expected error for default backend without Supabase credentials")
	}

	store, err = New(ctx, Config{SupabaseURL: "https://x.supabase.co", SupabaseKey: "k"}, nil, logger)
	if err != nil {
		t.Fatalf("Failed to create Supabase storage: %v", err)
	}
	supabase, ok := store.(*SupabaseStorage)
	if !ok {
		t.Fatalf("Expected *SupabaseStorage, got %T", store)
	}
	if supabase.bucket != defaultBucket {
		t.Errorf("Expected default bucket %s, got %s", defaultBucket, supabase.bucket)
	}

	if _, err := New(ctx, Config{Backend: "s3"}, nil, logger); err == nil {
		t.Error("Expected error for unknown backend")
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", " GCS ")
	t.Setenv("STORAGE_BUCKET", "roleplay-dev")

	config := NewConfigFromEnv()
	if config.Backend != BackendGCS {
		t.Errorf("Expected backend gcs, got %q", config.Backend)
	}
	if config.Bucket != "roleplay-dev" {
		t.Errorf("Expected bucket roleplay-dev, got %q", config.Bucket)
	}
}

// Integration test - only runs if GCS_TEST_BUCKET is set and credentials are available
func TestGCSStorage_Integration(t *testing.T) {
	bucket := os.Getenv("GCS_TEST_BUCKET")
	if bucket == "" {
		t.Skip("Skipping GCS integration test - GCS_TEST_BUCKET not set")
	}

	ctx := context.Background()
	store, err := NewGCSStorage(ctx, GCSConfig{
		Bucket:          bucket,
		CredentialsFile: os.Getenv("GCS_CREDENTIALS_FILE"),
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create GCS storage: %v", err)
	}
	defer store.Close()

	prefix := "integration-test/previews"
	path, err := store.Upload(ctx, prefix+"/probe.png", []byte("png"), "")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	defer store.DeleteMany(ctx, []string{path})

	objects, err := store.List(ctx, prefix)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	found := false
	for _, object := range objects {
		if object.Path == path {
			found = true
		}
	}
	if !found {
		t.Errorf("Uploaded object %s not listed", path)
	}
}

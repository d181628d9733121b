package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/rolespeak/server/domain"
)

// fakeSupabase emulates the subset of the Storage API used by SupabaseStorage
type fakeSupabase struct {
	mu        sync.Mutex
	objects   map[string][]byte
	listCalls int
	failWith  int
}

func (f *fakeSupabase) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer service-key" || r.Header.Get("apikey") != "service-key" {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"statusCode":"401","error":"Unauthorized","message":"invalid key"}`))
		return
	}

	if f.failWith != 0 {
		w.WriteHeader(f.failWith)
		w.Write([]byte(`{"statusCode":"404","error":"Bucket not found","message":"Bucket not found"}`))
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/storage/v1/object/list/roleplay":
		f.listCalls++
		var req supabaseListRequest
		json.NewDecoder(r.Body).Decode(&req)

		var names []string
		for path := range f.objects {
			name := strings.TrimPrefix(path, req.Prefix+"/")
			if strings.HasPrefix(path, req.Prefix+"/") && !strings.Contains(name, "/") {
				names = append(names, name)
			}
		}
		sort.Strings(names)

		entries := []map[string]any{}
		for i := req.Offset; i < len(names) && i < req.Offset+req.Limit; i++ {
			entries = append(entries, map[string]any{
				"name":       names[i],
				"id":         fmt.Sprintf("id-%d", i),
				"updated_at": "2025-05-01T10:00:00Z",
				"metadata":   map[string]any{"size": len(f.objects[req.Prefix+"/"+names[i]])},
			})
		}
		json.NewEncoder(w).Encode(entries)

	case r.Method == http.MethodPost && r.URL.Path == "/storage/v1/object/copy":
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		f.objects[req["destinationKey"]] = f.objects[req["sourceKey"]]
		w.Write([]byte(`{"Key":"roleplay/` + req["destinationKey"] + `"}`))

	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/storage/v1/object/roleplay/"):
		path := strings.TrimPrefix(r.URL.Path, "/storage/v1/object/roleplay/")
		data, _ := io.ReadAll(r.Body)
		f.objects[path] = data
		w.Write([]byte(`{"Key":"roleplay/` + path + `","Id":"x"}`))

	case r.Method == http.MethodDelete && r.URL.Path == "/storage/v1/object/roleplay":
		var req struct {
			Prefixes []string `json:"prefixes"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		for _, path := range req.Prefixes {
			delete(f.objects, path)
		}
		w.Write([]byte(`[]`))

	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	}
}

func newTestSupabase(t *testing.T) (*SupabaseStorage, *fakeSupabase) {
	t.Helper()

	fake := &fakeSupabase{objects: map[string][]byte{}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	store, err := NewSupabaseStorage(SupabaseConfig{
		URL:    server.URL,
		Key:    "service-key",
		Bucket: "roleplay",
	}, server.Client(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create Supabase storage: %v", err)
	}
	return store, fake
}

func TestSupabaseStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, fake := newTestSupabase(t)

	path, err := store.Upload(ctx, "teacher-1/previews/img 1.png", []byte("png"), "image/png")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if path != "teacher-1/previews/img 1.png" {
		t.Errorf("Unexpected stored path %s", path)
	}
	if string(fake.objects["teacher-1/previews/img 1.png"]) != "png" {
		t.Errorf("Fake did not receive the upload: %v", fake.objects)
	}

	objects, err := store.List(ctx, "teacher-1/previews")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(objects) != 1 || objects[0].Path != path || objects[0].Size != 3 {
		t.Fatalf("Unexpected listing %+v", objects)
	}

	if err := store.DeleteMany(ctx, []string{objects[0].Path}); err != nil {
		t.Fatalf("DeleteMany failed: %v", err)
	}

	objects, _ = store.List(ctx, "teacher-1/previews")
	if len(objects) != 0 {
		t.Errorf("Expected empty listing after delete, got %+v", objects)
	}
}

func TestSupabaseStorage_ListPages(t *testing.T) {
	store, fake := newTestSupabase(t)
	for i := 0; i < 150; i++ {
		fake.objects[fmt.Sprintf("t/previews/%03d.png", i)] = []byte("x")
	}

	objects, err := store.List(context.Background(), "t/previews/")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(objects) != 150 {
		t.Errorf("Expected 150 objects, got %d", len(objects))
	}
	if fake.listCalls != 2 {
		t.Errorf("Expected 2 list calls, got %d", fake.listCalls)
	}
	if objects[0].Name != "000.png" || objects[149].Name != "149.png" {
		t.Errorf("Expected objects ordered by name, got %s..%s", objects[0].Name, objects[149].Name)
	}
}

func TestSupabaseStorage_Copy(t *testing.T) {
	store, fake := newTestSupabase(t)
	fake.objects["t/previews/p.png"] = []byte("png")

	dst, err := store.Copy(context.Background(), "t/previews/p.png", "t/images/p.png")
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if dst != "t/images/p.png" || string(fake.objects["t/images/p.png"]) != "png" {
		t.Errorf("Copy did not land at destination: %s %v", dst, fake.objects)
	}
}

func TestSupabaseStorage_UpstreamError(t *testing.T) {
	store, fake := newTestSupabase(t)
	fake.failWith = http.StatusNotFound

	_, err := store.List(context.Background(), "t/previews")

	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("Expected UpstreamError, got %v", err)
	}
	if upstream.Body != `{"statusCode":"404","error":"Bucket not found","message":"Bucket not found"}` {
		t.Errorf("Expected raw vendor body, got %s", upstream.Body)
	}
}

func TestValidateSupabaseConfig(t *testing.T) {
	if err := ValidateSupabaseConfig(SupabaseConfig{Key: "k", Bucket: "b"}); err == nil {
		t.Error("Expected error without URL")
	}
	if err := ValidateSupabaseConfig(SupabaseConfig{URL: "https://x.supabase.co", Bucket: "b"}); err == nil {
		t.Error("Expected error without key")
	}
}

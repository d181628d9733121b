package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/rolespeak/server/domain"
	"github.com/satriahrh/rolespeak/server/domain/entities"
	"github.com/satriahrh/rolespeak/server/domain/repositories"
)

const (
	supabaseProvider  = "supabase"
	supabaseListLimit = 100
)

// SupabaseConfig holds configuration for Supabase Storage
type SupabaseConfig struct {
	URL    string // project URL, e.g. https://xyz.supabase.co
	Key    string // service role or anon key
	Bucket string
}

// SupabaseStorage implements ObjectStorage on the Supabase Storage REST API
type SupabaseStorage struct {
	baseURL    string
	key        string
	bucket     string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ repositories.ObjectStorage = (*SupabaseStorage)(nil)

type supabaseObjectResponse struct {
	Key string `json:"Key"`
}

type supabaseListRequest struct {
	Prefix string         `json:"prefix"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
	SortBy supabaseSortBy `json:"sortBy"`
}

type supabaseSortBy struct {
	Column string `json:"column"`
	Order  string `json:"order"`
}

type supabaseListEntry struct {
	Name      string  `json:"name"`
	ID        *string `json:"id"` // nil for folders
	UpdatedAt string  `json:"updated_at"`
	Metadata  struct {
		Size int64 `json:"size"`
	} `json:"metadata"`
}

// ValidateSupabaseConfig validates the SupabaseConfig
func ValidateSupabaseConfig(config SupabaseConfig) error {
	if config.URL == "" {
		return fmt.Errorf("supabase URL is required")
	}
	if _, err := url.ParseRequestURI(config.URL); err != nil {
		return fmt.Errorf("invalid supabase URL %q: %w", config.URL, err)
	}
	if config.Key == "" {
		return fmt.Errorf("supabase key is required")
	}
	if config.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	return nil
}

// NewSupabaseStorage creates a Supabase Storage backend
func NewSupabaseStorage(config SupabaseConfig, httpClient *http.Client, logger *zap.Logger) (*SupabaseStorage, error) {
	if err := ValidateSupabaseConfig(config); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &SupabaseStorage{
		baseURL:    strings.TrimRight(config.URL, "/") + "/storage/v1",
		key:        config.Key,
		bucket:     config.Bucket,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Upload implements ObjectStorage interface
func (s *SupabaseStorage) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	path = strings.Trim(path, "/")
	if contentType == "" {
		contentType = contentTypeForPath(path)
	}

	req, err := s.newRequest(ctx, http.MethodPost, "/object/"+escapePath(s.bucket)+"/"+escapePath(path), bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	var resp supabaseObjectResponse
	if err := s.do(req, &resp, "upload object"); err != nil {
		return "", err
	}

	s.logger.Info("Uploaded object",
		zap.String("path", path),
		zap.Int("size", len(data)))
	return path, nil
}

// List implements ObjectStorage interface; pages until a short page is returned
func (s *SupabaseStorage) List(ctx context.Context, prefix string) ([]entities.StoredObject, error) {
	folder := strings.Trim(prefix, "/")
	objects := []entities.StoredObject{}

	for offset := 0; ; offset += supabaseListLimit {
		var entries []supabaseListEntry
		err := s.doJSON(ctx, http.MethodPost, "/object/list/"+escapePath(s.bucket), supabaseListRequest{
			Prefix: folder,
			Limit:  supabaseListLimit,
			Offset: offset,
			SortBy: supabaseSortBy{Column: "name", Order: "asc"},
		}, &entries, "list objects")
		if err != nil {
			return nil, err
		}

		for _, entry := range entries {
			if entry.ID == nil {
				continue // folder placeholder
			}
			updatedAt, _ := time.Parse(time.RFC3339, entry.UpdatedAt)
			objects = append(objects, entities.StoredObject{
				Name:      entry.Name,
				Path:      listPrefix(folder) + entry.Name,
				Size:      entry.Metadata.Size,
				UpdatedAt: updatedAt,
			})
		}

		if len(entries) < supabaseListLimit {
			break
		}
	}

	return objects, nil
}

// DeleteMany implements ObjectStorage interface
func (s *SupabaseStorage) DeleteMany(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	body := map[string][]string{"prefixes": paths}
	if err := s.doJSON(ctx, http.MethodDelete, "/object/"+escapePath(s.bucket), body, nil, "delete objects"); err != nil {
		return err
	}

	s.logger.Info("Deleted objects", zap.Int("count", len(paths)))
	return nil
}

// Copy implements ObjectStorage interface
func (s *SupabaseStorage) Copy(ctx context.Context, srcPath, dstPath string) (string, error) {
	body := map[string]string{
		"bucketId":       s.bucket,
		"sourceKey":      strings.Trim(srcPath, "/"),
		"destinationKey": strings.Trim(dstPath, "/"),
	}
	if err := s.doJSON(ctx, http.MethodPost, "/object/copy", body, nil, "copy object"); err != nil {
		return "", err
	}
	return strings.Trim(dstPath, "/"), nil
}

func (s *SupabaseStorage) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("apikey", s.key)
	return req, nil
}

func (s *SupabaseStorage) doJSON(ctx context.Context, method, path string, body, out any, operation string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := s.newRequest(ctx, method, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return s.do(req, out, operation)
}

func (s *SupabaseStorage) do(req *http.Request, out any, operation string) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(resp.Body)
		s.logger.Error("Supabase Storage returned error",
			zap.String("operation", operation),
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", string(errorBody)))
		return &domain.UpstreamError{
			Provider:   supabaseProvider,
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       string(errorBody),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return nil
}

func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

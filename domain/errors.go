package domain

import (
	"errors"
	"fmt"
)

// ErrGenerationIncomplete is returned when the model response lacks the opening
// line or the preview image.
var ErrGenerationIncomplete = errors.New("failed to generate roleplay image")

// ErrInvalidInput marks arguments rejected before any upstream call is made.
var ErrInvalidInput = errors.New("invalid input")

// UpstreamError represents a non-success answer from a third-party API
type UpstreamError struct {
	Provider   string // "gemini", "elevenlabs", "supabase", "gcs"
	Operation  string // human readable, e.g. "create roleplay agent"
	StatusCode int
	Body       string // raw vendor error body
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("failed to %s: %s", e.Operation, e.Body)
}

// StorageError wraps failures of bulk storage operations such as deleting previews
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

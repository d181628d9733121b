package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestUpstreamError_Message(t *testing.T) {
	err := &UpstreamError{
		Provider:   "elevenlabs",
		Operation:  "get conversation",
		StatusCode: 404,
		Body:       `{"detail":"not found"}`,
	}

	want := `failed to get conversation: {"detail":"not found"}`
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}

	wrapped := fmt.Errorf("list runs: %w", err)
	var upstream *UpstreamError
	if !errors.As(wrapped, &upstream) {
		t.Fatal("Expected wrapped error to unwrap to UpstreamError")
	}
	if upstream.StatusCode != 404 {
		t.Errorf("Expected status 404, got %d", upstream.StatusCode)
	}
}

func TestStorageError_Unwrap(t *testing.T) {
	cause := errors.New("bucket not found")
	err := &StorageError{Op: "delete previews", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("StorageError should unwrap to its cause")
	}

	if err.Error() != "failed to delete previews: bucket not found" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
}

package llm

import (
	"context"
	"testing"
)

func TestMockGeminiClient_RecordPrompts(t *testing.T) {
	mock := NewMockGeminiClient()

	for i := 0; i < 3; i++ {
		if _, err := mock.GenerateText(context.Background(), "describe"); err != nil {
			t.Fatalf("GenerateText failed: %v", err)
		}
	}
	if len(mock.Prompts) != 0 {
		t.Errorf("Expected no prompts kept by default, got %d", len(mock.Prompts))
	}

	mock.RecordPrompts = true
	if _, err := mock.GenerateText(context.Background(), "describe"); err != nil {
		t.Fatalf("GenerateText failed: %v", err)
	}
	if _, err := mock.GenerateTextAndImage(context.Background(), "draw"); err != nil {
		t.Fatalf("GenerateTextAndImage failed: %v", err)
	}
	if len(mock.Prompts) != 2 || mock.Prompts[0] != "describe" || mock.Prompts[1] != "draw" {
		t.Errorf("Expected recorded prompts [describe draw], got %v", mock.Prompts)
	}
}

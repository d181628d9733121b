package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/rolespeak/server/domain"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiLLM {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gemini, err := NewGeminiLLM(context.Background(), GeminiConfig{
		APIKey:     "test-api-key",
		APIBaseURL: server.URL + "/",
	}, server.Client(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create Gemini client: %v", err)
	}
	return gemini
}

func TestNewGeminiConfigFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	config := NewGeminiConfigFromEnv()
	if config.APIKey != "google-key" {
		t.Errorf("Expected fallback to GOOGLE_API_KEY, got '%s'", config.APIKey)
	}

	if err := ValidateGeminiConfig(GeminiConfig{}); err == nil {
		t.Error("Expected error when API key is not set")
	}
}

func TestGeminiLLM_GenerateTextAndImage(t *testing.T) {
	image := PlaceholderPNG()
	var requested map[string]any

	gemini := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, defaultImageModel+":generateContent") {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&requested)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[
			{"text":"<question>Что вы хотите заказать?</question>"},
			{"inlineData":{"mimeType":"image/png","data":"` + base64.StdEncoding.EncodeToString(image) + `"}}
		]}}]}`))
	})

	parts, err := gemini.GenerateTextAndImage(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("GenerateTextAndImage failed: %v", err)
	}

	if len(parts) != 2 {
		t.Fatalf("Expected 2 parts, got %d", len(parts))
	}
	if parts[0].Text != "<question>Что вы хотите заказать?</question>" || parts[0].IsBinary() {
		t.Errorf("Unexpected text part %+v", parts[0])
	}
	if !parts[1].IsBinary() || parts[1].MIMEType != "image/png" || string(parts[1].Data) != string(image) {
		t.Errorf("Unexpected image part mime=%s len=%d", parts[1].MIMEType, len(parts[1].Data))
	}

	generationConfig, _ := requested["generationConfig"].(map[string]any)
	modalities, _ := generationConfig["responseModalities"].([]any)
	if len(modalities) != 2 {
		t.Errorf("Expected TEXT and IMAGE modalities, got %v", generationConfig)
	}
}

func TestGeminiLLM_GenerateText(t *testing.T) {
	gemini := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, defaultTextModel+":generateContent") {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"A quiet café. "},{"text":"The student orders."}]}}]}`))
	})

	text, err := gemini.GenerateText(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("GenerateText failed: %v", err)
	}
	if text != "A quiet café. The student orders." {
		t.Errorf("Unexpected text %q", text)
	}
}

func TestGeminiLLM_UpstreamError(t *testing.T) {
	gemini := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT","details":[{"@type":"type.googleapis.com/google.rpc.ErrorInfo","reason":"API_KEY_INVALID"}]}}`))
	})

	_, err := gemini.GenerateText(context.Background(), "prompt")

	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("Expected UpstreamError, got %v", err)
	}
	if upstream.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", upstream.StatusCode)
	}
	for _, want := range []string{"API key not valid", "INVALID_ARGUMENT", "API_KEY_INVALID"} {
		if !strings.Contains(upstream.Body, want) {
			t.Errorf("Expected %q in body, got %q", want, upstream.Body)
		}
	}
}

// Integration test - only runs if GEMINI_API_KEY is set
func TestGeminiLLM_Integration(t *testing.T) {
	if os.Getenv("GEMINI_API_KEY") == "" {
		t.Skip("Skipping integration test - set GEMINI_API_KEY environment variable")
	}

	gemini, err := NewGeminiLLM(context.Background(), NewGeminiConfigFromEnv(), nil, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create Gemini client: %v", err)
	}

	text, err := gemini.GenerateText(context.Background(), "Reply with the single word: ready")
	if err != nil {
		t.Fatalf("GenerateText failed: %v", err)
	}
	if strings.TrimSpace(text) == "" {
		t.Error("Expected non-empty text")
	}
}

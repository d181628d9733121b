package elevenlabs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/rolespeak/server/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ElevenLabsConfig{
		APIKey:     "test-api-key",
		APIBaseURL: server.URL,
	}, server.Client(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create ElevenLabs client: %v", err)
	}
	return client, server
}

func TestNewClient(t *testing.T) {
	logger := zaptest.NewLogger(t)

	// Test without API key
	os.Unsetenv("ELEVEN_LABS_API_KEY")
	config := NewElevenLabsConfigFromEnv()
	_, err := NewClient(config, nil, logger)
	if err == nil {
		t.Error("Expected error when API key is not set")
	}

	// Test with API key
	t.Setenv("ELEVEN_LABS_API_KEY", "test-api-key")
	t.Setenv("ELEVEN_LABS_AGENT_TEMPERATURE", "0.6")

	config = NewElevenLabsConfigFromEnv()
	client, err := NewClient(config, nil, logger)
	if err != nil {
		t.Fatalf("Failed to create ElevenLabs client: %v", err)
	}

	if client.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", client.apiKey)
	}

	if client.apiBaseURL != defaultAPIBaseURL {
		t.Errorf("Expected default base URL '%s', got '%s'", defaultAPIBaseURL, client.apiBaseURL)
	}

	if client.agentTemperature != 0.6 {
		t.Errorf("Expected agent temperature 0.6, got %f", client.agentTemperature)
	}

	if client.Voices().DefaultVoiceID != VoiceArcher {
		t.Errorf("Expected default voice '%s', got '%s'", VoiceArcher, client.Voices().DefaultVoiceID)
	}
}

func TestValidateElevenLabsConfig(t *testing.T) {
	if err := ValidateElevenLabsConfig(ElevenLabsConfig{APIKey: "k", AgentTemperature: 1.5}); err == nil {
		t.Error("Expected error for temperature above 1")
	}

	if err := ValidateElevenLabsConfig(ElevenLabsConfig{APIKey: "k", APIBaseURL: "not a url"}); err == nil {
		t.Error("Expected error for invalid base URL")
	}
}

func TestClient_UpstreamErrorKeepsBody(t *testing.T) {
	const body = `{"detail":{"status":"invalid_api_key","message":"Invalid API key"}}`

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(body))
	})

	calls := map[string]func() error{
		"get agent": func() error {
			_, err := client.GetAgent(context.Background(), "agent-1")
			return err
		},
		"delete agent": func() error {
			return client.DeleteAgent(context.Background(), "agent-1")
		},
		"list conversations": func() error {
			_, err := client.ListConversations(context.Background(), "agent-1")
			return err
		},
		"get conversation": func() error {
			_, err := client.GetConversation(context.Background(), "conv-1")
			return err
		},
		"get conversation audio": func() error {
			_, err := client.GetConversationAudio(context.Background(), "conv-1")
			return err
		},
		"synthesize": func() error {
			_, err := client.Synthesize(context.Background(), "hello", "voice-1", 0)
			return err
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()

			var upstream *domain.UpstreamError
			if !errors.As(err, &upstream) {
				t.Fatalf("Expected UpstreamError, got %v", err)
			}
			if upstream.Body != body {
				t.Errorf("Expected body %s, got %s", body, upstream.Body)
			}
			if upstream.StatusCode != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", upstream.StatusCode)
			}
			if upstream.Provider != "elevenlabs" {
				t.Errorf("Expected provider elevenlabs, got %s", upstream.Provider)
			}
		})
	}
}

func TestClient_RejectsEmptyIDs(t *testing.T) {
	client, err := NewClient(ElevenLabsConfig{APIKey: "k"}, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	ctx := context.Background()
	if _, err := client.GetAgent(ctx, " "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if err := client.DeleteAgent(ctx, ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if _, err := client.Synthesize(ctx, "   ", "voice", 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for whitespace-only text, got %v", err)
	}
}

package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/rolespeak/server/domain"
	"github.com/satriahrh/rolespeak/server/domain/entities"
	"github.com/satriahrh/rolespeak/server/domain/repositories"
)

const (
	providerName            = "elevenlabs"
	defaultAPIBaseURL       = "https://api.elevenlabs.io/v1"
	defaultTTSModelID       = "eleven_flash_v2_5" // low latency, multilingual
	defaultAgentLLM         = "gemini-2.5-flash"
	defaultAgentTemperature = 0.3
	defaultOutputFormat     = "mp3_44100_128"
)

// ElevenLabsConfig holds configuration for the ElevenLabs client
// Required fields:
// - APIKey: Your ElevenLabs API key
// Optional fields with defaults:
// - APIBaseURL: The base URL for the API (default: "https://api.elevenlabs.io/v1")
// - TTSModelID: Speech model used by agents and previews (default: "eleven_flash_v2_5")
// - AgentLLM: Model driving the agent conversation (default: "gemini-2.5-flash")
// - AgentTemperature: Sampling temperature of the agent LLM (default: 0.3)
// - DefaultVoiceID: Voice used for unmapped languages (default: Archer)
// - OutputFormat: Audio format for speech previews (default: "mp3_44100_128")
type ElevenLabsConfig struct {
	APIKey           string
	APIBaseURL       string
	TTSModelID       string
	AgentLLM         string
	AgentTemperature float64
	DefaultVoiceID   string
	OutputFormat     string
}

// Client talks to the ElevenLabs conversational AI and text-to-speech APIs
type Client struct {
	apiKey           string
	apiBaseURL       string
	ttsModelID       string
	agentLLM         string
	agentTemperature float64
	outputFormat     string
	voices           entities.VoiceTable
	httpClient       *http.Client
	logger           *zap.Logger
}

// Ensure Client implements the repository interfaces
var (
	_ repositories.VoiceAgentClient = (*Client)(nil)
	_ repositories.TextToSpeech     = (*Client)(nil)
)

// ValidateElevenLabsConfig validates the ElevenLabsConfig
func ValidateElevenLabsConfig(config ElevenLabsConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("eleven labs API key is required")
	}

	if config.AgentTemperature < 0 || config.AgentTemperature > 1 {
		return fmt.Errorf("agent temperature must be between 0 and 1, got %f", config.AgentTemperature)
	}

	if config.APIBaseURL != "" {
		if _, err := url.ParseRequestURI(config.APIBaseURL); err != nil {
			return fmt.Errorf("invalid API base URL %q: %w", config.APIBaseURL, err)
		}
	}

	return nil
}

// NewClient creates a new ElevenLabs client. A nil httpClient falls back to
// http.DefaultClient.
func NewClient(config ElevenLabsConfig, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	if err := ValidateElevenLabsConfig(config); err != nil {
		return nil, err
	}

	apiBaseURL := strings.TrimRight(config.APIBaseURL, "/")
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
		logger.Info("Using default API base URL", zap.String("apiBaseURL", apiBaseURL))
	}

	ttsModelID := config.TTSModelID
	if ttsModelID == "" {
		ttsModelID = defaultTTSModelID
		logger.Info("Using default TTS model ID", zap.String("ttsModelID", ttsModelID))
	}

	agentLLM := config.AgentLLM
	if agentLLM == "" {
		agentLLM = defaultAgentLLM
		logger.Info("Using default agent LLM", zap.String("agentLLM", agentLLM))
	}

	temperature := config.AgentTemperature
	if temperature == 0 {
		temperature = defaultAgentTemperature
	}

	outputFormat := config.OutputFormat
	if outputFormat == "" {
		outputFormat = defaultOutputFormat
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		apiKey:           config.APIKey,
		apiBaseURL:       apiBaseURL,
		ttsModelID:       ttsModelID,
		agentLLM:         agentLLM,
		agentTemperature: temperature,
		outputFormat:     outputFormat,
		voices:           DefaultVoiceTable(config.DefaultVoiceID),
		httpClient:       httpClient,
		logger:           logger,
	}, nil
}

// NewElevenLabsConfigFromEnv creates a new ElevenLabsConfig from environment variables
func NewElevenLabsConfigFromEnv() ElevenLabsConfig {
	config := ElevenLabsConfig{
		APIKey:         os.Getenv("ELEVEN_LABS_API_KEY"),
		APIBaseURL:     os.Getenv("ELEVEN_LABS_API_BASE_URL"),
		TTSModelID:     os.Getenv("ELEVEN_LABS_TTS_MODEL_ID"),
		AgentLLM:       os.Getenv("ELEVEN_LABS_AGENT_LLM"),
		DefaultVoiceID: os.Getenv("ELEVEN_LABS_DEFAULT_VOICE_ID"),
		OutputFormat:   os.Getenv("ELEVEN_LABS_OUTPUT_FORMAT"),
	}

	if temperatureStr := os.Getenv("ELEVEN_LABS_AGENT_TEMPERATURE"); temperatureStr != "" {
		if temperature, err := strconv.ParseFloat(temperatureStr, 64); err == nil && temperature >= 0 && temperature <= 1 {
			config.AgentTemperature = temperature
		}
	}

	return config
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.apiBaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("xi-api-key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// send executes req and turns any non-2xx answer into a domain.UpstreamError.
// On success the caller owns the response body.
func (c *Client) send(req *http.Request, operation string) (*http.Response, error) {
	c.logger.Debug("Sending request to ElevenLabs API",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		errorBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("ElevenLabs API returned error",
			zap.String("operation", operation),
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", string(errorBody)))
		return nil, &domain.UpstreamError{
			Provider:   providerName,
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       string(errorBody),
		}
	}

	return resp, nil
}

// doJSON runs a request and decodes the JSON answer into out when out is not nil
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any, operation string) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	resp, err := c.send(req, operation)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return nil
}

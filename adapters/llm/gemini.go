package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/satriahrh/rolespeak/server/domain"
	"github.com/satriahrh/rolespeak/server/domain/repositories"
)

const (
	providerName      = "gemini"
	defaultTextModel  = "gemini-2.5-flash"
	defaultImageModel = "gemini-2.0-flash-preview-image-generation"
)

// GeminiConfig holds configuration for the Gemini adapter
// Required fields:
// - APIKey: Google AI API key
// Optional fields with defaults:
// - TextModel: model used for plain text generation (default: "gemini-2.5-flash")
// - ImageModel: model able to answer with text and images (default: "gemini-2.0-flash-preview-image-generation")
// - Temperature: sampling temperature, zero leaves the model default
// - APIBaseURL: endpoint override, used by tests and proxies
type GeminiConfig struct {
	APIKey      string
	TextModel   string
	ImageModel  string
	Temperature float32
	APIBaseURL  string
}

// GeminiLLM implements the ContentGenerator interface using Google's Gemini API
type GeminiLLM struct {
	client      *genai.Client
	logger      *zap.Logger
	textModel   string
	imageModel  string
	temperature float32
}

var _ repositories.ContentGenerator = (*GeminiLLM)(nil)

// ValidateGeminiConfig validates the GeminiConfig
func ValidateGeminiConfig(config GeminiConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("Google AI API key is required")
	}

	if config.Temperature < 0 || config.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %f", config.Temperature)
	}

	return nil
}

// NewGeminiConfigFromEnv reads GEMINI_API_KEY, falling back to GOOGLE_API_KEY
func NewGeminiConfigFromEnv() GeminiConfig {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}

	return GeminiConfig{
		APIKey:     apiKey,
		TextModel:  os.Getenv("GEMINI_TEXT_MODEL"),
		ImageModel: os.Getenv("GEMINI_IMAGE_MODEL"),
		APIBaseURL: os.Getenv("GEMINI_API_BASE_URL"),
	}
}

// NewGeminiLLM creates a new Gemini LLM instance. A nil httpClient lets the SDK
// pick its default.
func NewGeminiLLM(ctx context.Context, config GeminiConfig, httpClient *http.Client, logger *zap.Logger) (*GeminiLLM, error) {
	if err := ValidateGeminiConfig(config); err != nil {
		return nil, err
	}

	textModel := config.TextModel
	if textModel == "" {
		textModel = defaultTextModel
		logger.Info("Using default text model", zap.String("model", textModel))
	}

	imageModel := config.ImageModel
	if imageModel == "" {
		imageModel = defaultImageModel
		logger.Info("Using default image model", zap.String("model", imageModel))
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if config.APIBaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.APIBaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiLLM{
		client:      client,
		logger:      logger,
		textModel:   textModel,
		imageModel:  imageModel,
		temperature: config.Temperature,
	}, nil
}

func (g *GeminiLLM) generateConfig() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if g.temperature > 0 {
		config.Temperature = genai.Ptr(g.temperature)
	}
	return config
}

// GenerateText returns the concatenated text parts of the first candidate
func (g *GeminiLLM) GenerateText(ctx context.Context, prompt string) (string, error) {
	parts, err := g.generate(ctx, g.textModel, prompt, g.generateConfig(), "generate roleplay description")
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, part := range parts {
		text.WriteString(part.Text)
	}
	return text.String(), nil
}

// GenerateTextAndImage asks the image model for interleaved text and image parts
func (g *GeminiLLM) GenerateTextAndImage(ctx context.Context, prompt string) ([]repositories.ContentPart, error) {
	config := g.generateConfig()
	config.ResponseModalities = []string{"TEXT", "IMAGE"}

	return g.generate(ctx, g.imageModel, prompt, config, "generate roleplay image")
}

func (g *GeminiLLM) generate(ctx context.Context, model, prompt string, config *genai.GenerateContentConfig, operation string) ([]repositories.ContentPart, error) {
	g.logger.Debug("Sending prompt to Gemini",
		zap.String("model", model),
		zap.Int("promptLength", len(prompt)))

	response, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		g.logger.Error("Gemini request failed", zap.String("model", model), zap.Error(err))
		return nil, toUpstreamError(err, operation)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		g.logger.Warn("No content generated", zap.String("model", model))
		return nil, nil
	}

	var parts []repositories.ContentPart
	for _, part := range response.Candidates[0].Content.Parts {
		switch {
		case part == nil || part.Thought:
			continue
		case part.InlineData != nil && len(part.InlineData.Data) > 0:
			parts = append(parts, repositories.ContentPart{
				Data:     part.InlineData.Data,
				MIMEType: part.InlineData.MIMEType,
			})
		case part.Text != "":
			parts = append(parts, repositories.ContentPart{Text: part.Text})
		}
	}

	g.logger.Info("Gemini content generated",
		zap.String("model", model),
		zap.Int("parts", len(parts)))
	return parts, nil
}

// toUpstreamError maps SDK API errors to domain.UpstreamError; transport
// errors are wrapped unchanged
func toUpstreamError(err error, operation string) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &domain.UpstreamError{Provider: providerName, Operation: operation, StatusCode: apiErr.Code, Body: apiErrorBody(apiErr)}
	}

	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &domain.UpstreamError{Provider: providerName, Operation: operation, StatusCode: apiErrPtr.Code, Body: apiErrorBody(*apiErrPtr)}
	}

	return fmt.Errorf("failed to %s: %w", operation, err)
}

// apiErrorBody rebuilds the vendor error envelope, keeping status and details
func apiErrorBody(apiErr genai.APIError) string {
	body, err := json.Marshal(map[string]genai.APIError{"error": apiErr})
	if err != nil {
		return apiErr.Message
	}
	return string(body)
}

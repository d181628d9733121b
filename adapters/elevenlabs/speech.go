package elevenlabs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/rolespeak/server/domain"
)

// VoiceSettings represents voice settings for the text-to-speech API
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Speed           float64 `json:"speed,omitempty"`
}

// SpeechRequest represents the request payload for the text-to-speech API
type SpeechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// Synthesize streams text spoken by voiceID. A zero speed keeps the voice default.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string, speed float64) (io.ReadCloser, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text cannot be empty", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(voiceID) == "" {
		return nil, fmt.Errorf("%w: voice id is required", domain.ErrInvalidInput)
	}

	c.logger.Info("Converting text to speech",
		zap.Int("textLength", len(text)),
		zap.String("voiceID", voiceID),
		zap.String("modelID", c.ttsModelID))

	query := url.Values{}
	query.Set("output_format", c.outputFormat)
	query.Set("enable_logging", "false")

	req, err := c.newRequest(ctx, http.MethodPost, "/text-to-speech/"+url.PathEscape(voiceID)+"/stream", query, SpeechRequest{
		Text:    text,
		ModelID: c.ttsModelID,
		VoiceSettings: VoiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
			Speed:           speed,
		},
	})
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.send(req, "convert text to speech")
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

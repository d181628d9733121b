package elevenlabs

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/rolespeak/server/domain"
	"github.com/satriahrh/rolespeak/server/domain/entities"
)

const agentPromptTemplate = `You are a roleplay agent for a language learning roleplay.
The roleplay is about %s.
The scenario is:
%s
`

// client events the browser widget needs to render a live roleplay
var agentClientEvents = []string{"audio", "interruption", "user_transcript", "agent_response"}

type agentPrompt struct {
	Prompt      string  `json:"prompt"`
	LLM         string  `json:"llm"`
	Temperature float64 `json:"temperature"`
}

type agentSettings struct {
	FirstMessage string      `json:"first_message"`
	Language     string      `json:"language"`
	Prompt       agentPrompt `json:"prompt"`
}

type agentTTS struct {
	ModelID string `json:"model_id"`
	VoiceID string `json:"voice_id"`
}

type agentConversation struct {
	ClientEvents []string `json:"client_events"`
}

type conversationConfig struct {
	Agent        agentSettings     `json:"agent"`
	TTS          agentTTS          `json:"tts"`
	Conversation agentConversation `json:"conversation"`
}

// CreateAgentRequest represents the payload for the agent creation endpoint
type CreateAgentRequest struct {
	Name               string             `json:"name"`
	Tags               []string           `json:"tags"`
	ConversationConfig conversationConfig `json:"conversation_config"`
}

type createAgentResponse struct {
	AgentID string `json:"agent_id"`
}

// BuildCreateAgentRequest composes the vendor payload for a template agent
func (c *Client) BuildCreateAgentRequest(spec entities.AgentSpec) CreateAgentRequest {
	return CreateAgentRequest{
		Name: spec.Name,
		Tags: []string{"roleplay", "base"},
		ConversationConfig: conversationConfig{
			Agent: agentSettings{
				FirstMessage: spec.FirstPrompt,
				Language:     strings.ToLower(spec.LanguageCode),
				Prompt: agentPrompt{
					Prompt:      fmt.Sprintf(agentPromptTemplate, spec.ScenarioName, spec.ScenarioText),
					LLM:         c.agentLLM,
					Temperature: c.agentTemperature,
				},
			},
			TTS: agentTTS{
				ModelID: c.ttsModelID,
				VoiceID: spec.VoiceID,
			},
			Conversation: agentConversation{
				ClientEvents: agentClientEvents,
			},
		},
	}
}

// CreateAgent creates a template roleplay agent and returns its id
func (c *Client) CreateAgent(ctx context.Context, spec entities.AgentSpec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	var resp createAgentResponse
	err := c.doJSON(ctx, http.MethodPost, "/convai/agents/create", nil,
		c.BuildCreateAgentRequest(spec), &resp, "create roleplay agent")
	if err != nil {
		return "", err
	}

	c.logger.Info("Created roleplay agent",
		zap.String("agentID", resp.AgentID),
		zap.String("language", spec.LanguageCode),
		zap.String("voiceID", spec.VoiceID))
	return resp.AgentID, nil
}

// GetAgent fetches the full configuration of an agent
func (c *Client) GetAgent(ctx context.Context, agentID string) (entities.AgentConfig, error) {
	if strings.TrimSpace(agentID) == "" {
		return nil, fmt.Errorf("%w: agent id is required", domain.ErrInvalidInput)
	}

	var config entities.AgentConfig
	err := c.doJSON(ctx, http.MethodGet, "/convai/agents/"+url.PathEscape(agentID), nil,
		nil, &config, "get roleplay agent")
	if err != nil {
		return nil, err
	}
	return config, nil
}

// CreateAgentRun re-submits a template configuration as a new agent with the
// given speech speed
func (c *Client) CreateAgentRun(ctx context.Context, config entities.AgentConfig, speed float64) (string, error) {
	if config == nil {
		return "", fmt.Errorf("%w: agent configuration is required", domain.ErrInvalidInput)
	}

	var resp createAgentResponse
	err := c.doJSON(ctx, http.MethodPost, "/convai/agents/create", nil,
		config.AsRun(speed), &resp, "create roleplay agent run")
	if err != nil {
		return "", err
	}

	c.logger.Info("Created roleplay agent run",
		zap.String("runID", resp.AgentID),
		zap.String("template", config.Name()),
		zap.Float64("speed", speed))
	return resp.AgentID, nil
}

// DeleteAgent deletes an agent or a run
func (c *Client) DeleteAgent(ctx context.Context, agentID string) error {
	if strings.TrimSpace(agentID) == "" {
		return fmt.Errorf("%w: agent id is required", domain.ErrInvalidInput)
	}

	err := c.doJSON(ctx, http.MethodDelete, "/convai/agents/"+url.PathEscape(agentID), nil,
		nil, nil, "delete roleplay agent")
	if err != nil {
		return err
	}

	c.logger.Info("Deleted roleplay agent", zap.String("agentID", agentID))
	return nil
}

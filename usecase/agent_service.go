package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/rolespeak/server/domain"
	"github.com/satriahrh/rolespeak/server/domain/entities"
	"github.com/satriahrh/rolespeak/server/domain/repositories"
)

// CreateAgentInput holds the roleplay data a template agent is built from
type CreateAgentInput struct {
	RoleplayName     string
	RoleplayScenario string
	LanguageCode     string
	FirstPrompt      string
}

// AgentService manages template agents, their runs and the recorded conversations
type AgentService struct {
	agents repositories.VoiceAgentClient
	speech repositories.TextToSpeech
	voices entities.VoiceTable
	logger *zap.Logger
}

// NewAgentService creates a new agent service
func NewAgentService(agents repositories.VoiceAgentClient, speech repositories.TextToSpeech, voices entities.VoiceTable, logger *zap.Logger) *AgentService {
	return &AgentService{
		agents: agents,
		speech: speech,
		voices: voices,
		logger: logger,
	}
}

// SelectVoice picks the voice for a language, falling back to the default voice
func (s *AgentService) SelectVoice(languageCode string) string {
	voiceID, matched := s.voices.Lookup(languageCode)
	if !matched {
		s.logger.Warn("No voice configured for language, using default",
			zap.String("language_code", languageCode),
			zap.String("voice_id", voiceID))
	}
	return voiceID
}

// CreateRoleplayAgent creates the template agent of a roleplay
func (s *AgentService) CreateRoleplayAgent(ctx context.Context, input CreateAgentInput) (string, error) {
	spec := entities.AgentSpec{
		Name:         input.RoleplayName,
		FirstPrompt:  input.FirstPrompt,
		LanguageCode: input.LanguageCode,
		ScenarioName: input.RoleplayName,
		ScenarioText: input.RoleplayScenario,
		VoiceID:      s.SelectVoice(input.LanguageCode),
	}
	if err := spec.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	agentID, err := s.agents.CreateAgent(ctx, spec)
	if err != nil {
		return "", err
	}

	s.logger.Info("Created roleplay agent",
		zap.String("agent_id", agentID),
		zap.String("language_code", spec.LanguageCode),
		zap.String("voice_id", spec.VoiceID))
	return agentID, nil
}

// StartRun clones the template agent into a disposable run with the given speed
func (s *AgentService) StartRun(ctx context.Context, agentID string, speed float64) (string, error) {
	if strings.TrimSpace(agentID) == "" {
		return "", fmt.Errorf("%w: agent id is required", domain.ErrInvalidInput)
	}
	if err := entities.ValidateRunSpeed(speed); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	config, err := s.agents.GetAgent(ctx, agentID)
	if err != nil {
		return "", err
	}

	runID, err := s.agents.CreateAgentRun(ctx, config, speed)
	if err != nil {
		return "", err
	}

	s.logger.Info("Started agent run",
		zap.String("agent_id", agentID),
		zap.String("run_id", runID),
		zap.Float64("speed", speed))
	return runID, nil
}

// EndRun deletes a run agent
func (s *AgentService) EndRun(ctx context.Context, runID string) error {
	if strings.TrimSpace(runID) == "" {
		return fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}

	if err := s.agents.DeleteAgent(ctx, runID); err != nil {
		return err
	}

	s.logger.Info("Ended agent run", zap.String("run_id", runID))
	return nil
}

// ListRunConversations returns every conversation recorded for a run
func (s *AgentService) ListRunConversations(ctx context.Context, runID string) ([]entities.ConversationSummary, error) {
	if strings.TrimSpace(runID) == "" {
		return nil, fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}

	conversations, err := s.agents.ListConversations(ctx, runID)
	if err != nil {
		return nil, err
	}
	if conversations == nil {
		conversations = []entities.ConversationSummary{}
	}
	return conversations, nil
}

func (s *AgentService) GetConversation(ctx context.Context, conversationID string) (*entities.ConversationDetail, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, fmt.Errorf("%w: conversation id is required", domain.ErrInvalidInput)
	}
	return s.agents.GetConversation(ctx, conversationID)
}

// GetConversationAudio streams the recording. The caller closes the reader.
func (s *AgentService) GetConversationAudio(ctx context.Context, conversationID string) (io.ReadCloser, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, fmt.Errorf("%w: conversation id is required", domain.ErrInvalidInput)
	}
	return s.agents.GetConversationAudio(ctx, conversationID)
}

// PreviewSpeech speaks text with the voice the language's agents would use
func (s *AgentService) PreviewSpeech(ctx context.Context, text, languageCode string, speed float64) (io.ReadCloser, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", domain.ErrInvalidInput)
	}
	if speed == 0 {
		speed = 1.0
	}
	if err := entities.ValidateRunSpeed(speed); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	return s.speech.Synthesize(ctx, text, s.SelectVoice(languageCode), speed)
}

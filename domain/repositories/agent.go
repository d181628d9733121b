package repositories

import (
	"context"
	"io"

	"github.com/satriahrh/rolespeak/server/domain/entities"
)

// VoiceAgentClient abstracts the conversational voice agent vendor
type VoiceAgentClient interface {
	CreateAgent(ctx context.Context, spec entities.AgentSpec) (string, error)
	GetAgent(ctx context.Context, agentID string) (entities.AgentConfig, error)
	// CreateAgentRun clones a fetched agent configuration into a new agent
	CreateAgentRun(ctx context.Context, config entities.AgentConfig, speed float64) (string, error)
	DeleteAgent(ctx context.Context, agentID string) error

	// ListConversations returns every conversation of the agent, oldest page first
	ListConversations(ctx context.Context, agentID string) ([]entities.ConversationSummary, error)
	GetConversation(ctx context.Context, conversationID string) (*entities.ConversationDetail, error)
	// GetConversationAudio streams the recording. The caller closes the reader.
	GetConversationAudio(ctx context.Context, conversationID string) (io.ReadCloser, error)
}

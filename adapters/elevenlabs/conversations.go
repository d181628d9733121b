package elevenlabs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/rolespeak/server/domain"
	"github.com/satriahrh/rolespeak/server/domain/entities"
)

// conversationPageSize is the number of conversations requested per page
const conversationPageSize = 100

type conversationPage struct {
	Conversations []entities.ConversationSummary `json:"conversations"`
	HasMore       bool                           `json:"has_more"`
	NextCursor    *string                        `json:"next_cursor"`
}

// ListConversations walks every page of the agent's conversation history
func (c *Client) ListConversations(ctx context.Context, agentID string) ([]entities.ConversationSummary, error) {
	if strings.TrimSpace(agentID) == "" {
		return nil, fmt.Errorf("%w: agent id is required", domain.ErrInvalidInput)
	}

	conversations := []entities.ConversationSummary{}
	cursor := ""
	pages := 0

	for hasMore := true; hasMore; {
		query := url.Values{}
		query.Set("agent_id", agentID)
		query.Set("page_size", strconv.Itoa(conversationPageSize))
		query.Set("cursor", cursor)

		var page conversationPage
		if err := c.doJSON(ctx, http.MethodGet, "/convai/conversations", query, nil, &page, "get conversations"); err != nil {
			return nil, err
		}
		pages++

		conversations = append(conversations, page.Conversations...)
		hasMore = page.HasMore
		if !hasMore {
			break
		}
		if page.NextCursor == nil || *page.NextCursor == "" || *page.NextCursor == cursor {
			c.logger.Error("Conversation page has more results without a new cursor",
				zap.String("agentID", agentID),
				zap.String("cursor", cursor),
				zap.Int("pages", pages))
			return nil, &domain.UpstreamError{
				Provider:   providerName,
				Operation:  "get conversations",
				StatusCode: http.StatusOK,
				Body:       "has_more without a new cursor",
			}
		}
		cursor = *page.NextCursor
	}

	c.logger.Info("Listed conversations",
		zap.String("agentID", agentID),
		zap.Int("pages", pages),
		zap.Int("count", len(conversations)))
	return conversations, nil
}

// GetConversation fetches the transcript and metadata of a conversation
func (c *Client) GetConversation(ctx context.Context, conversationID string) (*entities.ConversationDetail, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, fmt.Errorf("%w: conversation id is required", domain.ErrInvalidInput)
	}

	var detail entities.ConversationDetail
	err := c.doJSON(ctx, http.MethodGet, "/convai/conversations/"+url.PathEscape(conversationID), nil,
		nil, &detail, "get conversation")
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetConversationAudio opens the recording of a conversation for streaming
func (c *Client) GetConversationAudio(ctx context.Context, conversationID string) (io.ReadCloser, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, fmt.Errorf("%w: conversation id is required", domain.ErrInvalidInput)
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/convai/conversations/"+url.PathEscape(conversationID)+"/audio", nil, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.send(req, "get conversation audio")
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

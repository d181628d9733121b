package entities

// ConversationSummary is one entry of the conversation history of an agent
type ConversationSummary struct {
	AgentID           string `json:"agent_id"`
	AgentName         string `json:"agent_name,omitempty"`
	ConversationID    string `json:"conversation_id"`
	StartTimeUnixSecs int64  `json:"start_time_unix_secs"`
	CallDurationSecs  int    `json:"call_duration_secs"`
	MessageCount      int    `json:"message_count"`
	Status            string `json:"status"`
	CallSuccessful    string `json:"call_successful"`
}

// TranscriptTurn is a single utterance in a conversation transcript
type TranscriptTurn struct {
	Role           string  `json:"role"` // "agent" or "user"
	Message        string  `json:"message"`
	TimeInCallSecs float64 `json:"time_in_call_secs"`
}

// ConversationDetail carries the transcript and metadata of a conversation
type ConversationDetail struct {
	AgentID        string           `json:"agent_id"`
	ConversationID string           `json:"conversation_id"`
	Status         string           `json:"status"`
	Transcript     []TranscriptTurn `json:"transcript"`
	Metadata       map[string]any   `json:"metadata,omitempty"`
	Analysis       map[string]any   `json:"analysis,omitempty"`
	HasAudio       bool             `json:"has_audio"`
}

package api

// DescriptionRequest represents the request payload for roleplay description generation
type DescriptionRequest struct {
	RoleplayName string `json:"roleplay_name"`
	Language     string `json:"language"`
}

type DescriptionResponse struct {
	Description string `json:"description"`
}

// ImageRequest represents the request payload for opening line and image generation
type ImageRequest struct {
	TeacherID        string `json:"teacher_id"`
	RoleplayName     string `json:"roleplay_name"`
	RoleplayScenario string `json:"roleplay_scenario"`
	Language         string `json:"language"`
}

type ImageResponse struct {
	FirstPrompt string `json:"first_prompt"`
	ImagePath   string `json:"image_path"`
}

// PromoteImageRequest moves a confirmed preview into the teacher's images
type PromoteImageRequest struct {
	TeacherID string `json:"teacher_id"`
	ImagePath string `json:"image_path"`
}

type PromoteImageResponse struct {
	ImagePath string `json:"image_path"`
}

// CreateAgentRequest represents the request payload for template agent creation
type CreateAgentRequest struct {
	RoleplayName     string `json:"roleplay_name"`
	RoleplayScenario string `json:"roleplay_scenario"`
	LanguageCode     string `json:"language_code"`
	FirstPrompt      string `json:"first_prompt"`
}

type CreateAgentResponse struct {
	AgentID string `json:"agent_id"`
}

// CreateRunRequest starts a run of a template agent
type CreateRunRequest struct {
	AgentID string  `json:"agent_id"`
	Speed   float64 `json:"speed"`
}

type CreateRunResponse struct {
	RunID string `json:"run_id"`
}

// SpeechRequest asks for spoken audio of a text. Speed defaults to 1.0.
type SpeechRequest struct {
	Text         string  `json:"text"`
	LanguageCode string  `json:"language_code"`
	Speed        float64 `json:"speed,omitempty"`
}

// MessageResponse is returned by operations without a payload
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

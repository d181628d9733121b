package entities

import (
	"errors"
	"fmt"
	"strings"
)

// Run speed bounds accepted by the voice vendor
const (
	MinRunSpeed = 0.7
	MaxRunSpeed = 1.2
)

// AgentSpec holds everything needed to create a template voice agent
type AgentSpec struct {
	Name         string
	FirstPrompt  string
	LanguageCode string
	ScenarioName string
	ScenarioText string
	VoiceID      string
}

func (s *AgentSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("agent name is required")
	}
	if strings.TrimSpace(s.FirstPrompt) == "" {
		return errors.New("first prompt is required")
	}
	if strings.TrimSpace(s.LanguageCode) == "" {
		return errors.New("language code is required")
	}
	if strings.TrimSpace(s.VoiceID) == "" {
		return errors.New("voice id is required")
	}
	return nil
}

// AgentConfig is the full agent document as returned by the vendor. It is kept
// untyped so that a run re-submits every field the template carried.
type AgentConfig map[string]any

// Name returns the agent display name
func (c AgentConfig) Name() string {
	name, _ := c["name"].(string)
	return name
}

// AsRun derives the configuration of a disposable run from a template agent.
// The receiver is left untouched.
func (c AgentConfig) AsRun(speed float64) AgentConfig {
	run := make(AgentConfig, len(c))
	for k, v := range c {
		run[k] = v
	}

	run["name"] = fmt.Sprintf("%s (Run)", c.Name())
	run["tags"] = []string{"roleplay", "run"}

	conversation := cloneMap(c["conversation_config"])
	tts := cloneMap(conversation["tts"])
	tts["speed"] = speed
	conversation["tts"] = tts
	run["conversation_config"] = conversation

	return run
}

// ValidateRunSpeed checks the speed against the vendor accepted range
func ValidateRunSpeed(speed float64) error {
	if speed < MinRunSpeed || speed > MaxRunSpeed {
		return fmt.Errorf("speed must be between %.1f and %.1f, got %.2f", MinRunSpeed, MaxRunSpeed, speed)
	}
	return nil
}

func cloneMap(v any) map[string]any {
	src, _ := v.(map[string]any)
	out := make(map[string]any, len(src)+1)
	for k, val := range src {
		out[k] = val
	}
	return out
}

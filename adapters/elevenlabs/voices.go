package elevenlabs

import "github.com/satriahrh/rolespeak/server/domain/entities"

// Voices used for roleplay agents
const (
	VoiceArcher    = "Fahco4VZzobUeiPqni1S" // Archer (British)
	VoiceJamesGao  = "4VZIsMPtgggwNg7OXbPY" // James Gao (Chinese)
	VoiceIshibashi = "Mv8AjrYZCBkdsmDHNwcB" // Ishibashi (Japanese)
	VoiceAnnaKim   = "uyVNoMrnUku1dZyVEXwD" // Anna Kim (Korean)
)

// DefaultVoiceTable returns the voices used for roleplay agents. An empty
// defaultVoiceID keeps Archer as the fallback.
func DefaultVoiceTable(defaultVoiceID string) entities.VoiceTable {
	if defaultVoiceID == "" {
		defaultVoiceID = VoiceArcher
	}
	return entities.VoiceTable{
		Voices: map[string]string{
			"zh": VoiceJamesGao,
			"ja": VoiceIshibashi,
			"ko": VoiceAnnaKim,
		},
		DefaultVoiceID: defaultVoiceID,
	}
}

// Voices returns the language to voice mapping of this client
func (c *Client) Voices() entities.VoiceTable {
	return c.voices
}

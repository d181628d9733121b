package entities

import "strings"

// VoiceTable maps lower-case language codes to voice ids
type VoiceTable struct {
	Voices         map[string]string
	DefaultVoiceID string
}

// Lookup returns the voice for a language code. The second value is false when
// the default voice was used.
func (t VoiceTable) Lookup(languageCode string) (string, bool) {
	voiceID, ok := t.Voices[strings.ToLower(strings.TrimSpace(languageCode))]
	if !ok {
		return t.DefaultVoiceID, false
	}
	return voiceID, true
}

package repositories

import (
	"context"
	"io"
)

type TextToSpeech interface {
	// Synthesize streams spoken text as mp3 audio. The caller closes the reader.
	Synthesize(ctx context.Context, text, voiceID string, speed float64) (io.ReadCloser, error)
}

// Command voicepreview speaks a line in the voice a roleplay agent would use
// for a language and saves it as mp3.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/satriahrh/rolespeak/server/adapters/elevenlabs"
)

func main() {
	godotenv.Load()

	text := flag.String("text", "こんにちは！今日はどちらへ行きますか？", "text to speak")
	language := flag.String("language", "ja", "language code used to pick the voice")
	speed := flag.Float64("speed", 1.0, "speech speed between 0.7 and 1.2")
	output := flag.String("out", "voice_preview.mp3", "output file")
	play := flag.Bool("play", os.Getenv("NO_AUTOPLAY") != "true", "play the file when done")
	flag.Parse()

	// Create logger
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Check if API key is set
	if os.Getenv("ELEVEN_LABS_API_KEY") == "" {
		logger.Fatal("ELEVEN_LABS_API_KEY environment variable is required")
	}

	client, err := elevenlabs.NewClient(elevenlabs.NewElevenLabsConfigFromEnv(), nil, logger)
	if err != nil {
		logger.Fatal("Failed to create ElevenLabs client", zap.Error(err))
	}

	voiceID, matched := client.Voices().Lookup(*language)
	if !matched {
		logger.Warn("No voice configured for language, using default", zap.String("language", *language))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("Converting text to speech",
		zap.String("text", *text),
		zap.String("voiceID", voiceID),
		zap.Float64("speed", *speed))

	audio, err := client.Synthesize(ctx, *text, voiceID, *speed)
	if err != nil {
		logger.Fatal("Failed to convert text to speech", zap.Error(err))
	}
	defer audio.Close()

	file, err := os.Create(*output)
	if err != nil {
		logger.Fatal("Failed to create output file", zap.Error(err))
	}

	written, err := io.Copy(file, audio)
	file.Close()
	if err != nil {
		logger.Fatal("Failed to write audio", zap.Error(err))
	}

	fmt.Printf("Audio saved to %s (%d bytes)\n", *output, written)

	if *play {
		if err := playAudioFile(*output, logger); err != nil {
			logger.Warn("Failed to play audio automatically", zap.Error(err))
		}
	}
}

// audioPlayer represents an audio player command and its arguments
type audioPlayer struct {
	command string
	args    []string
}

// playAudioFile tries the mp3 players commonly found on developer machines
func playAudioFile(filename string, logger *zap.Logger) error {
	players := []audioPlayer{
		{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
		{"mpg123", []string{"-q"}},
		{"afplay", nil},
		{"play", nil},
	}

	for _, player := range players {
		if _, err := exec.LookPath(player.command); err != nil {
			continue
		}

		args := append(player.args, filename)
		logger.Info("Attempting to play audio",
			zap.String("player", player.command),
			zap.Strings("args", args))

		err := exec.Command(player.command, args...).Run()
		if err == nil {
			return nil
		}
		logger.Debug("Player failed", zap.String("player", player.command), zap.Error(err))
	}

	return fmt.Errorf("no suitable audio player found")
}

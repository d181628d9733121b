package llm

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/satriahrh/rolespeak/server/domain/repositories"
)

// MockGeminiClient is a scripted ContentGenerator for offline development and tests
type MockGeminiClient struct {
	mu sync.Mutex

	// Description is returned by GenerateText
	Description string
	// Parts is returned by GenerateTextAndImage
	Parts []repositories.ContentPart
	// Err is returned by every call when set
	Err error

	// RecordPrompts keeps every received prompt in Prompts
	RecordPrompts bool
	Prompts       []string
}

var _ repositories.ContentGenerator = (*MockGeminiClient)(nil)

// NewMockGeminiClient creates a mock answering with a canned description, an
// opening question and a small placeholder image
func NewMockGeminiClient() *MockGeminiClient {
	return &MockGeminiClient{
		Description: "You are at a small train station ticket counter. The student wants to buy a ticket and asks about departure times, platforms and prices.",
		Parts: []repositories.ContentPart{
			{Text: "<question>Where would you like to travel today?</question>"},
			{Data: PlaceholderPNG(), MIMEType: "image/png"},
		},
	}
}

// GenerateText implements repositories.ContentGenerator
func (m *MockGeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record(prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Description, nil
}

// GenerateTextAndImage implements repositories.ContentGenerator
func (m *MockGeminiClient) GenerateTextAndImage(ctx context.Context, prompt string) ([]repositories.ContentPart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record(prompt)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Parts, nil
}

func (m *MockGeminiClient) record(prompt string) {
	if m.RecordPrompts {
		m.Prompts = append(m.Prompts, prompt)
	}
}

// PlaceholderPNG renders a 4x4 solid image
func PlaceholderPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(fmt.Sprintf("encode placeholder image: %v", err))
	}
	return buf.Bytes()
}

package repositories

import "context"

// ContentGenerator abstracts the generative model provider
type ContentGenerator interface {
	// GenerateText submits a prompt and returns the model's plain text reply
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateTextAndImage submits a prompt allowing both text and image output
	// and returns the response parts in order
	GenerateTextAndImage(ctx context.Context, prompt string) ([]ContentPart, error)
}

// ContentPart is one part of a multi-part model response. Exactly one of Text
// or Data is set.
type ContentPart struct {
	Text     string
	Data     []byte
	MIMEType string
}

// IsBinary reports whether the part carries inline binary data
func (p ContentPart) IsBinary() bool {
	return len(p.Data) > 0
}

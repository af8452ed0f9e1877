package core

import "context"

// Completer answers a free-text message with a chat completion.
type Completer interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// ImageGenerator renders a prompt into image bytes.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, model, prompt string) ([]byte, error)
}

// SpeechRequest carries the text to synthesize and the voice selection.
type SpeechRequest struct {
	Text     string
	Language string
	Speaker  string
}

// SpeechGenerator renders text into audio bytes.
type SpeechGenerator interface {
	GenerateSpeech(ctx context.Context, req SpeechRequest) ([]byte, error)
}

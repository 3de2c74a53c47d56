package models

import (
	"context"

	"github.com/tmc/langchaingo/llms"
)

// StreamingFunc receives each completion increment as the model
// produces it. Returning an error aborts the stream.
type StreamingFunc func(ctx context.Context, chunk []byte) error

// ChatLLM is the chat completion surface the agent depends on.
type ChatLLM interface {
	// Call runs a completion and returns the full response text.
	Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error)
	// CallStreaming runs a completion, invoking fn per increment, and
	// returns the accumulated response once the stream ends.
	CallStreaming(ctx context.Context, prompt string, fn StreamingFunc) (string, error)
	// GetTokenCount returns the number of tokens in the text
	GetTokenCount(text string) (int, error)
}

// EmbeddingsClient converts texts to embedding vectors.
type EmbeddingsClient interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

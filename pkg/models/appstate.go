package models

import (
	"context"

	"github.com/fluakademi/coursebot/config"
)

// Agent is the retrieval-orchestration core driven by the chat gateway.
// One pass per query; implementations must be safe for concurrent use
// across sessions.
type Agent interface {
	// Ready reports whether startup ingestion and tool wiring finished.
	Ready() bool
	// Respond answers a query in one shot. Failures surface as an
	// apology string, never as an error.
	Respond(ctx context.Context, query string) string
	// RespondStream answers a query as a finite sequence of chunks.
	// The channel is closed after the terminal chunk; a chunk with a
	// non-nil Err is always the last one delivered.
	RespondStream(ctx context.Context, query string) <-chan StreamChunk
}

// AppState is a struct that holds the state of the application
// Use cmd.NewAppState to create a new instance
type AppState struct {
	LLMClient        ChatLLM
	EmbeddingsClient EmbeddingsClient
	VectorStore      VectorStore
	Agent            Agent
	Config           *config.Config
}

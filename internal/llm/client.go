// Package llm wraps the hosted model APIs behind one client interface.
package llm

import (
	"context"
	"fmt"

	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/chat"
)

// Client is what the rest of the system needs from a hosted model:
// chat completion over a transcript and text embeddings.
type Client interface {
	// Complete generates a reply to userMsg given a system instruction
	// and the prior conversation turns.
	Complete(ctx context.Context, system string, history []chat.Turn, userMsg string) (string, error)
	// Embed returns the embedding vector for text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedFunc adapts Embed to the signature chromem-go expects.
	EmbedFunc() func(ctx context.Context, text string) ([]float32, error)
}

// New builds a Client for the configured provider.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGemini(ctx, cfg)
	case "openai":
		return NewOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q (want gemini or openai)", cfg.Provider)
	}
}

// Config carries the provider-level knobs shared by both backends.
type Config struct {
	Provider        string
	APIKey          string
	ChatModels      []string // tried in order on quota errors
	EmbeddingModel  string
	Temperature     float32
	MaxOutputTokens int32
	RPMLimit        int
}

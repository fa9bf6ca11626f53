package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"google.golang.org/genai"

	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/chat"
)

// Gemini talks to the Gemini API, rotating across chat models when one
// runs out of quota.
type Gemini struct {
	client     *genai.Client
	chatModels []string
	modelIdx   atomic.Int64
	embedModel string
	temp       float32
	maxTokens  int32
	limiter    *rpmLimiter
}

func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if len(cfg.ChatModels) == 0 {
		return nil, fmt.Errorf("no gemini chat models configured")
	}

	return &Gemini{
		client:     client,
		chatModels: cfg.ChatModels,
		embedModel: cfg.EmbeddingModel,
		temp:       cfg.Temperature,
		maxTokens:  cfg.MaxOutputTokens,
		limiter:    newRPMLimiter(cfg.RPMLimit),
	}, nil
}

func (g *Gemini) currentModel() string {
	idx := g.modelIdx.Load() % int64(len(g.chatModels))
	return g.chatModels[idx]
}

func (g *Gemini) rotateModel() string {
	newIdx := g.modelIdx.Add(1) % int64(len(g.chatModels))
	model := g.chatModels[newIdx]
	slog.Info("rotating to next model", "model", model)
	return model
}

// Complete generates a reply, switching models on 429.
func (g *Gemini) Complete(ctx context.Context, system string, history []chat.Turn, userMsg string) (string, error) {
	if err := g.limiter.wait(ctx); err != nil {
		return "", err
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		var role genai.Role = genai.RoleUser
		if turn.Role == chat.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(userMsg, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(g.temp),
		MaxOutputTokens:   g.maxTokens,
	}

	// Try every model, at most two attempts each.
	totalAttempts := len(g.chatModels) * 2
	var lastErr error
	for attempt := 0; attempt < totalAttempts; attempt++ {
		model := g.currentModel()
		resp, err := g.client.Models.GenerateContent(ctx, model, contents, cfg)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if strings.Contains(err.Error(), "429") || strings.Contains(err.Error(), "RESOURCE_EXHAUSTED") {
				slog.Warn("model quota exceeded, switching", "model", model, "attempt", attempt+1)
				g.rotateModel()
				time.Sleep(time.Second)
				continue
			}
			slog.Warn("generate failed, retrying", "model", model, "attempt", attempt+1, "error", err)
			time.Sleep(time.Duration(1<<attempt) * time.Second)
			continue
		}
		slog.Debug("generated reply", "model", model)
		return resp.Text(), nil
	}
	return "", fmt.Errorf("all models exhausted after %d attempts: %w", totalAttempts, lastErr)
}

// Embed generates an embedding vector for text.
func (g *Gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := g.limiter.wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		resp, err := g.client.Models.EmbedContent(ctx, g.embedModel,
			[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
		if err != nil {
			lastErr = err
			slog.Warn("embed failed, retrying", "attempt", attempt+1, "error", err)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(1<<attempt) * time.Second):
			}
			continue
		}
		if len(resp.Embeddings) == 0 {
			return nil, fmt.Errorf("empty embedding response")
		}
		return resp.Embeddings[0].Values, nil
	}
	return nil, fmt.Errorf("embed failed after 3 attempts: %w", lastErr)
}

func (g *Gemini) EmbedFunc() func(ctx context.Context, text string) ([]float32, error) {
	return g.Embed
}

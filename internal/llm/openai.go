package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/chat"
)

// OpenAI talks to the OpenAI chat-completions and embeddings APIs. Works
// for any OpenAI-compatible endpoint via base URL override.
type OpenAI struct {
	client     openai.Client
	chatModel  string
	embedModel string
	temp       float32
	maxTokens  int32
	limiter    *rpmLimiter
}

func NewOpenAI(cfg Config) *OpenAI {
	model := "gpt-4o"
	if len(cfg.ChatModels) > 0 {
		model = cfg.ChatModels[0]
	}
	embedModel := cfg.EmbeddingModel
	if embedModel == "" {
		embedModel = "text-embedding-3-small"
	}

	return &OpenAI{
		client:     openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		chatModel:  model,
		embedModel: embedModel,
		temp:       cfg.Temperature,
		maxTokens:  cfg.MaxOutputTokens,
		limiter:    newRPMLimiter(cfg.RPMLimit),
	}
}

// Complete generates a reply via the chat-completions API.
func (o *OpenAI) Complete(ctx context.Context, system string, history []chat.Turn, userMsg string) (string, error) {
	if err := o.limiter.wait(ctx); err != nil {
		return "", err
	}

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	msgs = append(msgs, openai.SystemMessage(system))
	for _, turn := range history {
		if turn.Role == chat.RoleAssistant {
			msgs = append(msgs, openai.AssistantMessage(turn.Text))
		} else {
			msgs = append(msgs, openai.UserMessage(turn.Text))
		}
	}
	msgs = append(msgs, openai.UserMessage(userMsg))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.chatModel),
		Messages:    msgs,
		Temperature: openai.Float(float64(o.temp)),
	}
	if o.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.maxTokens))
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		resp, err := o.client.Chat.Completions.New(ctx, params)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			slog.Warn("chat completion failed, retrying", "model", o.chatModel, "attempt", attempt+1, "error", err)
			time.Sleep(time.Duration(1<<attempt) * time.Second)
			continue
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("empty completion response")
		}
		slog.Debug("generated reply", "model", o.chatModel)
		return resp.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("chat completion failed after 3 attempts: %w", lastErr)
}

// Embed generates an embedding vector for text.
func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := o.limiter.wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Model: openai.EmbeddingModel(o.embedModel),
			Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		})
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
		if len(resp.Data) == 0 {
			return nil, fmt.Errorf("empty embedding response")
		}
		vec := make([]float32, len(resp.Data[0].Embedding))
		for i, v := range resp.Data[0].Embedding {
			vec[i] = float32(v)
		}
		return vec, nil
	}
	return nil, fmt.Errorf("embed failed after 3 attempts: %w", lastErr)
}

func (o *OpenAI) EmbedFunc() func(ctx context.Context, text string) ([]float32, error) {
	return o.Embed
}

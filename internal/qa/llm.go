package qa

import (
	"context"

	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/chat"
	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/llm"
	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/rag"
)

// LLMReformulator implements Reformulator with a hosted model call.
type LLMReformulator struct {
	Client llm.Client
}

func (r *LLMReformulator) Reformulate(ctx context.Context, history []chat.Turn, question string) (string, error) {
	return r.Client.Complete(ctx, ReformulateSystemPrompt, history, question)
}

// LLMSynthesizer implements Synthesizer with a hosted model call,
// stuffing the retrieved passages into the system prompt.
type LLMSynthesizer struct {
	Client llm.Client
}

func (s *LLMSynthesizer) Synthesize(ctx context.Context, history []chat.Turn, question string, passages []rag.Passage) (string, error) {
	return s.Client.Complete(ctx, BuildAnswerSystemPrompt(passages), history, question)
}

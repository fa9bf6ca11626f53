// Package qa composes reformulation, retrieval and answer synthesis
// into one conversational question-answering flow.
package qa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/chat"
	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/rag"
)

// ErrEmptyQuestion is returned when the question is blank. Callers are
// expected to treat a blank question as "nothing to do" before reaching
// the engine.
var ErrEmptyQuestion = errors.New("empty question")

// UpstreamError marks a failure of one of the external calls. The
// transcript is guaranteed untouched when Ask returns one.
type UpstreamError struct {
	Stage string // "reformulate", "retrieve" or "synthesize"
	Err   error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *UpstreamError) Unwrap() error { return e.Err }

// Reformulator rewrites a follow-up question into a standalone one
// using the prior turns.
type Reformulator interface {
	Reformulate(ctx context.Context, history []chat.Turn, question string) (string, error)
}

// Retriever returns the passages relevant to a standalone question.
type Retriever interface {
	Retrieve(ctx context.Context, question string) ([]rag.Passage, error)
}

// Synthesizer produces the final answer from the transcript, the
// standalone question and the retrieved passages.
type Synthesizer interface {
	Synthesize(ctx context.Context, history []chat.Turn, question string, passages []rag.Passage) (string, error)
}

// Answer is the result of one request. Transient; only the two new
// turns survive in the session transcript.
type Answer struct {
	Text               string        `json:"answer"`
	StandaloneQuestion string        `json:"standalone_question"`
	Passages           []rag.Passage `json:"passages"`
	Transcript         []chat.Turn   `json:"transcript"`
}

// Engine is the conversation orchestrator.
type Engine struct {
	sessions    chat.Store
	reform      Reformulator
	retriever   Retriever
	synth       Synthesizer
	callTimeout time.Duration
}

// NewEngine wires the orchestrator. callTimeout bounds each external
// call individually; zero disables the bound.
func NewEngine(sessions chat.Store, reform Reformulator, retriever Retriever, synth Synthesizer, callTimeout time.Duration) *Engine {
	return &Engine{
		sessions:    sessions,
		reform:      reform,
		retriever:   retriever,
		synth:       synth,
		callTimeout: callTimeout,
	}
}

// Ask answers question within the session's conversation. On any
// upstream failure the request aborts and the transcript is left
// unchanged. Requests for the same session are fully serialized;
// distinct sessions proceed in parallel.
func (e *Engine) Ask(ctx context.Context, sessionID, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	session := e.sessions.Get(sessionID)
	session.Acquire()
	defer session.Release()

	history := session.Turns()

	// First turn has no history to resolve against, so the question is
	// already standalone. Skipping the call keeps the pass-through
	// contract out of the model's hands.
	standalone := question
	if len(history) > 0 {
		var err error
		standalone, err = e.callReformulate(ctx, history, question)
		if err != nil {
			return nil, &UpstreamError{Stage: "reformulate", Err: err}
		}
		standalone = strings.TrimSpace(standalone)
		if standalone == "" {
			standalone = question
		}
	}

	passages, err := e.callRetrieve(ctx, standalone)
	if err != nil {
		return nil, &UpstreamError{Stage: "retrieve", Err: err}
	}

	answer, err := e.callSynthesize(ctx, history, standalone, passages)
	if err != nil {
		return nil, &UpstreamError{Stage: "synthesize", Err: err}
	}

	session.Append(
		chat.NewTurn(chat.RoleUser, question),
		chat.NewTurn(chat.RoleAssistant, answer),
	)

	slog.Info("answered question",
		"session", sessionID,
		"standalone", standalone,
		"passages", len(passages),
		"turns", session.Len(),
	)

	return &Answer{
		Text:               answer,
		StandaloneQuestion: standalone,
		Passages:           passages,
		Transcript:         session.Turns(),
	}, nil
}

// Sessions exposes the full store contents for the debug view.
func (e *Engine) Sessions() map[string][]chat.Turn {
	return e.sessions.Sessions()
}

func (e *Engine) callReformulate(ctx context.Context, history []chat.Turn, question string) (string, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()
	return e.reform.Reformulate(ctx, history, question)
}

func (e *Engine) callRetrieve(ctx context.Context, question string) ([]rag.Passage, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()
	return e.retriever.Retrieve(ctx, question)
}

func (e *Engine) callSynthesize(ctx context.Context, history []chat.Turn, question string, passages []rag.Passage) (string, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()
	return e.synth.Synthesize(ctx, history, question, passages)
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.callTimeout)
}

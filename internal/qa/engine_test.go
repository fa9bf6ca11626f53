package qa_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/chat"
	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/qa"
	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/rag"
)

type stubReformulator struct {
	mu    sync.Mutex
	calls int
	fn    func(history []chat.Turn, question string) (string, error)
}

func (s *stubReformulator) Reformulate(ctx context.Context, history []chat.Turn, question string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.fn != nil {
		return s.fn(history, question)
	}
	return question, nil
}

func (s *stubReformulator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubRetriever struct {
	mu        sync.Mutex
	lastQuery string
	passages  []rag.Passage
	err       error
}

func (s *stubRetriever) Retrieve(ctx context.Context, question string) ([]rag.Passage, error) {
	s.mu.Lock()
	s.lastQuery = question
	s.mu.Unlock()
	return s.passages, s.err
}

func (s *stubRetriever) lastSeen() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery
}

type stubSynthesizer struct {
	err   error
	delay time.Duration
	fn    func(history []chat.Turn, question string, passages []rag.Passage) string
}

func (s *stubSynthesizer) Synthesize(ctx context.Context, history []chat.Turn, question string, passages []rag.Passage) (string, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.delay):
		}
	}
	if s.err != nil {
		return "", s.err
	}
	if s.fn != nil {
		return s.fn(history, question, passages), nil
	}
	if len(passages) == 0 {
		return "I don't know.", nil
	}
	return "answer: " + question, nil
}

func newEngine(reform *stubReformulator, retr *stubRetriever, synth *stubSynthesizer) (*qa.Engine, chat.Store) {
	store := chat.NewMemoryStore()
	return qa.NewEngine(store, reform, retr, synth, 0), store
}

func TestAsk_FirstTurnPassesThroughVerbatim(t *testing.T) {
	reform := &stubReformulator{}
	retr := &stubRetriever{passages: []rag.Passage{{Content: "some context"}}}
	engine, _ := newEngine(reform, retr, &stubSynthesizer{})

	ans, err := engine.Ask(context.Background(), "s1", "What is the expense ratio?")
	require.NoError(t, err)

	require.Equal(t, "What is the expense ratio?", ans.StandaloneQuestion)
	require.Equal(t, "What is the expense ratio?", retr.lastSeen())
	require.Zero(t, reform.callCount(), "reformulator must not run on an empty transcript")
}

func TestAsk_FollowUpIsReformulated(t *testing.T) {
	reform := &stubReformulator{
		fn: func(history []chat.Turn, question string) (string, error) {
			require.NotEmpty(t, history)
			if strings.Contains(question, "its") {
				return "What is the expense ratio of fund X?", nil
			}
			return question, nil
		},
	}
	retr := &stubRetriever{passages: []rag.Passage{{Content: "expense ratio is 0.5%"}}}
	engine, store := newEngine(reform, retr, &stubSynthesizer{})

	store.Get("s1").Append(
		chat.NewTurn(chat.RoleUser, "What is fund X?"),
		chat.NewTurn(chat.RoleAssistant, "Fund X is a debt fund."),
	)

	ans, err := engine.Ask(context.Background(), "s1", "What is its expense ratio?")
	require.NoError(t, err)

	require.Equal(t, "What is the expense ratio of fund X?", ans.StandaloneQuestion)
	require.Equal(t, "What is the expense ratio of fund X?", retr.lastSeen())
	require.Equal(t, 1, reform.callCount())
}

func TestAsk_EmptyRetrievalHitsNoContextBranch(t *testing.T) {
	var sawEmpty atomic.Bool
	synth := &stubSynthesizer{
		fn: func(_ []chat.Turn, _ string, passages []rag.Passage) string {
			if len(passages) == 0 {
				sawEmpty.Store(true)
				return "I don't know."
			}
			return "answer"
		},
	}
	engine, _ := newEngine(&stubReformulator{}, &stubRetriever{}, synth)

	ans, err := engine.Ask(context.Background(), "s1", "What is the fund size?")
	require.NoError(t, err)

	require.True(t, sawEmpty.Load())
	require.Contains(t, ans.Text, "don't know")
	require.Empty(t, ans.Passages)
}

func TestAsk_TranscriptGrowsByTwoPerSuccess(t *testing.T) {
	engine, store := newEngine(&stubReformulator{}, &stubRetriever{}, &stubSynthesizer{})

	for i := 1; i <= 5; i++ {
		_, err := engine.Ask(context.Background(), "s1", fmt.Sprintf("question %d", i))
		require.NoError(t, err)
		require.Equal(t, 2*i, store.Get("s1").Len())
	}

	turns := store.Get("s1").Turns()
	for i, turn := range turns {
		if i%2 == 0 {
			require.Equal(t, chat.RoleUser, turn.Role)
		} else {
			require.Equal(t, chat.RoleAssistant, turn.Role)
		}
	}
}

func TestAsk_FailureAppendsNothing(t *testing.T) {
	upstream := errors.New("service unavailable")

	cases := []struct {
		name   string
		reform *stubReformulator
		retr   *stubRetriever
		synth  *stubSynthesizer
		stage  string
	}{
		{
			name: "reformulate fails",
			reform: &stubReformulator{fn: func([]chat.Turn, string) (string, error) {
				return "", upstream
			}},
			retr:  &stubRetriever{},
			synth: &stubSynthesizer{},
			stage: "reformulate",
		},
		{
			name:   "retrieve fails",
			reform: &stubReformulator{},
			retr:   &stubRetriever{err: upstream},
			synth:  &stubSynthesizer{},
			stage:  "retrieve",
		},
		{
			name:   "synthesize fails",
			reform: &stubReformulator{},
			retr:   &stubRetriever{},
			synth:  &stubSynthesizer{err: upstream},
			stage:  "synthesize",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine, store := newEngine(tc.reform, tc.retr, tc.synth)

			// Seed one prior exchange so the reformulate stage runs.
			store.Get("s1").Append(
				chat.NewTurn(chat.RoleUser, "What is fund X?"),
				chat.NewTurn(chat.RoleAssistant, "A debt fund."),
			)
			before := store.Get("s1").Turns()

			_, err := engine.Ask(context.Background(), "s1", "What is its rating?")
			require.Error(t, err)

			var ue *qa.UpstreamError
			require.ErrorAs(t, err, &ue)
			require.Equal(t, tc.stage, ue.Stage)
			require.ErrorIs(t, err, upstream)

			require.Equal(t, before, store.Get("s1").Turns(), "failed request must not touch the transcript")
		})
	}
}

func TestAsk_EmptyQuestionRejected(t *testing.T) {
	engine, store := newEngine(&stubReformulator{}, &stubRetriever{}, &stubSynthesizer{})

	_, err := engine.Ask(context.Background(), "s1", "   ")
	require.ErrorIs(t, err, qa.ErrEmptyQuestion)
	require.Zero(t, store.Get("s1").Len())
}

func TestAsk_CallTimeoutSurfacesAsUpstreamError(t *testing.T) {
	store := chat.NewMemoryStore()
	synth := &stubSynthesizer{delay: 200 * time.Millisecond}
	engine := qa.NewEngine(store, &stubReformulator{}, &stubRetriever{}, synth, 20*time.Millisecond)

	_, err := engine.Ask(context.Background(), "s1", "slow question")
	require.Error(t, err)

	var ue *qa.UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, "synthesize", ue.Stage)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Zero(t, store.Get("s1").Len())
}

func TestAsk_DistinctSessionsRunConcurrently(t *testing.T) {
	engine, store := newEngine(&stubReformulator{}, &stubRetriever{}, &stubSynthesizer{})

	const sessions = 8
	const requests = 10

	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("session-%d", i)
			for j := 0; j < requests; j++ {
				_, err := engine.Ask(context.Background(), id, fmt.Sprintf("q %d/%d", i, j))
				require.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < sessions; i++ {
		id := fmt.Sprintf("session-%d", i)
		turns := store.Get(id).Turns()
		require.Len(t, turns, 2*requests)
		for _, turn := range turns {
			if turn.Role == chat.RoleUser {
				require.True(t, strings.HasPrefix(turn.Text, fmt.Sprintf("q %d/", i)),
					"session %s saw a turn from another session: %q", id, turn.Text)
			}
		}
	}
}

func TestAsk_SameSessionRequestsSerialized(t *testing.T) {
	synth := &stubSynthesizer{delay: 10 * time.Millisecond}
	engine, store := newEngine(&stubReformulator{}, &stubRetriever{}, synth)

	const requests = 8
	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := engine.Ask(context.Background(), "shared", fmt.Sprintf("q%d", i))
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	turns := store.Get("shared").Turns()
	require.Len(t, turns, 2*requests)

	// User and assistant turns must strictly alternate; interleaving
	// across requests would break the pattern.
	for i, turn := range turns {
		want := chat.RoleUser
		if i%2 == 1 {
			want = chat.RoleAssistant
		}
		require.Equal(t, want, turn.Role, "turn %d out of order", i)
	}
}

func TestSessions_ExposesAllTranscripts(t *testing.T) {
	engine, _ := newEngine(&stubReformulator{}, &stubRetriever{}, &stubSynthesizer{})

	_, err := engine.Ask(context.Background(), "a", "first")
	require.NoError(t, err)
	_, err = engine.Ask(context.Background(), "b", "second")
	require.NoError(t, err)

	all := engine.Sessions()
	require.Len(t, all, 2)
	require.Len(t, all["a"], 2)
	require.Len(t, all["b"], 2)
}

package rag

import (
	"context"
	"log/slog"
)

// Retriever runs similarity search with the configured cutoffs.
type Retriever struct {
	store         *Store
	topK          int
	minSimilarity float32
}

func NewRetriever(store *Store, topK int, minSimilarity float32) *Retriever {
	return &Retriever{
		store:         store,
		topK:          topK,
		minSimilarity: minSimilarity,
	}
}

// Retrieve returns the passages most relevant to question. An empty
// store or no hits above the cutoff yields an empty, non-error result.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]Passage, error) {
	if r.store == nil || r.store.Count() == 0 {
		slog.Debug("no vectors in store, skipping retrieval")
		return nil, nil
	}

	passages, err := r.store.Query(ctx, question, r.topK, r.minSimilarity)
	if err != nil {
		return nil, err
	}

	slog.Debug("retrieved passages", "query", question, "count", len(passages))
	return passages, nil
}

package rag

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/philippgille/chromem-go"
)

// Store wraps a persistent chromem collection of factsheet passages.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewStore opens or creates the vector store under vectorsDir.
func NewStore(vectorsDir, collection string, embedFunc chromem.EmbeddingFunc) (*Store, error) {
	db, err := chromem.NewPersistentDB(vectorsDir, false)
	if err != nil {
		return nil, fmt.Errorf("open vector db: %w", err)
	}

	col, err := db.GetOrCreateCollection(collection, nil, embedFunc)
	if err != nil {
		return nil, fmt.Errorf("get/create collection: %w", err)
	}

	slog.Info("vector store loaded", "dir", vectorsDir, "collection", collection, "count", col.Count())
	return &Store{db: db, collection: col}, nil
}

// Query returns the passages most similar to text, best first.
func (s *Store) Query(ctx context.Context, text string, topK int, minSimilarity float32) ([]Passage, error) {
	if s.collection.Count() == 0 {
		return nil, nil
	}

	k := topK
	if k > s.collection.Count() {
		k = s.collection.Count()
	}

	docs, err := s.collection.Query(ctx, text, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query vectors: %w", err)
	}

	var passages []Passage
	for _, d := range docs {
		if d.Similarity < minSimilarity {
			continue
		}
		passages = append(passages, Passage{
			Content:    d.Content,
			Source:     d.Metadata["source"],
			Section:    d.Metadata["section"],
			Similarity: d.Similarity,
		})
	}
	return passages, nil
}

// AddDocuments writes documents to the collection in parallel.
func (s *Store) AddDocuments(ctx context.Context, docs []chromem.Document) error {
	return s.collection.AddDocuments(ctx, docs, runtime.NumCPU())
}

// Count returns the number of stored passages.
func (s *Store) Count() int {
	return s.collection.Count()
}

// Passage is one retrieved chunk of the factsheet, produced fresh per
// request and never persisted outside the vector store.
type Passage struct {
	Content    string  `json:"content"`
	Source     string  `json:"source"`
	Section    string  `json:"section,omitempty"`
	Similarity float32 `json:"similarity"`
}

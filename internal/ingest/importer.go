package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/philippgille/chromem-go"

	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/rag"
)

// Importer parses factsheet files and writes their passages into the
// vector store. Embedding happens inside the store's configured
// embedding func.
type Importer struct {
	store    *rag.Store
	maxRunes int
	overlap  int
}

func NewImporter(store *rag.Store, maxRunes, overlap int) *Importer {
	return &Importer{store: store, maxRunes: maxRunes, overlap: overlap}
}

// ImportFile parses path (format by extension), chunks it and stores
// the passages. Returns the number of passages written.
func (im *Importer) ImportFile(ctx context.Context, path string) (int, error) {
	doc, err := ParseFile(path)
	if err != nil {
		return 0, err
	}

	chunks := ChunkDocument(doc, im.maxRunes, im.overlap)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("no text extracted from %s", path)
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, c := range chunks {
		docs = append(docs, chromem.Document{
			ID:      fmt.Sprintf("%s#%d", c.Source, c.Index),
			Content: c.Content,
			Metadata: map[string]string{
				"source":  c.Source,
				"section": c.Section,
			},
		})
	}

	if err := im.store.AddDocuments(ctx, docs); err != nil {
		return 0, fmt.Errorf("store passages: %w", err)
	}

	slog.Info("imported factsheet", "file", doc.Name, "sections", len(doc.Sections), "passages", len(docs))
	return len(docs), nil
}

// ParseFile picks the parser from the file extension.
func ParseFile(path string) (*Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return ParseHTMLFile(path)
	default:
		return ParseTextFile(path)
	}
}

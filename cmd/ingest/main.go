package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/config"
	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/ingest"
	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/llm"
	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/rag"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "config file path")
	maxRunes := flag.Int("chunk-size", 1200, "max passage size in runes")
	overlap := flag.Int("chunk-overlap", 150, "overlap between consecutive passages in runes")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Usage: ingest [-config <path>] <factsheet file> [...]\n")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	client, err := llm.New(ctx, llm.Config{
		Provider:        cfg.LLM.Provider,
		APIKey:          cfg.LLM.APIKey,
		ChatModels:      cfg.LLM.ChatModels,
		EmbeddingModel:  cfg.LLM.EmbeddingModel,
		Temperature:     cfg.LLM.Temperature,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
		RPMLimit:        cfg.LLM.RPMLimit,
	})
	if err != nil {
		slog.Error("create LLM client failed", "error", err)
		os.Exit(1)
	}

	store, err := rag.NewStore(cfg.RAG.VectorsDir, cfg.RAG.Collection, client.EmbedFunc())
	if err != nil {
		slog.Error("open vector store failed", "error", err)
		os.Exit(1)
	}

	importer := ingest.NewImporter(store, *maxRunes, *overlap)

	total := 0
	for _, path := range flag.Args() {
		n, err := importer.ImportFile(ctx, path)
		if err != nil {
			slog.Error("import failed", "file", path, "error", err)
			os.Exit(1)
		}
		total += n
	}

	slog.Info("ingest complete", "files", flag.NArg(), "passages", total, "stored", store.Count())
}

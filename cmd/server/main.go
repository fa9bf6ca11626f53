package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/chat"
	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/config"
	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/llm"
	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/qa"
	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/rag"
	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/web"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "config file path")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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
	slog.Info("LLM client initialized", "provider", cfg.LLM.Provider, "models", cfg.LLM.ChatModels)

	store, err := rag.NewStore(cfg.RAG.VectorsDir, cfg.RAG.Collection, client.EmbedFunc())
	if err != nil {
		slog.Error("open vector store failed", "error", err)
		os.Exit(1)
	}
	retriever := rag.NewRetriever(store, cfg.RAG.TopK, cfg.RAG.MinSimilarity)

	engine := qa.NewEngine(
		chat.NewMemoryStore(),
		&qa.LLMReformulator{Client: client},
		retriever,
		&qa.LLMSynthesizer{Client: client},
		cfg.Chat.RequestTimeout(),
	)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: web.NewServer(engine, cfg.Chat.DefaultSession).Handler(),
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		slog.Info("shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
		cancel()
	}()

	slog.Info("server listening", "addr", cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

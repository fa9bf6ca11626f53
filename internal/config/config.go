package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	LLM    LLMConfig    `mapstructure:"llm"`
	RAG    RAGConfig    `mapstructure:"rag"`
	Chat   ChatConfig   `mapstructure:"chat"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LLMConfig struct {
	Provider        string   `mapstructure:"provider"` // "gemini" or "openai"
	APIKey          string   `mapstructure:"api_key"`
	ChatModels      []string `mapstructure:"chat_models"`
	EmbeddingModel  string   `mapstructure:"embedding_model"`
	Temperature     float32  `mapstructure:"temperature"`
	MaxOutputTokens int32    `mapstructure:"max_output_tokens"`
	RPMLimit        int      `mapstructure:"rpm_limit"`
}

type RAGConfig struct {
	VectorsDir    string  `mapstructure:"vectors_dir"`
	Collection    string  `mapstructure:"collection"`
	TopK          int     `mapstructure:"top_k"`
	MinSimilarity float32 `mapstructure:"min_similarity"`
}

type ChatConfig struct {
	DefaultSession  string `mapstructure:"default_session"`
	RequestTimeoutS int    `mapstructure:"request_timeout_s"`
}

// RequestTimeout is the per-external-call bound; zero disables it.
func (c ChatConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutS) * time.Second
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_output_tokens", 1024)
	v.SetDefault("rag.vectors_dir", "data/vectors")
	v.SetDefault("rag.collection", "factsheet_oct")
	v.SetDefault("rag.top_k", 4)
	v.SetDefault("rag.min_similarity", 0)
	v.SetDefault("chat.default_session", "default_session")
	v.SetDefault("chat.request_timeout_s", 60)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Env overrides for secrets.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		v.Set("llm.api_key", key)
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && v.GetString("llm.provider") == "openai" {
		v.Set("llm.api_key", key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("llm.api_key is required (set in config, or GEMINI_API_KEY / OPENAI_API_KEY env)")
	}
	if len(cfg.LLM.ChatModels) == 0 {
		return nil, fmt.Errorf("llm.chat_models is required")
	}
	if cfg.LLM.EmbeddingModel == "" && cfg.LLM.Provider == "gemini" {
		return nil, fmt.Errorf("llm.embedding_model is required for the gemini provider")
	}

	return &cfg, nil
}

// Package config resolves runtime configuration from the environment.
// Defaults live here; secrets (API keys) come from the environment or
// an optional .env file loaded before resolution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Provider selects the completion transport.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderMock      Provider = "mock"
)

// ToolConfig holds the completion parameters for one cognition tool.
// The model/temperature/top-p values are opaque to the recall core and
// passed through to the completion transport.
type ToolConfig struct {
	Model        string
	Temperature  float64
	TopP         float64
	MaxTokens    int64
	SystemPrompt string
}

// Config is the resolved runtime configuration.
type Config struct {
	Provider Provider

	// Anthropic transport settings. APIKey is required when
	// Provider is ProviderAnthropic.
	APIKey  string
	BaseURL string
	Model   string

	// StorageDir holds the fact log (mid_term.jsonl).
	StorageDir string

	// DemoPath is the file the executor loop operates on.
	DemoPath string

	// WSPort is the WebSocket API listen port.
	WSPort int

	// Chroma similarity-index settings. An empty collection name
	// disables the index; retrieval degrades to keyword-only.
	ChromaCollection string
	EmbeddingDim     int

	// Per-tool completion configs.
	Orchestrator  ToolConfig
	Activation    ToolConfig
	WorkingMemory ToolConfig
	Emotion       ToolConfig
	Comparison    ToolConfig
}

// Load reads the .env file at envPath (missing file is not an error),
// then resolves the configuration from the environment. A missing API
// key for the selected provider fails here, before any recall begins.
func Load(envPath string) (*Config, error) {
	if envPath != "" {
		// Missing .env is the common case in CI; ignore it.
		_ = godotenv.Load(envPath)
	}

	cfg := &Config{
		Provider:         resolveProvider(),
		APIKey:           os.Getenv("ANTHROPIC_API_KEY"),
		BaseURL:          envString("ANTHROPIC_BASE_URL", ""),
		Model:            envString("AGENTER_MODEL", "claude-sonnet-4-20250514"),
		StorageDir:       envString("AGENTER_STORAGE_DIR", defaultStorageDir()),
		DemoPath:         envString("AGENTER_DEMO_PATH", filepath.Join(os.TempDir(), "hello.txt")),
		WSPort:           envInt("AGENTER_WS_PORT", 3457),
		ChromaCollection: envString("CHROMA_COLLECTION", "agenter-memory"),
		EmbeddingDim:     envInt("AGENTER_EMBEDDING_DIM", 48),

		Orchestrator:  loadToolConfig("ORCHESTRATOR", 0.7, 0.9, metacognitionPrompt),
		Activation:    loadToolConfig("ACTIVATION", 0.3, 0.5, activationPrompt),
		WorkingMemory: loadToolConfig("WORKING_MEMORY", 0.2, 0.3, workingMemoryPrompt),
		Emotion:       loadToolConfig("EMOTION", 0.8, 0.9, emotionPrompt),
		Comparison:    loadToolConfig("COMPARISON", 0.4, 0.6, comparisonPrompt),
	}

	if cfg.Provider == ProviderAnthropic && cfg.APIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}
	return cfg, nil
}

func resolveProvider() Provider {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER"))) {
	case "anthropic":
		return ProviderAnthropic
	case "mock":
		return ProviderMock
	}
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		return ProviderAnthropic
	}
	return ProviderMock
}

func defaultStorageDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".agenter"
	}
	return filepath.Join(home, ".agenter")
}

func loadToolConfig(prefix string, temperature, topP float64, systemPrompt string) ToolConfig {
	return ToolConfig{
		Model:        envString(prefix+"_MODEL", envString("AGENTER_MODEL", "claude-sonnet-4-20250514")),
		Temperature:  envFloat(prefix+"_TEMPERATURE", temperature),
		TopP:         envFloat(prefix+"_TOP_P", topP),
		MaxTokens:    int64(envInt(prefix+"_MAX_TOKENS", 2000)),
		SystemPrompt: envString(prefix+"_SYSTEM_PROMPT", systemPrompt),
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

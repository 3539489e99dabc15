package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LLM_PROVIDER", "ANTHROPIC_API_KEY", "AGENTER_MODEL",
		"AGENTER_WS_PORT", "AGENTER_EMBEDDING_DIM",
		"ACTIVATION_TEMPERATURE", "EMOTION_SYSTEM_PROMPT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaultsToMockProvider(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Provider != ProviderMock {
		t.Errorf("Expected mock provider without a key, got %s", cfg.Provider)
	}
	if cfg.WSPort != 3457 {
		t.Errorf("Expected default port 3457, got %d", cfg.WSPort)
	}
	if cfg.EmbeddingDim != 48 {
		t.Errorf("Expected default dimension 48, got %d", cfg.EmbeddingDim)
	}
	if cfg.Activation.SystemPrompt == "" || cfg.Emotion.SystemPrompt == "" {
		t.Error("Expected built-in tool prompts")
	}
	if cfg.Activation.Temperature == cfg.Emotion.Temperature {
		t.Error("Tool temperatures must keep their distinct defaults")
	}
}

func TestLoadKeyImpliesAnthropic(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Provider != ProviderAnthropic {
		t.Errorf("Expected anthropic provider, got %s", cfg.Provider)
	}
	if cfg.APIKey != "sk-test" {
		t.Errorf("Expected key carried into config, got %q", cfg.APIKey)
	}
}

func TestLoadAnthropicWithoutKeyFails(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "anthropic")

	if _, err := Load(""); err == nil {
		t.Fatal("Expected error when anthropic is selected without a key")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("AGENTER_MODEL", "claude-test-model")
	t.Setenv("AGENTER_WS_PORT", "4000")
	t.Setenv("ACTIVATION_TEMPERATURE", "0.55")
	t.Setenv("EMOTION_SYSTEM_PROMPT", "custom emotion prompt")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model != "claude-test-model" {
		t.Errorf("Expected model override, got %q", cfg.Model)
	}
	if cfg.Activation.Model != "claude-test-model" {
		t.Errorf("Expected tool model to follow the shared override, got %q", cfg.Activation.Model)
	}
	if cfg.WSPort != 4000 {
		t.Errorf("Expected port override, got %d", cfg.WSPort)
	}
	if cfg.Activation.Temperature != 0.55 {
		t.Errorf("Expected temperature override, got %f", cfg.Activation.Temperature)
	}
	if cfg.Emotion.SystemPrompt != "custom emotion prompt" {
		t.Errorf("Expected prompt override, got %q", cfg.Emotion.SystemPrompt)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	clearEnv(t)
	envPath := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envPath, []byte("AGENTER_WS_PORT=5123\n"), 0o644); err != nil {
		t.Fatalf("Write .env: %v", err)
	}

	cfg, err := Load(envPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.WSPort != 5123 {
		t.Errorf("Expected port from .env, got %d", cfg.WSPort)
	}
}

func TestLoadMissingDotEnvIsIgnored(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("Missing .env must not fail Load: %v", err)
	}
}

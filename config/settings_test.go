package config

import (
	"os"
	"testing"
)

func TestNewValidProvider(t *testing.T) {
	settings, err := New("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "gemini" {
		t.Errorf("expected provider 'gemini', got %q", settings.LLM.Provider)
	}
}

func TestNewWithAlias(t *testing.T) {
	settings, err := New("claude")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "anthropic" {
		t.Errorf("expected provider 'anthropic' (normalized from 'claude'), got %q", settings.LLM.Provider)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New("unknown_provider")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewDefaults(t *testing.T) {
	for _, key := range []string{
		"AGENT_MAX_TOOL_ROUNDS", "AGENT_MAX_CONSECUTIVE_ERRORS",
		"AGENT_COMPRESSION_THRESHOLD", "AGENT_COMPRESSION_KEEP_ROUNDS",
		"PACEMATE_DATA_DIR",
	} {
		original := os.Getenv(key)
		os.Unsetenv(key)
		defer os.Setenv(key, original)
	}

	settings, err := New("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Agent.MaxToolRounds != 25 {
		t.Errorf("expected 25 tool rounds, got %d", settings.Agent.MaxToolRounds)
	}
	if settings.Agent.MaxConsecutiveErrors != 3 {
		t.Errorf("expected 3 consecutive errors, got %d", settings.Agent.MaxConsecutiveErrors)
	}
	if settings.Agent.CompressionThreshold != 40 {
		t.Errorf("expected compression threshold 40, got %d", settings.Agent.CompressionThreshold)
	}
	if settings.Agent.CompressionKeepRounds != 4 {
		t.Errorf("expected compression keep rounds 4, got %d", settings.Agent.CompressionKeepRounds)
	}
	if settings.DataDir != "data" {
		t.Errorf("expected data dir 'data', got %q", settings.DataDir)
	}
}

func TestNewDataDirFromEnv(t *testing.T) {
	original := os.Getenv("PACEMATE_DATA_DIR")
	os.Setenv("PACEMATE_DATA_DIR", "/tmp/pacemate-test")
	defer os.Setenv("PACEMATE_DATA_DIR", original)

	settings, err := New("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.DataDir != "/tmp/pacemate-test" {
		t.Errorf("expected data dir from env, got %q", settings.DataDir)
	}
}

func TestAPIKeyForValidProvider(t *testing.T) {
	original := os.Getenv("GEMINI_API_KEY")
	os.Setenv("GEMINI_API_KEY", "test-key")
	defer os.Setenv("GEMINI_API_KEY", original)

	key, err := APIKeyFor("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "test-key" {
		t.Errorf("expected 'test-key', got %q", key)
	}
}

func TestAPIKeyForMissing(t *testing.T) {
	original := os.Getenv("GEMINI_API_KEY")
	os.Unsetenv("GEMINI_API_KEY")
	defer os.Setenv("GEMINI_API_KEY", original)

	_, err := APIKeyFor("gemini")
	if err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestModelFor(t *testing.T) {
	model, err := ModelFor("deepseek")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model == "" {
		t.Error("expected non-empty model")
	}
}

func TestNewWithInvalidEnvVar(t *testing.T) {
	original := os.Getenv("LLM_MAX_TOKENS")
	os.Setenv("LLM_MAX_TOKENS", "not-a-number")
	defer os.Setenv("LLM_MAX_TOKENS", original)

	_, err := New("gemini")
	if err == nil {
		t.Error("expected error for invalid LLM_MAX_TOKENS")
	}
}

func TestSupportedProviders(t *testing.T) {
	providers := SupportedProviders()
	if len(providers) != 4 {
		t.Errorf("expected 4 providers, got %d", len(providers))
	}
}

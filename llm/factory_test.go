package llm

import (
	"os"
	"testing"
)

func TestParseProviderType(t *testing.T) {
	cases := []struct {
		input string
		want  ProviderType
	}{
		{"gemini", ProviderGemini},
		{"google", ProviderGemini},
		{"GEMINI", ProviderGemini},
		{"openai", ProviderOpenAI},
		{"gpt", ProviderOpenAI},
		{"anthropic", ProviderAnthropic},
		{"claude", ProviderAnthropic},
		{"deepseek", ProviderDeepSeek},
	}
	for _, c := range cases {
		got, err := ParseProviderType(c.input)
		if err != nil {
			t.Errorf("ParseProviderType(%q): unexpected error: %v", c.input, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseProviderType(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestParseProviderTypeUnknown(t *testing.T) {
	if _, err := ParseProviderType("cohere"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestProviderDefaults(t *testing.T) {
	for _, p := range []ProviderType{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderDeepSeek} {
		if p.DefaultModel() == "" {
			t.Errorf("%v: expected a default model", p)
		}
		if p.EnvVar() == "" {
			t.Errorf("%v: expected an env var name", p)
		}
		if p.String() == "unknown" {
			t.Errorf("%v: expected a string name", p)
		}
	}
}

func TestFromEnvMissingKey(t *testing.T) {
	original := os.Getenv("DEEPSEEK_API_KEY")
	os.Unsetenv("DEEPSEEK_API_KEY")
	defer os.Setenv("DEEPSEEK_API_KEY", original)

	if _, err := ProviderDeepSeek.FromEnv(); err == nil {
		t.Error("expected error when API key is unset")
	}
}

func TestBuilderAppliesDefaults(t *testing.T) {
	backend, err := ProviderOpenAI.APIKey("test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.Name() != "openai" {
		t.Errorf("expected backend name openai, got %q", backend.Name())
	}
	if backend.Model() != ModelOpenAIGPT4o {
		t.Errorf("expected default model, got %q", backend.Model())
	}
}

func TestBuilderModelOverride(t *testing.T) {
	backend, err := ProviderAnthropic.Model(ModelAnthropicClaudeHaiku35).APIKey("test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.Model() != ModelAnthropicClaudeHaiku35 {
		t.Errorf("expected override model, got %q", backend.Model())
	}
}

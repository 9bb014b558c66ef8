// Package llm provides a provider-agnostic adapter for generative text
// completions. Used by the assistant for journal analysis and chat replies.
// Zero external dependencies — uses net/http directly.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Provider is the interface for text completions.
type Provider interface {
	// Complete sends a prompt and returns the response text.
	Complete(ctx context.Context, prompt string, opts CompletionOpts) (string, error)
	// Name returns a human-readable provider name (e.g. "together/llama-3.3-70b").
	Name() string
}

// CompletionOpts configures a single completion request.
type CompletionOpts struct {
	MaxTokens   int     // Max tokens to generate (0 = provider default)
	Temperature float64 // 0.0-2.0 (0 = deterministic)
	Format      string  // "json" for structured output, empty for plain text
	System      string  // System prompt (optional)
}

// Config holds provider configuration.
type Config struct {
	Provider string // "together", "openrouter", "google"
	Model    string // e.g. "meta-llama/Llama-3.3-70B-Instruct-Turbo"
	APIKey   string // API key (empty = read from env)
	BaseURL  string // Optional URL override
}

// NewProvider creates an LLM provider from the given config.
func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "together":
		key := firstEnv(cfg.APIKey, "TOGETHER_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("together provider requires TOGETHER_API_KEY env var")
		}
		return newChatProvider("together", key, cfg.Model,
			orDefault(cfg.BaseURL, "https://api.together.xyz/v1"),
			"meta-llama/Llama-3.3-70B-Instruct-Turbo"), nil

	case "openrouter":
		key := firstEnv(cfg.APIKey, "OPENROUTER_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("openrouter provider requires OPENROUTER_API_KEY env var")
		}
		return newChatProvider("openrouter", key, cfg.Model,
			orDefault(cfg.BaseURL, "https://openrouter.ai/api/v1"),
			"openai/gpt-4o-mini"), nil

	case "google":
		key := firstEnv(cfg.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("google provider requires GEMINI_API_KEY or GOOGLE_API_KEY env var")
		}
		return &googleProvider{
			apiKey:  key,
			model:   orDefault(cfg.Model, "gemini-2.5-flash"),
			baseURL: orDefault(cfg.BaseURL, "https://generativelanguage.googleapis.com/v1beta"),
		}, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %q (supported: together, openrouter, google)", cfg.Provider)
	}
}

// ParseProviderFlag parses a --llm flag value into a Config.
// Format: "provider/model", e.g. "together/meta-llama/Llama-3.3-70B-Instruct-Turbo".
// A bare provider name selects that provider's default model.
func ParseProviderFlag(flag string) (Config, error) {
	if flag == "" {
		return Config{Provider: "together"}, nil
	}

	parts := strings.SplitN(flag, "/", 2)
	provider := strings.ToLower(parts[0])

	switch provider {
	case "together", "openrouter", "google":
	default:
		return Config{}, fmt.Errorf("unknown provider %q in --llm flag (supported: together, openrouter, google)", provider)
	}

	cfg := Config{Provider: provider}
	if len(parts) == 2 {
		cfg.Model = parts[1]
	}
	return cfg, nil
}

func firstEnv(explicit string, envKeys ...string) string {
	if explicit != "" {
		return explicit
	}
	for _, k := range envKeys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

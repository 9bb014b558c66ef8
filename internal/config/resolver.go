// Package config resolves Mindwell settings from the YAML config file,
// environment variables, and CLI flags, in that precedence order (later
// wins). Every resolved value records where it came from so `mindwell
// config` style debugging stays possible.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

// ResolvedValue is a config value plus its provenance.
type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

// ResolveOptions carries the CLI-level overrides.
type ResolveOptions struct {
	ConfigPath string
	CLILLM     string
	CLIDBPath  string
}

// ResolvedConfig is the fully-layered configuration.
type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	DBPath      ResolvedValue `json:"db_path"`
	LLMProvider ResolvedValue `json:"llm_provider"`

	LLMKeys map[string]ResolvedValue `json:"llm_keys,omitempty"`
}

type fileConfig struct {
	DBPath string `yaml:"db_path"`
	LLM    struct {
		Provider string `yaml:"provider"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"llm"`
}

// DefaultConfigPath is ~/.mindwell/config.yaml.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".mindwell", "config.yaml")
}

// Resolve layers file, env, and CLI values. A missing config file is not an
// error; a malformed one is.
func Resolve(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := ResolvedConfig{
		ConfigPath: path,
		LLMKeys:    map[string]ResolvedValue{},
	}

	cfg, err := loadFile(path)
	if err != nil {
		return out, err
	}

	if cfg != nil {
		apply(&out.DBPath, cfg.DBPath, SourceConfig, path)
		apply(&out.LLMProvider, cfg.LLM.Provider, SourceConfig, path)
		if key := strings.TrimSpace(cfg.LLM.APIKey); key != "" {
			provider := providerOf(cfg.LLM.Provider)
			if provider == "" {
				provider = "default"
			}
			out.LLMKeys[provider] = ResolvedValue{Value: key, Source: SourceConfig, From: path}
		}
	}

	applyEnv(&out.DBPath, "MINDWELL_DB")
	applyEnv(&out.LLMProvider, "MINDWELL_LLM")

	for env, provider := range map[string]string{
		"TOGETHER_API_KEY":   "together",
		"OPENROUTER_API_KEY": "openrouter",
		"GEMINI_API_KEY":     "google",
		"GOOGLE_API_KEY":     "google",
	} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			out.LLMKeys[provider] = ResolvedValue{Value: v, Source: SourceEnv, From: env}
		}
	}

	apply(&out.LLMProvider, opts.CLILLM, SourceCLI, "--llm")
	apply(&out.DBPath, opts.CLIDBPath, SourceCLI, "--db")

	return out, nil
}

// APIKeyFor returns the key for a "provider" or "provider/model" value,
// falling back to the file-level default key.
func (r ResolvedConfig) APIKeyFor(providerOrModel string) ResolvedValue {
	provider := providerOf(providerOrModel)
	if provider == "" {
		return ResolvedValue{}
	}
	if v, ok := r.LLMKeys[provider]; ok && strings.TrimSpace(v.Value) != "" {
		return v
	}
	if v, ok := r.LLMKeys["default"]; ok && strings.TrimSpace(v.Value) != "" {
		return v
	}
	return ResolvedValue{}
}

func providerOf(providerOrModel string) string {
	v := strings.ToLower(strings.TrimSpace(providerOrModel))
	if v == "" {
		return ""
	}
	if idx := strings.Index(v, "/"); idx > 0 {
		return v[:idx]
	}
	return v
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func loadFile(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

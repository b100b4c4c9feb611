package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskFirstQuestion   TaskType = "first_question"
	TaskProcessResponse TaskType = "process_response"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// TaskConfig holds per-task LLM parameters. Zero values fall back to the
// global settings of LLMConfig.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Provider    string  `toml:"provider"`
	Endpoint    string  `toml:"endpoint"`
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
	// TimeoutMs of 0 leaves requests without a deadline.
	TimeoutMs  int  `toml:"timeout_ms"`
	MaxRetries int  `toml:"max_retries"`
	LogCalls   bool `toml:"log_calls"`

	Tasks map[TaskType]TaskConfig `toml:"-"`
}

// DefaultConfig returns the Gemini configuration used by the idea
// conversation: temperature 0.7, at most 2000 output tokens, no retries.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:    ProviderGemini,
		Model:       "gemini-2.0-flash",
		Temperature: 0.7,
		MaxTokens:   2000,
		TimeoutMs:   0,
		MaxRetries:  0,
		Tasks: map[TaskType]TaskConfig{
			TaskFirstQuestion:   {},
			TaskProcessResponse: {},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// ApplyEnv overlays IDEABOX_LLM_* variables onto cfg. GEMINI_API_KEY is
// used when no key has been configured otherwise.
func ApplyEnv(cfg *LLMConfig) {
	if v := os.Getenv("IDEABOX_LLM_PROVIDER"); v != "" {
		cfg.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("IDEABOX_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("IDEABOX_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("IDEABOX_LLM_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if v := os.Getenv("IDEABOX_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("IDEABOX_LLM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 2 {
			cfg.Temperature = f
		}
	}
	if v := os.Getenv("IDEABOX_LLM_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxTokens = n
		}
	}
	if v := os.Getenv("IDEABOX_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("IDEABOX_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
}

// Validate reports configuration that cannot produce a working client.
func (c LLMConfig) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if strings.TrimSpace(c.APIKey) == "" {
			return fmt.Errorf("llm: gemini provider requires an api key (set GEMINI_API_KEY or llm.api_key)")
		}
	case ProviderOllama:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
	if c.TimeoutMs < 0 {
		return fmt.Errorf("llm: timeout_ms must not be negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("llm: max_retries must not be negative")
	}
	return nil
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// TaskParams returns the temperature and token limit for a task.
func (c LLMConfig) TaskParams(task TaskType) (float64, int) {
	temp, maxTok := c.Temperature, c.MaxTokens
	if tc, ok := c.Tasks[task]; ok {
		if tc.Temperature > 0 {
			temp = tc.Temperature
		}
		if tc.MaxTokens > 0 {
			maxTok = tc.MaxTokens
		}
	}
	return temp, maxTok
}

// EffectiveEndpoint returns the configured endpoint or the provider default.
// An empty result means the SDK default is used.
func (c LLMConfig) EffectiveEndpoint() string {
	if c.Endpoint != "" {
		return strings.TrimRight(c.Endpoint, "/")
	}
	if c.Provider == ProviderOllama {
		return "http://localhost:11434"
	}
	return ""
}

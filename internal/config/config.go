// Package config loads ideabox settings from a TOML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/emree-sen/idea-box-app/internal/llm"
	"github.com/emree-sen/idea-box-app/internal/prediction"
)

// LogConfig selects log level and output.
type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
	File   string `toml:"file"`
}

// MetricsConfig enables the /metrics endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `toml:"addr"`
}

// Config is the full application configuration.
type Config struct {
	DBPath            string `toml:"db_path"`
	ExportDir         string `toml:"export_dir"`
	FirstReplyDelayMs int    `toml:"first_reply_delay_ms"`

	LLM        llm.LLMConfig     `toml:"llm"`
	Prediction prediction.Config `toml:"prediction"`
	Log        LogConfig         `toml:"log"`
	Metrics    MetricsConfig     `toml:"metrics"`
}

// Dir returns the ideabox home directory (~/.ideabox).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".ideabox"), nil
}

// DefaultPath returns the config file location, honoring IDEABOX_CONFIG.
func DefaultPath() (string, error) {
	if p := os.Getenv("IDEABOX_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Default returns the built-in configuration.
func Default() Config {
	cfg := Config{
		ExportDir:         ".",
		FirstReplyDelayMs: 1000,
		LLM:               llm.DefaultConfig(),
		Prediction:        prediction.DefaultConfig(),
		Log:               LogConfig{Level: "warn"},
	}
	if dir, err := Dir(); err == nil {
		cfg.DBPath = filepath.Join(dir, "ideabox.db")
	}
	return cfg
}

// Load builds the configuration from defaults, the TOML file at path (or
// DefaultPath when empty) and the environment. A missing file is not an
// error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("decoding config %s: %w", path, err)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return cfg, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}

	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// ApplyEnvOverrides overlays IDEABOX_* variables onto c.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("IDEABOX_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("IDEABOX_EXPORT_DIR"); v != "" {
		c.ExportDir = v
	}
	if v := os.Getenv("IDEABOX_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("IDEABOX_LOG_PRETTY"); v != "" {
		c.Log.Pretty, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("IDEABOX_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv("IDEABOX_FIRST_REPLY_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.FirstReplyDelayMs = n
		}
	}
	llm.ApplyEnv(&c.LLM)
	prediction.ApplyEnv(&c.Prediction)
}

// Validate checks the settings every command depends on. Model settings
// are validated separately by ValidateChat, since only the conversation
// needs them.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("config: db_path is required")
	}
	if c.FirstReplyDelayMs < 0 {
		return fmt.Errorf("config: first_reply_delay_ms must not be negative")
	}
	return c.Prediction.Validate()
}

// ValidateChat checks the settings needed to start a conversation.
func (c Config) ValidateChat() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return c.LLM.Validate()
}

// FirstReplyDelay returns the pause before the first model call.
func (c Config) FirstReplyDelay() time.Duration {
	return time.Duration(c.FirstReplyDelayMs) * time.Millisecond
}

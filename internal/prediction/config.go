package prediction

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config controls the optional success-prediction call.
type Config struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"`
	APIKey   string `toml:"api_key"`
	// TimeoutMs of 0 relies on the transport defaults.
	TimeoutMs int `toml:"timeout_ms"`
}

// DefaultConfig returns a disabled configuration pointing at a local service.
func DefaultConfig() Config {
	return Config{
		Enabled:   false,
		Endpoint:  "http://localhost:4242",
		TimeoutMs: 10000,
	}
}

// ApplyEnv overlays IDEABOX_PREDICTION_* variables onto cfg.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("IDEABOX_PREDICTION_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("IDEABOX_PREDICTION_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("IDEABOX_PREDICTION_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("IDEABOX_PREDICTION_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.TimeoutMs = n
		}
	}
}

func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("prediction: endpoint is required when enabled")
	}
	if c.TimeoutMs < 0 {
		return fmt.Errorf("prediction: timeout_ms must not be negative")
	}
	return nil
}

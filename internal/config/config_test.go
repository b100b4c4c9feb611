package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/emree-sen/idea-box-app/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"IDEABOX_CONFIG", "IDEABOX_DB", "IDEABOX_EXPORT_DIR", "IDEABOX_LOG_LEVEL",
		"IDEABOX_LOG_PRETTY", "IDEABOX_METRICS_ADDR", "IDEABOX_FIRST_REPLY_DELAY_MS",
		"IDEABOX_LLM_PROVIDER", "IDEABOX_LLM_ENDPOINT", "IDEABOX_LLM_MODEL",
		"IDEABOX_LLM_API_KEY", "IDEABOX_LLM_LOG_CALLS", "IDEABOX_LLM_TEMPERATURE",
		"IDEABOX_LLM_MAX_TOKENS", "IDEABOX_LLM_TIMEOUT_MS", "IDEABOX_LLM_MAX_RETRIES",
		"GEMINI_API_KEY", "IDEABOX_PREDICTION_ENABLED", "IDEABOX_PREDICTION_ENDPOINT",
		"IDEABOX_PREDICTION_API_KEY", "IDEABOX_PREDICTION_TIMEOUT_MS",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 2000, cfg.LLM.MaxTokens)
	assert.False(t, cfg.Prediction.Enabled)
	assert.Equal(t, time.Second, cfg.FirstReplyDelay())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, ".", cfg.ExportDir)
}

func TestLoad_FileValues(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
db_path = "/tmp/ideas.db"
export_dir = "/tmp/exports"
first_reply_delay_ms = 0

[llm]
provider = "ollama"
model = "llama3.2"
temperature = 0.2
max_retries = 2

[prediction]
enabled = true
endpoint = "http://predict.local:4242"
api_key = "secret"

[log]
level = "debug"
pretty = true

[metrics]
addr = ":9090"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/ideas.db", cfg.DBPath)
	assert.Equal(t, "/tmp/exports", cfg.ExportDir)
	assert.Zero(t, cfg.FirstReplyDelay())
	assert.Equal(t, llm.ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, "llama3.2", cfg.LLM.Model)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 2000, cfg.LLM.MaxTokens, "unset keys keep defaults")
	assert.Equal(t, 2, cfg.LLM.MaxRetries)
	assert.True(t, cfg.Prediction.Enabled)
	assert.Equal(t, "secret", cfg.Prediction.APIKey)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	require.NoError(t, cfg.ValidateChat())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
db_path = "/tmp/file.db"
[llm]
model = "from-file"
`)
	t.Setenv("IDEABOX_DB", "/tmp/env.db")
	t.Setenv("IDEABOX_LLM_MODEL", "from-env")
	t.Setenv("GEMINI_API_KEY", "gk")
	t.Setenv("IDEABOX_METRICS_ADDR", "127.0.0.1:9100")
	t.Setenv("IDEABOX_FIRST_REPLY_DELAY_MS", "250")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	assert.Equal(t, "from-env", cfg.LLM.Model)
	assert.Equal(t, "gk", cfg.LLM.APIKey)
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.FirstReplyDelay())
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `export_dir = "/srv/out"`)
	t.Setenv("IDEABOX_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/out", cfg.ExportDir)
}

func TestLoad_Malformed(t *testing.T) {
	clearEnv(t)

	_, err := Load(writeConfig(t, `db_path = `))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `colour = "blue"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	cfg := Default()
	cfg.DBPath = "/tmp/x.db"
	require.NoError(t, cfg.Validate())

	err := cfg.ValidateChat()
	require.Error(t, err, "gemini without a key")

	cfg.LLM.APIKey = "k"
	require.NoError(t, cfg.ValidateChat())

	cfg.LLM.Provider = "claude"
	assert.ErrorIs(t, cfg.ValidateChat(), llm.ErrUnknownProvider)

	bad := Default()
	bad.DBPath = ""
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.DBPath = "/tmp/x.db"
	bad.Prediction.Enabled = true
	bad.Prediction.Endpoint = " "
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.DBPath = "/tmp/x.db"
	bad.FirstReplyDelayMs = -1
	assert.Error(t, bad.Validate())
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ollamaConfig(endpoint string) LLMConfig {
	cfg := DefaultConfig()
	cfg.Provider = ProviderOllama
	cfg.Model = "llama3.2"
	cfg.Endpoint = endpoint
	return cfg
}

func geminiConfig(endpoint string) LLMConfig {
	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.Endpoint = endpoint
	return cfg
}

func writeOllamaResponse(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model":    "llama3.2",
		"response": text,
		"done":     true,
	})
}

func writeGeminiResponse(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"role":  "model",
				"parts": []map[string]any{{"text": text}},
			},
			"finishReason": "STOP",
		}},
	})
}

type captureObserver struct {
	fn func(LLMCallEvent)
}

func (o *captureObserver) OnCallComplete(e LLMCallEvent) { o.fn(e) }

func TestOllamaClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req["model"])
		assert.Equal(t, false, req["stream"])
		assert.Equal(t, "system prompt", req["system"])
		assert.Equal(t, "user prompt", req["prompt"])
		opts, _ := req["options"].(map[string]any)
		assert.InDelta(t, 0.7, opts["temperature"], 1e-9)
		assert.EqualValues(t, 2000, opts["num_predict"])

		writeOllamaResponse(w, `{"isComplete":false,"message":"hi"}`)
	}))
	defer srv.Close()

	client, err := NewOllamaClient(ollamaConfig(srv.URL), NoopObserver{})
	require.NoError(t, err)
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskFirstQuestion,
		SystemPrompt: "system prompt",
		UserPrompt:   "user prompt",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"isComplete":false,"message":"hi"}`, resp.Text)
	assert.Equal(t, "llama3.2", resp.Model)
	assert.GreaterOrEqual(t, resp.LatencyMs, int64(0))
}

func TestOllamaClient_Generate_RequestOverrides(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		opts, _ := req["options"].(map[string]any)
		assert.InDelta(t, 0.1, opts["temperature"], 1e-9)
		assert.EqualValues(t, 64, opts["num_predict"])
		writeOllamaResponse(w, "ok")
	}))
	defer srv.Close()

	client, err := NewOllamaClient(ollamaConfig(srv.URL), nil)
	require.NoError(t, err)
	temp, maxTok := 0.1, 64
	_, err = client.Generate(context.Background(), GenerateRequest{
		Task:        TaskProcessResponse,
		UserPrompt:  "x",
		Temperature: &temp,
		MaxTokens:   &maxTok,
	})
	require.NoError(t, err)
}

func TestOllamaClient_Generate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	cfg := ollamaConfig(srv.URL)
	cfg.Tasks = map[TaskType]TaskConfig{
		TaskFirstQuestion: {TimeoutMs: 50},
	}

	client, err := NewOllamaClient(cfg, NoopObserver{})
	require.NoError(t, err)
	_, err = client.Generate(context.Background(), GenerateRequest{
		Task:       TaskFirstQuestion,
		UserPrompt: "test",
	})

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestOllamaClient_Generate_Unavailable(t *testing.T) {
	client, err := NewOllamaClient(ollamaConfig("http://127.0.0.1:1"), NoopObserver{}) // nothing listening
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), GenerateRequest{
		Task:       TaskFirstQuestion,
		UserPrompt: "test",
	})
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestOllamaClient_Generate_RetryOnTransientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"warming up"}`))
			return
		}
		writeOllamaResponse(w, "second time lucky")
	}))
	defer srv.Close()

	cfg := ollamaConfig(srv.URL)
	cfg.MaxRetries = 1
	client, err := NewOllamaClient(cfg, NoopObserver{})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), GenerateRequest{Task: TaskProcessResponse, UserPrompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "second time lucky", resp.Text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOllamaClient_Generate_ServerErrorNoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	client, err := NewOllamaClient(ollamaConfig(srv.URL), NoopObserver{})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), GenerateRequest{Task: TaskProcessResponse, UserPrompt: "x"})
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOllamaClient_Generate_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeOllamaResponse(w, "   ")
	}))
	defer srv.Close()

	client, err := NewOllamaClient(ollamaConfig(srv.URL), NoopObserver{})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), GenerateRequest{Task: TaskProcessResponse, UserPrompt: "x"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOllamaClient_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	up, err := NewOllamaClient(ollamaConfig(srv.URL), NoopObserver{})
	require.NoError(t, err)
	assert.True(t, up.Available(context.Background()))

	down, err := NewOllamaClient(ollamaConfig("http://127.0.0.1:1"), NoopObserver{})
	require.NoError(t, err)
	assert.False(t, down.Available(context.Background()))
}

func TestPreflight_LogsUnreachableProvider(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.InfoLevel)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	up, err := NewOllamaClient(ollamaConfig(srv.URL), NoopObserver{})
	require.NoError(t, err)
	assert.True(t, Preflight(context.Background(), up, log))
	assert.Empty(t, buf.String())

	down, err := NewOllamaClient(ollamaConfig("http://127.0.0.1:1"), NoopObserver{})
	require.NoError(t, err)
	assert.False(t, Preflight(context.Background(), down, log))
	assert.Contains(t, buf.String(), "not reachable")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestOllamaClient_ObserverCalled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeOllamaResponse(w, "ok")
	}))
	defer srv.Close()

	var got []LLMCallEvent
	obs := &captureObserver{fn: func(e LLMCallEvent) { got = append(got, e) }}
	client, err := NewOllamaClient(ollamaConfig(srv.URL), obs)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), GenerateRequest{Task: TaskFirstQuestion, UserPrompt: "x"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Success)
	assert.Equal(t, TaskFirstQuestion, got[0].Task)
	assert.Equal(t, 1, got[0].Attempts)
}

func TestOllamaClient_ObserverUnavailableErrorCode(t *testing.T) {
	var got []LLMCallEvent
	obs := &captureObserver{fn: func(e LLMCallEvent) { got = append(got, e) }}
	client, err := NewOllamaClient(ollamaConfig("http://127.0.0.1:1"), obs)
	require.NoError(t, err)

	_, _ = client.Generate(context.Background(), GenerateRequest{Task: TaskFirstQuestion, UserPrompt: "x"})
	require.Len(t, got, 1)
	assert.False(t, got[0].Success)
	assert.Equal(t, "UNAVAILABLE", got[0].ErrorCode)
}

func TestGeminiClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-2.0-flash:generateContent"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gen, _ := body["generationConfig"].(map[string]any)
		assert.InDelta(t, 0.7, gen["temperature"], 1e-6)
		assert.EqualValues(t, 2000, gen["maxOutputTokens"])
		contents, _ := body["contents"].([]any)
		require.Len(t, contents, 1)

		writeGeminiResponse(w, `{"isComplete":false,"message":"Who is it for?"}`)
	}))
	defer srv.Close()

	client, err := NewGeminiClient(context.Background(), geminiConfig(srv.URL), NoopObserver{})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:       TaskFirstQuestion,
		UserPrompt: "A recipe app",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"isComplete":false,"message":"Who is it for?"}`, resp.Text)
	assert.Equal(t, "gemini-2.0-flash", resp.Model)
}

func TestGeminiClient_Generate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"bad key","status":"PERMISSION_DENIED"}}`))
	}))
	defer srv.Close()

	client, err := NewGeminiClient(context.Background(), geminiConfig(srv.URL), NoopObserver{})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), GenerateRequest{Task: TaskFirstQuestion, UserPrompt: "x"})
	assert.ErrorIs(t, err, ErrRetryExhausted)
}

func TestNewClient_UnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "carrier-pigeon"
	_, err := NewClient(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/emree-sen/idea-box-app/internal/domain"
	"github.com/rs/zerolog"
)

// Event describes one prediction call.
type Event struct {
	Category  string
	Size      string
	LatencyMs int64
	Success   bool
	Error     string
}

// Observer receives prediction call events for logging and metrics.
type Observer interface {
	OnPrediction(Event)
}

// LogObserver writes one structured line per prediction call.
type LogObserver struct {
	log zerolog.Logger
}

func NewLogObserver(l zerolog.Logger) *LogObserver {
	return &LogObserver{log: l.With().Str("component", "prediction").Logger()}
}

func (o *LogObserver) OnPrediction(e Event) {
	ev := o.log.Info()
	if !e.Success {
		ev = o.log.Warn().Str("error", e.Error)
	}
	ev.Str("category", e.Category).
		Str("size", e.Size).
		Int64("latency_ms", e.LatencyMs).
		Bool("success", e.Success).
		Msg("prediction_call")
}

// MultiObserver fans an event out to several observers.
type MultiObserver []Observer

func (m MultiObserver) OnPrediction(e Event) {
	for _, o := range m {
		if o != nil {
			o.OnPrediction(e)
		}
	}
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnPrediction(Event) {}

// Client calls the external prediction endpoint.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient creates a prediction client. A nil observer discards events.
func NewClient(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	hc := &http.Client{}
	if cfg.TimeoutMs > 0 {
		hc.Timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	}
	return &Client{cfg: cfg, http: hc, observer: observer}
}

// Enrich sends one prediction request for t. Failures are reported in the
// result, never as an error, and the call is not retried.
func (c *Client) Enrich(ctx context.Context, t domain.Template) domain.PredictionResult {
	start := time.Now()
	appData := BuildRequest(t)

	body, err := c.post(ctx, appData)

	ev := Event{
		Category:  appData.Category,
		Size:      appData.Size,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if err != nil {
		ev.Error = err.Error()
		c.observer.OnPrediction(ev)
		return domain.PredictionResult{Success: false, Error: err.Error()}
	}
	c.observer.OnPrediction(ev)
	return domain.PredictionResult{
		Success:    true,
		Prediction: body,
		AppData:    &appData,
	}
}

func (c *Client) post(ctx context.Context, appData domain.AppData) (json.RawMessage, error) {
	data, err := json.Marshal(appData)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/predict"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("prediction API returned status %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	if !json.Valid(respBody) {
		return nil, fmt.Errorf("decoding response: invalid JSON")
	}
	return json.RawMessage(respBody), nil
}

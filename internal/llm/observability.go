package llm

import (
	"context"

	"github.com/rs/zerolog"
)

// LLMCallEvent records metadata about a single LLM invocation.
type LLMCallEvent struct {
	Task      TaskType
	Model     string
	LatencyMs int64
	Attempts  int
	Success   bool
	ErrorCode string
}

// Observer receives events about LLM calls for logging and metrics.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver writes one structured line per LLM call.
type LogObserver struct {
	log zerolog.Logger
}

// NewLogObserver creates an Observer that logs events to l.
func NewLogObserver(l zerolog.Logger) *LogObserver {
	return &LogObserver{log: l.With().Str("component", "llm").Logger()}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	ev := o.log.Info()
	status := "ok"
	if !event.Success {
		ev = o.log.Warn()
		status = "err:" + event.ErrorCode
	}
	ev.Str("task", string(event.Task)).
		Str("model", event.Model).
		Int64("latency_ms", event.LatencyMs).
		Int("attempts", event.Attempts).
		Str("status", status).
		Msg("llm_call")
}

// MultiObserver fans an event out to several observers.
type MultiObserver []Observer

func (m MultiObserver) OnCallComplete(event LLMCallEvent) {
	for _, o := range m {
		if o != nil {
			o.OnCallComplete(event)
		}
	}
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}

// Preflight probes the provider once and warns when it cannot be reached.
// The conversation still starts either way; its own degrade path handles
// a dead endpoint.
func Preflight(ctx context.Context, c LLMClient, l zerolog.Logger) bool {
	up := c.Available(ctx)
	if up {
		l.Debug().Str("component", "llm").Msg("model provider reachable")
	} else {
		l.Warn().Str("component", "llm").Msg("model provider is not reachable")
	}
	return up
}

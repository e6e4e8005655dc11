package analytics

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

const (
	defaultEndpoint = "https://telemetry.claimsight.dev/v1/track"
	emitTimeout     = 5 * time.Second
)

// service posts track events to the telemetry endpoint. Emission is
// fire-and-forget: a failed or slow post never blocks or fails a request.
type service struct {
	endpoint string
	client   HTTPClient
	disabled atomic.Bool
}

// NewService creates the telemetry service. Pass disabled=true to honor the
// operator opt-out; events are then constructed but never sent.
func NewService(disabled bool) Service {
	s := &service{
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: emitTimeout},
	}
	s.disabled.Store(disabled)
	return s
}

// NewServiceWithClient injects a custom HTTP client. Used in tests.
func NewServiceWithClient(client HTTPClient) Service {
	return &service{
		endpoint: defaultEndpoint,
		client:   client,
	}
}

func (s *service) Disable() {
	s.disabled.Store(true)
}

func (s *service) Enable() {
	s.disabled.Store(false)
}

// EmitEvent sends the event in the background and swallows all failures.
func (s *service) EmitEvent(event TrackEvent) {
	if s.disabled.Load() {
		return
	}

	go func() {
		payload, err := json.Marshal(event)
		if err != nil {
			slog.Debug("failed to marshal analytics event", "event", event.Event, "error", err)
			return
		}

		resp, err := s.client.Post(s.endpoint, "application/json", bytes.NewReader(payload))
		if err != nil {
			slog.Debug("failed to emit analytics event", "event", event.Event, "error", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusBadRequest {
			slog.Debug("analytics endpoint rejected event", "event", event.Event, "status", resp.StatusCode)
		}
	}()
}

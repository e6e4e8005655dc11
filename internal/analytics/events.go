package analytics

import (
	"time"

	"github.com/google/uuid"
)

// Event names reported to the telemetry endpoint.
const (
	eventStartup     = "server_startup"
	eventToolCalled  = "tool_called"
	eventClaimIngest = "claim_ingested"
)

// TrackEvent is one anonymous usage event. Properties never contain claim
// data, only coarse categorical values (tool names, claim types).
type TrackEvent struct {
	Event      string         `json:"event"`
	EventID    string         `json:"event_id"`
	Timestamp  string         `json:"timestamp"`
	Properties map[string]any `json:"properties,omitempty"`
}

// StartupEventInfo describes the server configuration at startup.
type StartupEventInfo struct {
	Version   string
	Transport string
	ReadOnly  bool
}

func newTrackEvent(name string, properties map[string]any) TrackEvent {
	return TrackEvent{
		Event:      name,
		EventID:    uuid.NewString(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Properties: properties,
	}
}

// NewStartupEvent reports a server start with its transport and mode.
func (s *service) NewStartupEvent(info StartupEventInfo) TrackEvent {
	return newTrackEvent(eventStartup, map[string]any{
		"version":   info.Version,
		"transport": info.Transport,
		"read_only": info.ReadOnly,
	})
}

// NewToolsEvent reports a single tool invocation by name.
func (s *service) NewToolsEvent(toolsUsed string) TrackEvent {
	return newTrackEvent(eventToolCalled, map[string]any{
		"tool": toolsUsed,
	})
}

// NewIngestEvent reports a claim ingestion by claim type only.
func (s *service) NewIngestEvent(claimType string) TrackEvent {
	return newTrackEvent(eventClaimIngest, map[string]any{
		"claim_type": claimType,
	})
}

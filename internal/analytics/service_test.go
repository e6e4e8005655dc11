package analytics

import (
	"bytes"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"
)

// recordingClient captures posts for assertions.
type recordingClient struct {
	mu    sync.Mutex
	posts []string
	done  chan struct{}
}

func newRecordingClient() *recordingClient {
	return &recordingClient{done: make(chan struct{}, 16)}
}

func (c *recordingClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	data, _ := io.ReadAll(body)
	c.mu.Lock()
	c.posts = append(c.posts, string(data))
	c.mu.Unlock()
	c.done <- struct{}{}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader(nil)),
	}, nil
}

func (c *recordingClient) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.posts)
}

func (c *recordingClient) waitForPost(t *testing.T) {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for analytics post")
	}
}

func TestEmitEventPostsToEndpoint(t *testing.T) {
	client := newRecordingClient()
	svc := NewServiceWithClient(client)

	svc.EmitEvent(svc.NewToolsEvent("ingest-claim"))
	client.waitForPost(t)

	if client.count() != 1 {
		t.Fatalf("expected 1 post, got %d", client.count())
	}
	client.mu.Lock()
	body := client.posts[0]
	client.mu.Unlock()
	for _, want := range []string{`"event":"tool_called"`, `"tool":"ingest-claim"`} {
		if !bytes.Contains([]byte(body), []byte(want)) {
			t.Errorf("event payload missing %s: %s", want, body)
		}
	}
}

func TestEmitEventRespectsDisable(t *testing.T) {
	client := newRecordingClient()
	svc := NewServiceWithClient(client)

	svc.Disable()
	svc.EmitEvent(svc.NewToolsEvent("get-schema"))

	select {
	case <-client.done:
		t.Fatal("disabled service should not post events")
	case <-time.After(100 * time.Millisecond):
	}

	svc.Enable()
	svc.EmitEvent(svc.NewToolsEvent("get-schema"))
	client.waitForPost(t)

	if client.count() != 1 {
		t.Fatalf("expected exactly 1 post after re-enable, got %d", client.count())
	}
}

func TestEventConstructors(t *testing.T) {
	svc := &service{}

	tests := []struct {
		name      string
		event     TrackEvent
		wantName  string
		wantProp  string
		wantValue any
	}{
		{
			name:      "tools event",
			event:     svc.NewToolsEvent("check-claim-fraud"),
			wantName:  "tool_called",
			wantProp:  "tool",
			wantValue: "check-claim-fraud",
		},
		{
			name:      "ingest event",
			event:     svc.NewIngestEvent("motor"),
			wantName:  "claim_ingested",
			wantProp:  "claim_type",
			wantValue: "motor",
		},
		{
			name:      "startup event",
			event:     svc.NewStartupEvent(StartupEventInfo{Version: "1.0.0", Transport: "stdio"}),
			wantName:  "server_startup",
			wantProp:  "transport",
			wantValue: "stdio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.event.Event != tt.wantName {
				t.Errorf("expected event name %s, got %s", tt.wantName, tt.event.Event)
			}
			if tt.event.EventID == "" {
				t.Error("expected non-empty event id")
			}
			if got := tt.event.Properties[tt.wantProp]; got != tt.wantValue {
				t.Errorf("expected property %s=%v, got %v", tt.wantProp, tt.wantValue, got)
			}
		})
	}
}

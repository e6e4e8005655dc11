package analytics

//go:generate mockgen -destination=mocks/mock_analytics.go -package=analytics_mocks -typed github.com/claimsight/neo4j-mcp-claims/internal/analytics Service,HTTPClient
import (
	"io"
	"net/http"
)

// Service emits product analytics events. Emission is fire-and-forget and
// can be switched off at runtime.
type Service interface {
	Disable()
	Enable()
	EmitEvent(event TrackEvent)
	NewIngestEvent(claimType string) TrackEvent
	NewStartupEvent(startupEventInfo StartupEventInfo) TrackEvent
	NewToolsEvent(toolsUsed string) TrackEvent
}

// HTTPClient covers the one method of http.Client the service uses, so
// tests can substitute a recorder.
type HTTPClient interface {
	Post(url, contentType string, body io.Reader) (*http.Response, error)
}

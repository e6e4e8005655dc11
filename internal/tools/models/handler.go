package models

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	fetchTimeout = 10 * time.Second

	// maxReferenceModelChars caps the combined response so slow MCP
	// clients do not time out rendering it.
	maxReferenceModelChars = 15000
)

// Published Neo4j data models covering transaction graphs and fraud event
// sequences. A var so tests can point it at a local server.
var defaultReferenceModelURLs = []string{
	"https://neo4j.com/developer/industry-use-cases/_attachments/transaction-base-model.txt",
	"https://neo4j.com/developer/industry-use-cases/_attachments/fraud-event-sequence-model.txt",
}

// GetReferenceModelsHandler returns the handler for the get-data-models tool.
func GetReferenceModelsHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetReferenceModels(ctx, request, deps)
	}
}

// handleGetReferenceModels downloads Neo4j's published fraud data models so
// clients can compare them against the live claims schema.
func handleGetReferenceModels(ctx context.Context, _ mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.AnalyticsService == nil {
		errMessage := "analytics service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("get-data-models"))
	slog.Info("fetching Neo4j reference data models")

	var sections []string
	for _, url := range defaultReferenceModelURLs {
		content, err := fetchReferenceModel(ctx, url)
		if err != nil {
			slog.Warn("failed to fetch reference model", "url", url, "error", err)
			continue
		}
		sections = append(sections, fmt.Sprintf("=== Reference Model from %s ===\n%s", url, content))
	}
	if len(sections) == 0 {
		slog.Warn("no reference models could be loaded")
		return mcp.NewToolResultError("no reference models could be fetched from neo4j.com"), nil
	}

	combined := truncateReferenceModel(strings.Join(sections, "\n\n"), maxReferenceModelChars)
	slog.Info("returning reference models", "size", len(combined))

	return mcp.NewToolResultText(combined), nil
}

func fetchReferenceModel(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return string(body), nil
}

// truncateReferenceModel cuts the combined models at the last newline
// before the limit so no model line is left half-printed.
func truncateReferenceModel(referenceModel string, maxChars int) string {
	if len(referenceModel) <= maxChars {
		return referenceModel
	}

	cut := referenceModel[:maxChars]
	if nl := strings.LastIndex(cut, "\n"); nl > maxChars-500 {
		cut = cut[:nl]
	}
	return cut + "\n\n...[Reference models truncated for size - full models available at neo4j.com/developer]..."
}

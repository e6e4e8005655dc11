package graph_stats

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/claimsight/neo4j-mcp-claims/internal/graph"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handler returns a handler function for the get-graph-stats tool
func Handler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGraphStats(ctx, deps)
	}
}

func handleGraphStats(ctx context.Context, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.DBService == nil {
		errMessage := "database service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}
	if deps.AnalyticsService == nil {
		errMessage := "analytics service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("get-graph-stats"))
	slog.Info("retrieving graph statistics", "database", deps.DBService.GetDatabaseName())

	stats, err := graph.Stats(ctx, deps.DBService)
	if err != nil {
		slog.Error("failed to retrieve graph statistics", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	response, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		slog.Error("failed to marshal graph statistics", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(string(response)), nil
}

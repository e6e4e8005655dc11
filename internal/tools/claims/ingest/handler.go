package ingest

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handler returns a handler function for the ingest-claim tool
func Handler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleIngestClaim(ctx, request, deps)
	}
}

func handleIngestClaim(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.Engine == nil {
		errMessage := "claims engine is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}
	if deps.AnalyticsService == nil {
		errMessage := "analytics service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("ingest-claim"))

	var args IngestClaimInput
	if err := request.BindArguments(&args); err != nil {
		slog.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(args.Claim) == 0 {
		errMessage := "claim parameter is required and cannot be empty"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	result, err := deps.Engine.Ingest(ctx, args.Claim)
	if err != nil {
		slog.Error("claim ingestion failed", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Claim type only; no claim content leaves the process.
	if claimType, ok := result.ClaimData["claim_type"].(string); ok {
		deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewIngestEvent(claimType))
	}

	response, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		slog.Error("failed to marshal ingestion result", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(string(response)), nil
}

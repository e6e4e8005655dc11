package neighborhood

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/claimsight/neo4j-mcp-claims/internal/graph"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handler returns a handler function for the get-claim-graph tool
func Handler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleClaimGraph(ctx, request, deps)
	}
}

func handleClaimGraph(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
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

	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("get-claim-graph"))

	var args ClaimGraphInput
	if err := request.BindArguments(&args); err != nil {
		slog.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	if args.TransactionID == "" {
		errMessage := "transactionId parameter is required"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	slog.Info("retrieving claim neighborhood", "transactionId", args.TransactionID)

	neighborhoodGraph, err := graph.Neighborhood(ctx, deps.DBService, args.TransactionID)
	if err != nil {
		slog.Error("failed to retrieve claim neighborhood", "transactionId", args.TransactionID, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	response, err := json.MarshalIndent(neighborhoodGraph, "", "  ")
	if err != nil {
		slog.Error("failed to marshal claim neighborhood", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(string(response)), nil
}

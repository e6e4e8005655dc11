package check

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handler returns a handler function for the check-claim-fraud tool
func Handler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCheckClaim(ctx, request, deps)
	}
}

func handleCheckClaim(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
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

	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("check-claim-fraud"))

	var args CheckClaimInput
	if err := request.BindArguments(&args); err != nil {
		slog.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	if args.TransactionID == "" {
		errMessage := "transactionId parameter is required"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	result, err := deps.Engine.Check(ctx, args.TransactionID)
	if err != nil {
		slog.Error("claim check failed", "transactionId", args.TransactionID, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	response, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		slog.Error("failed to marshal check result", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(string(response)), nil
}

package referral

import (
	"context"
	"log/slog"

	"github.com/claimsight/neo4j-mcp-claims/docs"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
)

// GetReferralGuidanceHandler returns a handler function for the
// get-referral-guidance tool. The guidance is embedded at build time, so
// the handler never touches the database.
func GetReferralGuidanceHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetReferralGuidance(ctx, request, deps)
	}
}

func handleGetReferralGuidance(_ context.Context, _ mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.AnalyticsService == nil {
		errMessage := "analytics service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("get-referral-guidance"))

	slog.Info("serving SIU referral guidance")

	return mcp.NewToolResultText(docs.ReferralGuidancePrompt), nil
}

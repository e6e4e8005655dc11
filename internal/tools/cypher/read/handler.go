package read

import (
	"context"
	"log/slog"

	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
)

// ReadCypherHandler returns a handler function for the read-cypher tool
func ReadCypherHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleReadCypher(ctx, request, deps)
	}
}

func handleReadCypher(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
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

	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("read-cypher"))

	var args ReadCypherInput
	if err := request.BindArguments(&args); err != nil {
		slog.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	if args.Query == "" {
		errMessage := "query parameter is required"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	slog.Info("executing read cypher query", "database", deps.DBService.GetDatabaseName())

	records, err := deps.DBService.ExecuteReadQuery(ctx, args.Query, args.Params)
	if err != nil {
		slog.Error("failed to execute read query", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	jsonData, err := deps.DBService.Neo4jRecordsToJSON(records)
	if err != nil {
		slog.Error("failed to convert records to JSON", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(jsonData), nil
}

package write

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/claimsight/neo4j-mcp-claims/internal/database"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
)

// writeCypherResponse pairs the returned records with the transaction
// counters so callers can see what the statement actually changed.
type writeCypherResponse struct {
	Records json.RawMessage       `json:"records"`
	Summary database.WriteSummary `json:"summary"`
}

// WriteCypherHandler returns a handler function for the write-cypher tool
func WriteCypherHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleWriteCypher(ctx, request, deps)
	}
}

func handleWriteCypher(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
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

	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("write-cypher"))

	var args WriteCypherInput
	if err := request.BindArguments(&args); err != nil {
		slog.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	if args.Query == "" {
		errMessage := "query parameter is required"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	slog.Info("executing write cypher query", "database", deps.DBService.GetDatabaseName())

	result, err := deps.DBService.ExecuteWriteQuery(ctx, args.Query, args.Params)
	if err != nil {
		slog.Error("failed to execute write query", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	recordsJSON, err := deps.DBService.Neo4jRecordsToJSON(result.Records)
	if err != nil {
		slog.Error("failed to convert records to JSON", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	response, err := json.Marshal(writeCypherResponse{
		Records: json.RawMessage(recordsJSON),
		Summary: result.Summary,
	})
	if err != nil {
		slog.Error("failed to marshal write response", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	slog.Info("write cypher query completed",
		"nodes_created", result.Summary.NodesCreated,
		"relationships_created", result.Summary.RelationshipsCreated)

	return mcp.NewToolResultText(string(response)), nil
}

package write_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	analytics_mocks "github.com/claimsight/neo4j-mcp-claims/internal/analytics/mocks"
	"github.com/claimsight/neo4j-mcp-claims/internal/database"
	database_mocks "github.com/claimsight/neo4j-mcp-claims/internal/database/mocks"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/cypher/write"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/mock/gomock"
)

func newCallToolRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("Expected result content, got none")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestWriteCypherHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	analyticsService := analytics_mocks.NewMockService(ctrl)
	analyticsService.EXPECT().NewToolsEvent("write-cypher").AnyTimes()
	analyticsService.EXPECT().EmitEvent(gomock.Any()).AnyTimes()

	t.Run("returns records and counters", func(t *testing.T) {
		mockDB := database_mocks.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()

		records := []*neo4j.Record{
			{Keys: []string{"name"}, Values: []any{"Dana Cole"}},
		}
		mockDB.EXPECT().
			ExecuteWriteQuery(gomock.Any(), gomock.Eq("CREATE (p:Person {name: $name}) RETURN p.name AS name"), gomock.Eq(map[string]any{"name": "Dana Cole"})).
			Return(&database.WriteResult{
				Records: records,
				Summary: database.WriteSummary{NodesCreated: 1, PropertiesSet: 1, LabelsAdded: 1},
			}, nil)
		mockDB.EXPECT().
			Neo4jRecordsToJSON(records).
			Return(`[{"name": "Dana Cole"}]`, nil)

		deps := &tools.ToolDependencies{DBService: mockDB, AnalyticsService: analyticsService}
		handler := write.WriteCypherHandler(deps)

		result, err := handler(context.Background(), newCallToolRequest(map[string]any{
			"query":  "CREATE (p:Person {name: $name}) RETURN p.name AS name",
			"params": map[string]any{"name": "Dana Cole"},
		}))
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if result.IsError {
			t.Fatalf("Expected success result, got error: %s", resultText(t, result))
		}

		var response struct {
			Records []map[string]any      `json:"records"`
			Summary database.WriteSummary `json:"summary"`
		}
		if err := json.Unmarshal([]byte(resultText(t, result)), &response); err != nil {
			t.Fatalf("Expected valid JSON response, got: %v", err)
		}
		if len(response.Records) != 1 || response.Records[0]["name"] != "Dana Cole" {
			t.Errorf("Expected returned record, got %v", response.Records)
		}
		if response.Summary.NodesCreated != 1 {
			t.Errorf("Expected 1 node created, got %d", response.Summary.NodesCreated)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		mockDB := database_mocks.NewMockService(ctrl)
		deps := &tools.ToolDependencies{DBService: mockDB, AnalyticsService: analyticsService}
		handler := write.WriteCypherHandler(deps)

		result, err := handler(context.Background(), newCallToolRequest(map[string]any{}))
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if !result.IsError {
			t.Error("Expected error result for missing query")
		}
	})

	t.Run("write failure", func(t *testing.T) {
		mockDB := database_mocks.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()
		mockDB.EXPECT().
			ExecuteWriteQuery(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("constraint violation"))

		deps := &tools.ToolDependencies{DBService: mockDB, AnalyticsService: analyticsService}
		handler := write.WriteCypherHandler(deps)

		result, err := handler(context.Background(), newCallToolRequest(map[string]any{
			"query": "CREATE (n:Person {personKey: 'dup'})",
		}))
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if !result.IsError {
			t.Error("Expected error result for write failure")
		}
	})

	t.Run("nil analytics service", func(t *testing.T) {
		mockDB := database_mocks.NewMockService(ctrl)
		deps := &tools.ToolDependencies{DBService: mockDB, AnalyticsService: nil}
		handler := write.WriteCypherHandler(deps)

		result, err := handler(context.Background(), newCallToolRequest(map[string]any{
			"query": "MATCH (n) DETACH DELETE n",
		}))
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if !result.IsError {
			t.Error("Expected error result for nil analytics service")
		}
	})
}

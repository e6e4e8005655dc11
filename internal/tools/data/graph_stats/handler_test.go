package graph_stats_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	analytics_mocks "github.com/claimsight/neo4j-mcp-claims/internal/analytics/mocks"
	database_mocks "github.com/claimsight/neo4j-mcp-claims/internal/database/mocks"
	"github.com/claimsight/neo4j-mcp-claims/internal/graph"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/data/graph_stats"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/mock/gomock"
)

func countRecord(keys []string, label string, count int64) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: []any{label, count}}
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

func TestGraphStatsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	analyticsService := analytics_mocks.NewMockService(ctrl)
	analyticsService.EXPECT().NewToolsEvent("get-graph-stats").AnyTimes()
	analyticsService.EXPECT().EmitEvent(gomock.Any()).AnyTimes()

	t.Run("returns label and relationship counts", func(t *testing.T) {
		mockDB := database_mocks.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()
		mockDB.EXPECT().
			ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, query string, _ map[string]any) ([]*neo4j.Record, error) {
				if strings.Contains(query, "type(r)") {
					return []*neo4j.Record{
						countRecord([]string{"relType", "count"}, "FILED", 40),
					}, nil
				}
				return []*neo4j.Record{
					countRecord([]string{"label", "count"}, "Claim", 40),
					countRecord([]string{"label", "count"}, "Person", 25),
				}, nil
			}).
			Times(2)

		deps := &tools.ToolDependencies{DBService: mockDB, AnalyticsService: analyticsService}
		handler := graph_stats.Handler(deps)

		result, err := handler(context.Background(), mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if result.IsError {
			t.Fatalf("Expected success result, got error: %s", resultText(t, result))
		}

		var stats graph.GraphStats
		if err := json.Unmarshal([]byte(resultText(t, result)), &stats); err != nil {
			t.Fatalf("Expected valid JSON stats, got: %v", err)
		}
		if stats.Nodes["Claim"] != 40 || stats.Nodes["Person"] != 25 {
			t.Errorf("Expected node counts, got %v", stats.Nodes)
		}
		if stats.Relationships["FILED"] != 40 {
			t.Errorf("Expected relationship counts, got %v", stats.Relationships)
		}
	})

	t.Run("query failure", func(t *testing.T) {
		mockDB := database_mocks.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()
		mockDB.EXPECT().
			ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection failed"))

		deps := &tools.ToolDependencies{DBService: mockDB, AnalyticsService: analyticsService}
		handler := graph_stats.Handler(deps)

		result, err := handler(context.Background(), mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if !result.IsError {
			t.Error("Expected error result for query failure")
		}
	})

	t.Run("nil database service", func(t *testing.T) {
		deps := &tools.ToolDependencies{AnalyticsService: analyticsService}
		handler := graph_stats.Handler(deps)

		result, err := handler(context.Background(), mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if !result.IsError {
			t.Error("Expected error result for nil database service")
		}
	})
}

package schema_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	analytics_mocks "github.com/claimsight/neo4j-mcp-claims/internal/analytics/mocks"
	database_mocks "github.com/claimsight/neo4j-mcp-claims/internal/database/mocks"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"go.uber.org/mock/gomock"
)

func schemaText(t *testing.T, result *mcp.CallToolResult) string {
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

// visualizationRecord mirrors db.schema.visualization output: virtual
// nodes carry the label in their name property, virtual relationships the
// type.
func visualizationRecord() *neo4j.Record {
	claimNode := dbtype.Node{
		ElementId: "v:0",
		Props:     map[string]any{"name": "Claim"},
	}
	personNode := dbtype.Node{
		ElementId: "v:1",
		Props:     map[string]any{"name": "Person"},
	}
	filedRel := dbtype.Relationship{
		StartElementId: "v:1",
		EndElementId:   "v:0",
		Props:          map[string]any{"name": "FILED"},
	}
	return &neo4j.Record{
		Keys: []string{"nodes", "relationships"},
		Values: []any{
			[]any{claimNode, personNode},
			[]any{filedRel},
		},
	}
}

func TestGetSchemaHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	analyticsService := analytics_mocks.NewMockService(ctrl)
	analyticsService.EXPECT().NewToolsEvent("get-schema").AnyTimes()
	analyticsService.EXPECT().EmitEvent(gomock.Any()).AnyTimes()

	t.Run("successful schema retrieval", func(t *testing.T) {
		mockDB := database_mocks.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()

		mockDB.EXPECT().
			ExecuteReadQuery(gomock.Any(), gomock.Eq("CALL db.schema.visualization()"), nil).
			Return([]*neo4j.Record{visualizationRecord()}, nil)
		mockDB.EXPECT().
			ExecuteReadQuery(gomock.Any(), gomock.Any(), nil).
			Return([]*neo4j.Record{
				{
					Keys:   []string{"nodeLabels", "propertyName", "propertyTypes"},
					Values: []any{[]any{"Claim"}, "transactionId", []any{"String"}},
				},
			}, nil)
		mockDB.EXPECT().
			ExecuteReadQuery(gomock.Any(), gomock.Any(), nil).
			Return([]*neo4j.Record{}, nil)

		deps := &tools.ToolDependencies{DBService: mockDB, AnalyticsService: analyticsService}
		handler := schema.GetSchemaHandler(deps, 100)

		result, err := handler(context.Background(), mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if result.IsError {
			t.Fatalf("Expected success result, got error: %s", schemaText(t, result))
		}

		markdown := schemaText(t, result)
		if !strings.Contains(markdown, "Insurance Claims Database Schema") {
			t.Error("Expected claims context header in schema output")
		}
		if !strings.Contains(markdown, "### Claim") {
			t.Error("Expected Claim node section in schema output")
		}
		if !strings.Contains(markdown, "`transactionId` (String)") {
			t.Error("Expected transactionId property in schema output")
		}
		if !strings.Contains(markdown, "(:Person)-[:FILED]->(:Claim)") {
			t.Errorf("Expected FILED relationship pattern, got:\n%s", markdown)
		}
	})

	t.Run("empty database", func(t *testing.T) {
		mockDB := database_mocks.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()

		mockDB.EXPECT().
			ExecuteReadQuery(gomock.Any(), gomock.Eq("CALL db.schema.visualization()"), nil).
			Return([]*neo4j.Record{}, nil)
		mockDB.EXPECT().
			ExecuteReadQuery(gomock.Any(), gomock.Eq("MATCH (n) RETURN count(n) as nodeCount"), nil).
			Return([]*neo4j.Record{
				{Keys: []string{"nodeCount"}, Values: []any{int64(0)}},
			}, nil)

		deps := &tools.ToolDependencies{DBService: mockDB, AnalyticsService: analyticsService}
		handler := schema.GetSchemaHandler(deps, 100)

		result, err := handler(context.Background(), mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if result.IsError {
			t.Fatal("Expected success result for empty database")
		}
		if !strings.Contains(schemaText(t, result), "contains no data") {
			t.Errorf("Expected empty-database message, got: %s", schemaText(t, result))
		}
	})

	t.Run("falls back to APOC sampling", func(t *testing.T) {
		mockDB := database_mocks.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()

		mockDB.EXPECT().
			ExecuteReadQuery(gomock.Any(), gomock.Eq("CALL db.schema.visualization()"), nil).
			Return(nil, errors.New("There is no procedure with the name `db.schema.visualization`"))
		mockDB.EXPECT().
			ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Eq(map[string]any{"sample": 50})).
			Return([]*neo4j.Record{
				{
					Keys: []string{"key", "value"},
					Values: []any{
						"Claim",
						map[string]any{
							"type": "node",
							"properties": map[string]any{
								"transactionId": map[string]any{"type": "STRING"},
							},
							"relationships": map[string]any{
								"FILED": map[string]any{
									"direction":  "in",
									"labels":     []any{"Person"},
									"properties": map[string]any{},
								},
							},
						},
					},
				},
			}, nil)

		deps := &tools.ToolDependencies{DBService: mockDB, AnalyticsService: analyticsService}
		handler := schema.GetSchemaHandler(deps, 50)

		result, err := handler(context.Background(), mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if result.IsError {
			t.Fatalf("Expected success result, got error: %s", schemaText(t, result))
		}

		markdown := schemaText(t, result)
		if !strings.Contains(markdown, "### Claim") {
			t.Error("Expected Claim node section in APOC schema output")
		}
		if !strings.Contains(markdown, "(:Claim)<-[:FILED]-(:Person)") {
			t.Errorf("Expected incoming FILED pattern, got:\n%s", markdown)
		}
	})

	t.Run("database query failure on both paths", func(t *testing.T) {
		mockDB := database_mocks.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()
		mockDB.EXPECT().
			ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection failed")).
			Times(2)

		deps := &tools.ToolDependencies{DBService: mockDB, AnalyticsService: analyticsService}
		handler := schema.GetSchemaHandler(deps, 100)

		result, err := handler(context.Background(), mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("Expected no error from handler, got: %v", err)
		}
		if result == nil || !result.IsError {
			t.Error("Expected error result")
		}
	})

	t.Run("nil database service", func(t *testing.T) {
		deps := &tools.ToolDependencies{DBService: nil, AnalyticsService: analyticsService}
		handler := schema.GetSchemaHandler(deps, 100)

		result, err := handler(context.Background(), mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if result == nil || !result.IsError {
			t.Error("Expected error result for nil database service")
		}
	})
}

package ingest_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	analytics_mocks "github.com/claimsight/neo4j-mcp-claims/internal/analytics/mocks"
	"github.com/claimsight/neo4j-mcp-claims/internal/config"
	"github.com/claimsight/neo4j-mcp-claims/internal/database"
	database_mocks "github.com/claimsight/neo4j-mcp-claims/internal/database/mocks"
	"github.com/claimsight/neo4j-mcp-claims/internal/engine"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/claims/ingest"
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

func singleCountRecord(key string, value int64) []*neo4j.Record {
	return []*neo4j.Record{{Keys: []string{key}, Values: []any{value}}}
}

// stubEngineReads wires the read queries a bare-claim ingestion issues:
// the summary pair plus the velocity detector.
func stubEngineReads(mockDB *database_mocks.MockService) {
	mockDB.EXPECT().
		ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, query string, _ map[string]any) ([]*neo4j.Record, error) {
			switch {
			case strings.Contains(query, "totalClaims"):
				return singleCountRecord("totalClaims", 1), nil
			case strings.Contains(query, "[*1..2]"):
				return []*neo4j.Record{}, nil
			case strings.Contains(query, "personKey: $personKey"):
				return singleCountRecord("filedClaims", 1), nil
			default:
				return []*neo4j.Record{}, nil
			}
		}).
		AnyTimes()
}

func TestIngestClaimHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	analyticsService := analytics_mocks.NewMockService(ctrl)
	analyticsService.EXPECT().NewToolsEvent("ingest-claim").AnyTimes()
	analyticsService.EXPECT().NewIngestEvent(gomock.Any()).AnyTimes()
	analyticsService.EXPECT().EmitEvent(gomock.Any()).AnyTimes()

	t.Run("ingests claim and reports verdict", func(t *testing.T) {
		mockDB := database_mocks.NewMockService(ctrl)
		mockDB.EXPECT().
			ExecuteWriteQuery(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&database.WriteResult{
				Summary: database.WriteSummary{NodesCreated: 2, RelationshipsCreated: 1},
			}, nil)
		stubEngineReads(mockDB)

		deps := &tools.ToolDependencies{
			DBService:        mockDB,
			AnalyticsService: analyticsService,
			Engine:           engine.New(mockDB, config.Detection{}),
		}
		handler := ingest.Handler(deps)

		result, err := handler(context.Background(), newCallToolRequest(map[string]any{
			"claim": map[string]any{
				"transaction_id": "TXN-2001",
				"claim_type":     "motor",
				"customer_id":    "CUST-9",
			},
		}))
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if result.IsError {
			t.Fatalf("Expected success result, got error: %s", resultText(t, result))
		}

		var report engine.Result
		if err := json.Unmarshal([]byte(resultText(t, result)), &report); err != nil {
			t.Fatalf("Expected valid JSON report, got: %v", err)
		}
		if !report.Success {
			t.Error("Expected success flag in report")
		}
		if report.ClaimID != "TXN-2001" {
			t.Errorf("Expected claim id TXN-2001, got %s", report.ClaimID)
		}
		if report.NodesCreated != 2 {
			t.Errorf("Expected 2 nodes created, got %d", report.NodesCreated)
		}
		if report.Recommendation != "APPROVE" {
			t.Errorf("Expected APPROVE for clean claim, got %s", report.Recommendation)
		}
	})

	t.Run("records claim type in analytics", func(t *testing.T) {
		localCtrl := gomock.NewController(t)
		defer localCtrl.Finish()

		localAnalytics := analytics_mocks.NewMockService(localCtrl)
		localAnalytics.EXPECT().NewToolsEvent("ingest-claim")
		localAnalytics.EXPECT().NewIngestEvent("motor")
		localAnalytics.EXPECT().EmitEvent(gomock.Any()).Times(2)

		mockDB := database_mocks.NewMockService(localCtrl)
		mockDB.EXPECT().
			ExecuteWriteQuery(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&database.WriteResult{}, nil)
		stubEngineReads(mockDB)

		deps := &tools.ToolDependencies{
			DBService:        mockDB,
			AnalyticsService: localAnalytics,
			Engine:           engine.New(mockDB, config.Detection{}),
		}
		handler := ingest.Handler(deps)

		result, err := handler(context.Background(), newCallToolRequest(map[string]any{
			"claim": map[string]any{
				"transaction_id": "TXN-2002",
				"claim_type":     "motor",
			},
		}))
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if result.IsError {
			t.Fatalf("Expected success result, got error: %s", resultText(t, result))
		}
	})

	t.Run("missing transaction id", func(t *testing.T) {
		mockDB := database_mocks.NewMockService(ctrl)

		deps := &tools.ToolDependencies{
			DBService:        mockDB,
			AnalyticsService: analyticsService,
			Engine:           engine.New(mockDB, config.Detection{}),
		}
		handler := ingest.Handler(deps)

		result, err := handler(context.Background(), newCallToolRequest(map[string]any{
			"claim": map[string]any{"claim_type": "motor"},
		}))
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if !result.IsError {
			t.Error("Expected error result for missing transaction id")
		}
		if !strings.Contains(resultText(t, result), "transaction") {
			t.Errorf("Expected error to mention transaction id, got: %s", resultText(t, result))
		}
	})

	t.Run("empty claim", func(t *testing.T) {
		mockDB := database_mocks.NewMockService(ctrl)

		deps := &tools.ToolDependencies{
			DBService:        mockDB,
			AnalyticsService: analyticsService,
			Engine:           engine.New(mockDB, config.Detection{}),
		}
		handler := ingest.Handler(deps)

		result, err := handler(context.Background(), newCallToolRequest(map[string]any{}))
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if !result.IsError {
			t.Error("Expected error result for empty claim")
		}
	})

	t.Run("nil engine", func(t *testing.T) {
		deps := &tools.ToolDependencies{AnalyticsService: analyticsService}
		handler := ingest.Handler(deps)

		result, err := handler(context.Background(), newCallToolRequest(map[string]any{
			"claim": map[string]any{"transaction_id": "TXN-2003"},
		}))
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if !result.IsError {
			t.Error("Expected error result for nil engine")
		}
	})
}

//go:build integration

// Package helpers carries the shared harness for integration tests: a
// per-test context wired to the containerized Neo4j, tool invocation
// shortcuts, and data seeding with automatic cleanup.
package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/claimsight/neo4j-mcp-claims/internal/analytics"
	"github.com/claimsight/neo4j-mcp-claims/internal/config"
	"github.com/claimsight/neo4j-mcp-claims/internal/database"
	"github.com/claimsight/neo4j-mcp-claims/internal/engine"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
)

// Label is a test-scoped node label, safe for direct use in Cypher text.
type Label string

func (l Label) String() string { return string(l) }

// TestContext bundles everything a test needs to drive tools against the
// shared database: real services, a claims engine, and cleanup tracking.
// Tests isolate from each other through unique labels and unique natural
// identifiers, so they can run in parallel against one container.
type TestContext struct {
	T      *testing.T
	Ctx    context.Context
	Driver neo4j.DriverWithContext
	DB     database.Service
	Deps   *tools.ToolDependencies

	labels map[string]Label
}

// NewTestContext builds a context over the shared driver. Analytics is
// disabled so tests never emit telemetry.
func NewTestContext(t *testing.T, driver neo4j.DriverWithContext) *TestContext {
	t.Helper()

	db := database.NewServiceWithDriver(driver, "neo4j")
	return &TestContext{
		T:      t,
		Ctx:    context.Background(),
		Driver: driver,
		DB:     db,
		Deps: &tools.ToolDependencies{
			DBService:        db,
			AnalyticsService: analytics.NewService(true),
			Engine:           engine.New(db, config.Detection{}),
		},
		labels: make(map[string]Label),
	}
}

// GetUniqueLabel returns a label unique to this test and schedules removal
// of every node carrying it. Repeated calls with the same base name return
// the same label.
func (tc *TestContext) GetUniqueLabel(base string) Label {
	tc.T.Helper()

	if label, ok := tc.labels[base]; ok {
		return label
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	label := Label(fmt.Sprintf("%s_%s", base, suffix))
	tc.labels[base] = label

	tc.T.Cleanup(func() {
		query := fmt.Sprintf("MATCH (n:%s) DETACH DELETE n", label)
		if _, err := tc.DB.ExecuteWriteQuery(context.Background(), query, nil); err != nil {
			tc.T.Logf("cleanup of label %s failed: %v", label, err)
		}
	})
	return label
}

// SeedNode creates one node carrying the unique label registered for the
// base name and returns its element id.
func (tc *TestContext) SeedNode(base string, props map[string]any) (string, error) {
	label, ok := tc.labels[base]
	if !ok {
		label = tc.GetUniqueLabel(base)
	}

	query := fmt.Sprintf("CREATE (n:%s) SET n = $props RETURN elementId(n) AS id", label)
	result, err := tc.DB.ExecuteWriteQuery(tc.Ctx, query, map[string]any{"props": props})
	if err != nil {
		return "", err
	}
	if len(result.Records) == 0 {
		return "", fmt.Errorf("seed of %s returned no record", label)
	}

	id, _ := result.Records[0].Get("id")
	elementID, ok := id.(string)
	if !ok {
		return "", fmt.Errorf("seed of %s returned non-string id %T", label, id)
	}
	return elementID, nil
}

// CleanupCypher schedules a write query to run when the test finishes.
func (tc *TestContext) CleanupCypher(query string, params map[string]any) {
	tc.T.Cleanup(func() {
		if _, err := tc.DB.ExecuteWriteQuery(context.Background(), query, params); err != nil {
			tc.T.Logf("cleanup query failed: %v", err)
		}
	})
}

// CleanupClaimData removes an ingested claim, its filer, and any satellite
// nodes the deletion leaves orphaned.
func (tc *TestContext) CleanupClaimData(transactionID, customerID string) {
	tc.T.Cleanup(func() {
		ctx := context.Background()
		statements := []struct {
			query  string
			params map[string]any
		}{
			{"MATCH (c:Claim {transactionId: $id}) DETACH DELETE c", map[string]any{"id": transactionID}},
			{"MATCH (p:Person {customerId: $id}) DETACH DELETE p", map[string]any{"id": customerID}},
			{"MATCH (n:Policy) WHERE NOT (n)<-[:UNDER_POLICY]-() DELETE n", nil},
			{"MATCH (n:Agent) WHERE NOT (n)<-[:HANDLED_BY]-() DELETE n", nil},
			{"MATCH (n:Vendor) WHERE NOT (n)<-[:SERVICED_BY]-() DELETE n", nil},
			{"MATCH (n:Asset) WHERE NOT (n)<-[:INVOLVES]-() DELETE n", nil},
			{"MATCH (n:Address) WHERE NOT (n)<-[:LIVES_AT]-() DELETE n", nil},
		}
		for _, stmt := range statements {
			if _, err := tc.DB.ExecuteWriteQuery(ctx, stmt.query, stmt.params); err != nil {
				tc.T.Logf("claim cleanup failed: %v", err)
			}
		}
	})
}

// CallTool invokes a tool handler and fails the test on a transport error
// or an error result.
func (tc *TestContext) CallTool(handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	tc.T.Helper()

	request := mcp.CallToolRequest{}
	request.Params.Arguments = args

	result, err := handler(tc.Ctx, request)
	if err != nil {
		tc.T.Fatalf("tool handler returned error: %v", err)
	}
	if result == nil {
		tc.T.Fatal("tool handler returned nil result")
	}
	if result.IsError {
		tc.T.Fatalf("tool returned error result: %s", ResultText(tc.T, result))
	}
	return result
}

// CallToolExpectError invokes a tool handler and requires an error result.
func (tc *TestContext) CallToolExpectError(handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) string {
	tc.T.Helper()

	request := mcp.CallToolRequest{}
	request.Params.Arguments = args

	result, err := handler(tc.Ctx, request)
	if err != nil {
		tc.T.Fatalf("tool handler returned error: %v", err)
	}
	if result == nil || !result.IsError {
		tc.T.Fatal("expected tool error result")
	}
	return ResultText(tc.T, result)
}

// ResultText extracts the first text content block of a tool result.
func ResultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	if len(result.Content) == 0 {
		t.Fatal("expected result content, got none")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

// ParseJSONResponse unmarshals the tool's text payload into v.
func (tc *TestContext) ParseJSONResponse(result *mcp.CallToolResult, v any) {
	tc.T.Helper()

	text := ResultText(tc.T, result)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		tc.T.Fatalf("failed to parse tool response as JSON: %v\nresponse: %s", err, text)
	}
}

// AssertNodeProperties checks expected properties on a JSON-rendered node.
func (tc *TestContext) AssertNodeProperties(node map[string]any, want map[string]any) {
	tc.T.Helper()

	props, ok := node["properties"].(map[string]any)
	if !ok {
		tc.T.Fatalf("node carries no properties map: %v", node)
	}
	for key, expected := range want {
		if got := props[key]; got != expected {
			tc.T.Errorf("property %s: expected %v, got %v", key, expected, got)
		}
	}
}

// AssertNodeHasLabel checks that a JSON-rendered node carries the label.
func (tc *TestContext) AssertNodeHasLabel(node map[string]any, label Label) {
	tc.T.Helper()

	labels, ok := node["labels"].([]any)
	if !ok {
		tc.T.Fatalf("node carries no labels list: %v", node)
	}
	for _, l := range labels {
		if l == label.String() {
			return
		}
	}
	tc.T.Errorf("node labels %v do not include %s", labels, label)
}

// VerifyNodeInDB asserts that at least one node with the label and the
// given properties exists, querying the database directly.
func (tc *TestContext) VerifyNodeInDB(label Label, props map[string]any) {
	tc.T.Helper()

	query := fmt.Sprintf(
		"MATCH (n:%s) WHERE ALL(k IN keys($props) WHERE n[k] = $props[k]) RETURN count(n) AS found",
		label,
	)
	records, err := tc.DB.ExecuteReadQuery(tc.Ctx, query, map[string]any{"props": props})
	if err != nil {
		tc.T.Fatalf("verification query failed: %v", err)
	}
	if len(records) == 0 {
		tc.T.Fatal("verification query returned no records")
	}

	found, _ := records[0].Get("found")
	if count, ok := found.(int64); !ok || count == 0 {
		tc.T.Errorf("no %s node found with properties %v", label, props)
	}
}

package database

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

func TestNeo4jRecordsToJSON(t *testing.T) {
	svc := &neo4jService{databaseName: "neo4j"}

	records := []*neo4j.Record{
		{
			Keys: []string{"name", "count"},
			Values: []any{
				"Alice",
				int64(3),
			},
		},
	}

	out, err := svc.Neo4jRecordsToJSON(records)
	if err != nil {
		t.Fatalf("Neo4jRecordsToJSON returned error: %v", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0]["name"] != "Alice" {
		t.Errorf("expected name Alice, got %v", rows[0]["name"])
	}
	if rows[0]["count"] != float64(3) {
		t.Errorf("expected count 3, got %v", rows[0]["count"])
	}
}

func TestNeo4jRecordsToJSONEmpty(t *testing.T) {
	svc := &neo4jService{databaseName: "neo4j"}

	out, err := svc.Neo4jRecordsToJSON(nil)
	if err != nil {
		t.Fatalf("Neo4jRecordsToJSON returned error: %v", err)
	}
	if out != "[]" {
		t.Errorf("expected empty JSON array, got %s", out)
	}
}

func TestSanitizeValueNode(t *testing.T) {
	node := dbtype.Node{
		ElementId: "4:abc:1",
		Labels:    []string{"Claim"},
		Props: map[string]any{
			"transaction_id": "T1",
			"amount":         12500.0,
		},
	}

	got := sanitizeValue(node)
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("expected map for node, got %T", got)
	}
	if m["elementId"] != "4:abc:1" {
		t.Errorf("expected elementId preserved, got %v", m["elementId"])
	}
	props, ok := m["properties"].(map[string]any)
	if !ok {
		t.Fatalf("expected properties map, got %T", m["properties"])
	}
	if props["transaction_id"] != "T1" {
		t.Errorf("expected transaction_id T1, got %v", props["transaction_id"])
	}
}

func TestSanitizeValueRelationship(t *testing.T) {
	rel := dbtype.Relationship{
		ElementId:      "5:abc:9",
		StartElementId: "4:abc:1",
		EndElementId:   "4:abc:2",
		Type:           "FILED",
		Props:          map[string]any{},
	}

	got := sanitizeValue(rel)
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("expected map for relationship, got %T", got)
	}
	if m["type"] != "FILED" {
		t.Errorf("expected type FILED, got %v", m["type"])
	}
}

func TestSanitizeValueNested(t *testing.T) {
	value := map[string]any{
		"list": []any{int64(1), "two", nil},
		"when": time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	got := sanitizeValue(value)
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", got)
	}
	list, ok := m["list"].([]any)
	if !ok || len(list) != 3 {
		t.Fatalf("expected 3-element list, got %v", m["list"])
	}
	when, ok := m["when"].(string)
	if !ok {
		t.Fatalf("expected RFC3339 string for time, got %T", m["when"])
	}
	if when != "2024-05-01T12:00:00Z" {
		t.Errorf("unexpected time format: %s", when)
	}
}

package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// Neo4jRecordsToJSON renders the record set as a JSON array. Each record
// becomes an object keyed by its return aliases; driver-specific values are
// flattened so the output is plain JSON a client can consume directly.
func (s *neo4jService) Neo4jRecordsToJSON(records []*neo4j.Record) (string, error) {
	out := make([]map[string]any, 0, len(records))

	for _, record := range records {
		row := make(map[string]any, len(record.Keys))
		for i, key := range record.Keys {
			row[key] = sanitizeValue(record.Values[i])
		}
		out = append(out, row)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to marshal records to JSON: %w", err)
	}
	return string(data), nil
}

// sanitizeValue converts a single driver value into a JSON-friendly shape.
// Nodes and relationships keep their identity, labels/type, and properties;
// temporal and spatial types are rendered through their string forms.
func sanitizeValue(value any) any {
	switch v := value.(type) {
	case nil, bool, int64, float64, string:
		return v
	case []any:
		list := make([]any, len(v))
		for i, item := range v {
			list[i] = sanitizeValue(item)
		}
		return list
	case map[string]any:
		m := make(map[string]any, len(v))
		for key, item := range v {
			m[key] = sanitizeValue(item)
		}
		return m
	case dbtype.Node:
		return map[string]any{
			"elementId":  v.ElementId,
			"labels":     v.Labels,
			"properties": sanitizeValue(v.Props),
		}
	case dbtype.Relationship:
		return map[string]any{
			"elementId":      v.ElementId,
			"type":           v.Type,
			"startElementId": v.StartElementId,
			"endElementId":   v.EndElementId,
			"properties":     sanitizeValue(v.Props),
		}
	case dbtype.Path:
		nodes := make([]any, len(v.Nodes))
		for i, n := range v.Nodes {
			nodes[i] = sanitizeValue(n)
		}
		rels := make([]any, len(v.Relationships))
		for i, r := range v.Relationships {
			rels[i] = sanitizeValue(r)
		}
		return map[string]any{"nodes": nodes, "relationships": rels}
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case dbtype.Date:
		return v.String()
	case dbtype.LocalDateTime:
		return v.String()
	case dbtype.LocalTime:
		return v.String()
	case dbtype.Time:
		return v.String()
	case dbtype.Duration:
		return v.String()
	case dbtype.Point2D:
		return v.String()
	case dbtype.Point3D:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

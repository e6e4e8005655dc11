package database

//go:generate mockgen -destination=mocks/mock_database.go -package=database_mocks -typed github.com/claimsight/neo4j-mcp-claims/internal/database Service

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// WriteSummary reports what a write query actually changed in the graph, as
// counted by the server-side transaction summary. Idempotent re-ingestion of
// a claim shows up here as all-zero creation counters.
type WriteSummary struct {
	NodesCreated         int `json:"nodes_created"`
	NodesDeleted         int `json:"nodes_deleted"`
	RelationshipsCreated int `json:"relationships_created"`
	RelationshipsDeleted int `json:"relationships_deleted"`
	PropertiesSet        int `json:"properties_set"`
	LabelsAdded          int `json:"labels_added"`
	ConstraintsAdded     int `json:"constraints_added"`
	IndexesAdded         int `json:"indexes_added"`
}

// WriteResult carries both the records returned by a write query and the
// mutation counters from its transaction summary.
type WriteResult struct {
	Records []*neo4j.Record
	Summary WriteSummary
}

// Service is the database access surface shared by the engine and the MCP
// tools. Read and write queries are routed separately so the driver can
// direct them at the appropriate cluster members.
type Service interface {
	// ExecuteReadQuery runs a read-only Cypher query inside a read
	// transaction and returns the eager record set.
	ExecuteReadQuery(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error)

	// ExecuteWriteQuery runs a mutating Cypher query inside a single write
	// transaction. The whole statement commits or rolls back as one unit.
	ExecuteWriteQuery(ctx context.Context, query string, params map[string]any) (*WriteResult, error)

	// Neo4jRecordsToJSON renders records as a JSON array string, flattening
	// driver types (nodes, relationships, paths, temporal values) into plain
	// JSON structures.
	Neo4jRecordsToJSON(records []*neo4j.Record) (string, error)

	// GetDatabaseName returns the name of the database queries run against.
	GetDatabaseName() string

	// VerifyConnectivity confirms the server is reachable with the
	// configured credentials.
	VerifyConnectivity(ctx context.Context) error

	// Close releases the underlying driver and its connection pool.
	Close(ctx context.Context) error
}

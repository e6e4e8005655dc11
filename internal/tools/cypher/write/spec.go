package write

import (
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/cypher/utils"
	"github.com/mark3labs/mcp-go/mcp"
)

type WriteCypherInput struct {
	Query  string       `json:"query" jsonschema:"description=The Cypher query to execute"`
	Params utils.Params `json:"params,omitempty" jsonschema:"default={},description=Parameters to pass to the Cypher query"`
}

func WriteCypherSpec() mcp.Tool {
	return mcp.NewTool("write-cypher",
		mcp.WithDescription(`write-cypher runs Cypher statements that mutate the graph (CREATE, MERGE, DELETE, SET, ...) as well as schema and admin commands.

Prefer ingest-claim for loading insurance claims: it normalizes the payload, projects it with idempotent MERGE semantics, and runs fraud detection in the same call. Use write-cypher for corrections, cleanup, and schema changes that the dedicated tools do not cover.

This tool is hidden when the server runs in read-only mode.`),
		mcp.WithInputSchema[WriteCypherInput](),
		mcp.WithTitleAnnotation("Write Cypher"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

package read

import (
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/cypher/utils"
	"github.com/mark3labs/mcp-go/mcp"
)

// ReadCypherInput is the input schema for the read-cypher tool.
type ReadCypherInput struct {
	Query  string       `json:"query" jsonschema:"default=MATCH(n) RETURN n,description=The Cypher query to execute"`
	Params utils.Params `json:"params,omitempty" jsonschema:"default={},description=Parameters to pass to the Cypher query"`
}

func ReadCypherSpec() mcp.Tool {
	return mcp.NewTool("read-cypher",
		mcp.WithDescription("Runs read-only Cypher against the claims graph. Statements that write (CREATE, MERGE, DELETE, SET, etc...), schema/admin commands, and PROFILE queries are rejected; use write-cypher for those."),
		mcp.WithInputSchema[ReadCypherInput](),
		mcp.WithTitleAnnotation("Read Cypher"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

package models

import "github.com/mark3labs/mcp-go/mcp"

// GetReferenceModelsSpec returns the tool specification for get-data-models.
func GetReferenceModelsSpec() mcp.Tool {
	return mcp.NewTool("get-data-models",
		mcp.WithDescription(`
		Downloads Neo4j's published reference data models for fraud detection.

		The models document recommended node labels, properties, and relationship patterns for transactions, identities, and investigation artifacts such as Cases and Alerts. They describe what Neo4j recommends, not what the claims graph currently contains.

		Use them to compare the live claims schema against industry patterns, or to plan schema extensions when new fraud signals need a home in the graph.`),
		mcp.WithTitleAnnotation("Get Data Models"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

package schema

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func EnrichSchemaSpec() mcp.Tool {
	return mcp.NewTool("enrich-schema",
		mcp.WithDescription(`
		Assembles everything needed for LLM-driven schema annotation: the raw schema, the reference data models, and the prompt that joins them.

		Call get-schema first to see the raw structure, then this tool, then feed the returned prompt to the LLM to produce the annotated schema.

		Reference models default to Neo4j's published transaction and fraud event models plus the bundled claims data model when it ships alongside the binary. Matching tolerates renamed properties and synonyms (cust_id against customerId), so an imperfectly named schema still annotates.

		The enriched output covers the business meaning of labels, relationships, and properties, their role in fraud investigation, recommended additions the database lacks, and deviations from the reference patterns.

		Optional parameters:
		- reference_model_urls: comma-separated URLs of reference data model files to fetch instead of the defaults
		- reference_model_path: path to a local reference data model document

		RETURNS: JSON with raw_schema, reference_model, prompt, and instructions.
		`),
		mcp.WithString("reference_model_urls",
			mcp.Description("Comma-separated list of URLs to Neo4j reference data model files"),
		),
		mcp.WithString("reference_model_path",
			mcp.Description("Path to a local reference data model document"),
		),
		mcp.WithTitleAnnotation("Enrich Claims Schema with Context"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

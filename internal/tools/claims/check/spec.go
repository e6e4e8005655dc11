package check

import "github.com/mark3labs/mcp-go/mcp"

type CheckClaimInput struct {
	TransactionID string `json:"transactionId" jsonschema:"description=The transaction id of an already-ingested claim"`
}

// Spec returns the MCP tool specification for re-checking a stored claim
func Spec() mcp.Tool {
	return mcp.NewTool("check-claim-fraud",
		mcp.WithDescription(`Re-runs fraud detection for a claim that is already in the graph, without writing anything.

Use this after the graph has grown (more claims ingested, corrections applied) to see whether a previously scored claim now matches new patterns. The stored claim facts are read back from the graph, every detector runs against the current neighborhood, and the findings are aggregated into a fresh fraud score and routing recommendation.

Returns the same JSON report shape as ingest-claim with zero creation counters. Fails with a not-found error when no claim with the given transaction id exists.`),
		mcp.WithInputSchema[CheckClaimInput](),
		mcp.WithTitleAnnotation("Check Claim for Fraud"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

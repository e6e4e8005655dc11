package neighborhood

import "github.com/mark3labs/mcp-go/mcp"

type ClaimGraphInput struct {
	TransactionID string `json:"transactionId" jsonschema:"description=The transaction id of the claim to visualize"`
}

// Spec returns the MCP tool specification for claim neighborhood retrieval
func Spec() mcp.Tool {
	return mcp.NewTool("get-claim-graph",
		mcp.WithDescription(`Returns the graph neighborhood of one claim as a visualization-ready payload.

Collects every node within two hops of the claim (the claimant, their policy, the handling agent, the servicing vendor, involved assets, addresses, and any other claims connected through them) plus the relationships between those nodes.

The result is a JSON object with a "nodes" array (id, labels, properties) and an "edges" array (source, target, type). Node ids are the entities' natural identifiers (transaction id, customer key, policy number, ...) so edges are stable across calls.

Fails with a not-found error when no claim with the given transaction id exists.`),
		mcp.WithInputSchema[ClaimGraphInput](),
		mcp.WithTitleAnnotation("Get Claim Graph"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

package graph_stats

import "github.com/mark3labs/mcp-go/mcp"

// Spec returns the MCP tool specification for graph statistics
func Spec() mcp.Tool {
	return mcp.NewTool("get-graph-stats",
		mcp.WithDescription(`Returns database-wide counts for the claims graph.

The result is a JSON object with per-label node counts (Claim, Person, Policy, Agent, Vendor, Asset, Address, ...) and per-type relationship counts (FILED, UNDER_POLICY, HANDLED_BY, SERVICED_BY, INVOLVES, LIVES_AT, ...).

Useful as a quick health check after bulk ingestion and for sizing investigation queries before running them.`),
		mcp.WithTitleAnnotation("Get Graph Statistics"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

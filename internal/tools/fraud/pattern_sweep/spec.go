package pattern_sweep

import "github.com/mark3labs/mcp-go/mcp"

type SweepFraudPatternsInput struct {
	Pattern string `json:"pattern,omitempty" jsonschema:"description=Optional: single pattern to scan (shared_ssn, collusive_ring, asset_recycling, velocity, double_dipping, shared_address). Omit to sweep every pattern."`
	Limit   int    `json:"limit,omitempty" jsonschema:"default=10,description=Maximum number of cases to return per pattern"`
}

// Spec returns the MCP tool specification for the batch fraud-pattern sweep
func Spec() mcp.Tool {
	return mcp.NewTool("sweep-fraud-patterns",
		mcp.WithDescription(`Scans the whole claims graph for known fraud patterns. Unlike check-claim-fraud, which scores one claim, this tool surfaces every suspicious cluster currently in the graph. Operates in two modes:

**MODE 1 - Discovery Mode (pattern omitted):**
Runs every scan and returns each pattern with at least one case. Use this for periodic portfolio reviews.
Example: "Sweep the graph for fraud patterns"

**MODE 2 - Scoped Mode (pattern provided):**
Runs a single scan. Use this to drill into one pattern after a discovery sweep.
Example: "Show me every recycled asset"

**Patterns scanned:**
- shared_ssn (CRITICAL): multiple claimants carrying the same SSN
- collusive_ring (HIGH): agent/vendor pairs co-occurring on an unusual number of claims
- asset_recycling (HIGH): the same VIN/IMEI/property attached to multiple claims
- velocity (HIGH): claimants whose filed-claim count crosses the velocity threshold
- double_dipping (HIGH): claim pairs sharing exact amount, loss date, and type
- shared_address (MEDIUM): several claim-filing residents at one address

**Returns:**
- One report per pattern: risk level, description, case count, and the matching cases with their identifiers
- Patterns with no cases are omitted
- Scan thresholds follow the server's detection settings, so sweep results line up with per-claim verdicts

**Investigation workflow:**
1. Run a discovery sweep to see which patterns are present
2. Re-run scoped on the pattern under investigation with a higher limit
3. Pull individual clusters with get-claim-graph or get-claimant-profile
4. Use get-referral-guidance to decide which cases warrant an SIU referral`),
		mcp.WithInputSchema[SweepFraudPatternsInput](),
		mcp.WithTitleAnnotation("Sweep Fraud Patterns"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

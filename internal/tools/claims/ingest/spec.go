package ingest

import "github.com/mark3labs/mcp-go/mcp"

type IngestClaimInput struct {
	Claim map[string]any `json:"claim" jsonschema:"description=The raw claim payload as a JSON object. Fields may sit top-level or nested in their claim sections; the extraction.data and result envelope wrappers are unwrapped automatically."`
}

// Spec returns the MCP tool specification for claim ingestion
func Spec() mcp.Tool {
	return mcp.NewTool("ingest-claim",
		mcp.WithDescription(`Ingests an insurance claim into the graph and runs fraud detection on it in a single call.

The claim payload is a JSON object. Ingestion is tolerant of messy extractions: each field is probed top-level first and then through the known nested sections (policyholder_info, claim_summary, vehicle/device/property details), and the extraction.data and result envelope wrappers are unwrapped. Only transaction_id is required; every other field is optional and its absence simply disables the detectors that depend on it.

**Recognized fields:**
- transaction_id (required): unique claim identifier
- claim_type: health, motor, mobile, property, life, or travel (unknown types degrade to generic)
- claim_amount: number or currency string ("$12,500.00")
- claim_date, severity, status
- customer_id, customer_name, ssn
- policy_number, agent_id, vendor_id
- address_line1, city, state, postal_code
- claim-type assets: vin (motor), imei (mobile), property_address (property)

**What happens:**
1. The payload is normalized into canonical claim facts
2. Facts are projected into the graph with idempotent MERGE semantics (re-ingesting the same transaction_id creates nothing new)
3. Fraud detectors run against the connected neighborhood: shared SSN, agent-vendor collusion, asset recycling, claim velocity, double dipping, high value
4. Findings are aggregated into a fraud score with a routing recommendation (APPROVE, MANUAL_REVIEW, REJECT)

Returns a JSON report with creation counters, the fraud verdict, per-pattern findings with evidence, and a summary of the claim's graph neighborhood.

This tool is hidden when the server runs in read-only mode.`),
		mcp.WithInputSchema[IngestClaimInput](),
		mcp.WithTitleAnnotation("Ingest Insurance Claim"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

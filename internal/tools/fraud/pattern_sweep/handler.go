package pattern_sweep

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/claimsight/neo4j-mcp-claims/internal/detect"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
)

const defaultLimit = 10

// sharedAddressPattern has no per-claim detector; it only exists as a
// graph-wide scan.
const sharedAddressPattern = "shared_address"

const sharedSSNScanQuery = `MATCH (p:Person)
WHERE p.ssn IS NOT NULL AND p.ssn <> ''
WITH p.ssn AS sharedSsn, collect(DISTINCT p.name) AS claimants, count(DISTINCT p) AS ringSize
WHERE ringSize > 1
RETURN sharedSsn, claimants, ringSize
ORDER BY ringSize DESC
LIMIT $limit`

const collusiveRingScanQuery = `MATCH (ag:Agent)<-[:HANDLED_BY]-(claim:Claim)-[:SERVICED_BY]->(vn:Vendor)
WITH ag, vn, count(DISTINCT claim) AS sharedClaims
WHERE sharedClaims > $minSharedClaims
RETURN ag.agentId AS agentId, vn.vendorId AS vendorId, sharedClaims
ORDER BY sharedClaims DESC
LIMIT $limit`

const assetRecyclingScanQuery = `MATCH (claim:Claim)-[:INVOLVES]->(a:Asset)
WITH a, count(DISTINCT claim) AS claimCount, collect(DISTINCT claim.transactionId) AS claimIds
WHERE claimCount >= $minClaims
RETURN a.kind AS assetKind, a.value AS assetId, claimCount, claimIds
ORDER BY claimCount DESC
LIMIT $limit`

const velocityScanQuery = `MATCH (p:Person)-[:FILED]->(claim:Claim)
WITH p, count(DISTINCT claim) AS claimCount, sum(claim.claimAmount) AS totalClaimed, collect(claim.transactionId) AS claims
WHERE claimCount >= $minClaims
RETURN p.personKey AS personKey, p.name AS claimantName, claimCount, totalClaimed, claims
ORDER BY claimCount DESC
LIMIT $limit`

const doubleDippingScanQuery = `MATCH (c1:Claim), (c2:Claim)
WHERE c1.transactionId < c2.transactionId
  AND c1.claimAmount = c2.claimAmount
  AND c1.claimDate = c2.claimDate
  AND c1.claimType = c2.claimType
RETURN c1.transactionId AS claim1, c2.transactionId AS claim2, c1.claimAmount AS amount, c1.claimType AS claimType
LIMIT $limit`

const sharedAddressScanQuery = `MATCH (p:Person)-[:LIVES_AT]->(addr:Address)
MATCH (p)-[:FILED]->(claim:Claim)
WITH addr, count(DISTINCT p) AS personCount, collect(DISTINCT p.name) AS claimants, count(DISTINCT claim) AS claimCount
WHERE personCount > 1 AND claimCount > 2
RETURN addr.line1 AS line1, addr.city AS city, addr.state AS state, personCount, claimCount, claimants
ORDER BY claimCount DESC
LIMIT $limit`

// patternScan is one graph-wide scan with its report metadata.
type patternScan struct {
	Name        string
	Risk        string
	Description string
	Query       string
	Params      map[string]any
}

// patternReport is one pattern's entry in the sweep response.
type patternReport struct {
	Pattern     string          `json:"pattern"`
	Risk        string          `json:"risk"`
	Description string          `json:"description"`
	CaseCount   int             `json:"case_count"`
	Cases       json.RawMessage `json:"cases"`
}

type sweepResponse struct {
	Mode          string          `json:"mode"`
	PatternsFound int             `json:"patterns_found"`
	Patterns      []patternReport `json:"patterns"`
}

// sweepScans returns every scan in report order, with thresholds taken
// from the detection settings so sweep and per-claim verdicts agree.
func sweepScans(cfg detect.Config, limit int) []patternScan {
	return []patternScan{
		{
			Name:        string(detect.PatternSharedSSN),
			Risk:        "CRITICAL",
			Description: "multiple claimants carrying the same SSN",
			Query:       sharedSSNScanQuery,
			Params:      map[string]any{"limit": limit},
		},
		{
			Name:        string(detect.PatternCollusiveRing),
			Risk:        "HIGH",
			Description: "agent and vendor co-occurring on an unusual number of claims",
			Query:       collusiveRingScanQuery,
			Params:      map[string]any{"limit": limit, "minSharedClaims": cfg.CollusionClaims},
		},
		{
			Name:        string(detect.PatternAssetRecycling),
			Risk:        "HIGH",
			Description: "the same asset attached to multiple claims",
			Query:       assetRecyclingScanQuery,
			Params:      map[string]any{"limit": limit, "minClaims": cfg.AssetMedium},
		},
		{
			Name:        string(detect.PatternVelocity),
			Risk:        "HIGH",
			Description: "claimants whose filed-claim count crosses the velocity threshold",
			Query:       velocityScanQuery,
			Params:      map[string]any{"limit": limit, "minClaims": cfg.VelocityMedium},
		},
		{
			Name:        string(detect.PatternDoubleDipping),
			Risk:        "HIGH",
			Description: "claim pairs sharing exact amount, loss date, and type",
			Query:       doubleDippingScanQuery,
			Params:      map[string]any{"limit": limit},
		},
		{
			Name:        sharedAddressPattern,
			Risk:        "MEDIUM",
			Description: "multiple claim-filing residents at one address",
			Query:       sharedAddressScanQuery,
			Params:      map[string]any{"limit": limit},
		},
	}
}

// Handler returns a handler function for the sweep-fraud-patterns tool
func Handler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSweep(ctx, request, deps)
	}
}

func handleSweep(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.DBService == nil {
		errMessage := "database service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}
	if deps.AnalyticsService == nil {
		errMessage := "analytics service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}
	if deps.Engine == nil {
		errMessage := "claims engine is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("sweep-fraud-patterns"))

	var args SweepFraudPatternsInput
	if err := request.BindArguments(&args); err != nil {
		slog.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	limit := args.Limit
	if limit == 0 {
		limit = defaultLimit
	}

	scans := sweepScans(deps.Engine.DetectionConfig(), limit)

	isScoped := args.Pattern != ""
	if isScoped {
		scan, ok := findScan(scans, args.Pattern)
		if !ok {
			errMessage := fmt.Sprintf("unknown pattern %q: valid patterns are %s", args.Pattern, strings.Join(scanNames(scans), ", "))
			slog.Error(errMessage)
			return mcp.NewToolResultError(errMessage), nil
		}
		scans = []patternScan{scan}
	}

	mode := map[bool]string{true: "scoped", false: "discovery"}[isScoped]
	slog.Info("sweeping fraud patterns",
		"mode", mode,
		"pattern", args.Pattern,
		"limit", limit)

	reports := []patternReport{}
	for _, scan := range scans {
		records, err := deps.DBService.ExecuteReadQuery(ctx, scan.Query, scan.Params)
		if err != nil {
			slog.Error("error executing fraud pattern scan", "pattern", scan.Name, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		if len(records) == 0 {
			continue
		}

		cases, err := deps.DBService.Neo4jRecordsToJSON(records)
		if err != nil {
			slog.Error("error formatting scan results", "pattern", scan.Name, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		reports = append(reports, patternReport{
			Pattern:     scan.Name,
			Risk:        scan.Risk,
			Description: scan.Description,
			CaseCount:   len(records),
			Cases:       json.RawMessage(cases),
		})
	}

	slog.Info("fraud pattern sweep complete", "mode", mode, "patternsFound", len(reports))

	response, err := json.MarshalIndent(sweepResponse{
		Mode:          mode,
		PatternsFound: len(reports),
		Patterns:      reports,
	}, "", "  ")
	if err != nil {
		slog.Error("failed to marshal sweep response", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(string(response)), nil
}

func findScan(scans []patternScan, name string) (patternScan, bool) {
	for _, scan := range scans {
		if scan.Name == name {
			return scan, true
		}
	}
	return patternScan{}, false
}

func scanNames(scans []patternScan) []string {
	names := make([]string, len(scans))
	for i, scan := range scans {
		names[i] = scan.Name
	}
	return names
}

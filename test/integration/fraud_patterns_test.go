//go:build integration

package integration

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/claimsight/neo4j-mcp-claims/internal/tools/claims/check"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/claims/ingest"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/fraud/pattern_sweep"
	"github.com/claimsight/neo4j-mcp-claims/test/integration/helpers"
)

func TestSharedSSNDetection(t *testing.T) {
	t.Parallel()
	tc := helpers.NewTestContext(t, dbs.GetDriver())

	ssn := uniqueSSN()
	txID1 := "TX-" + uuid.NewString()
	custID1 := "CUST-" + uuid.NewString()
	txID2 := "TX-" + uuid.NewString()
	custID2 := "CUST-" + uuid.NewString()
	tc.CleanupClaimData(txID1, custID1)
	tc.CleanupClaimData(txID2, custID2)

	ingestHandler := ingest.Handler(tc.Deps)
	tc.CallTool(ingestHandler, map[string]any{
		"claim": map[string]any{
			"transaction_id": txID1,
			"claim_type":     "mobile",
			"claim_amount":   900.0,
			"claim_date":     "2025-10-14",
			"customer_id":    custID1,
			"customer_name":  "Casey Morgan",
			"ssn":            ssn,
		},
	})

	// A second claimant carrying the same SSN closes the ring.
	res := tc.CallTool(ingestHandler, map[string]any{
		"claim": map[string]any{
			"transaction_id": txID2,
			"claim_type":     "mobile",
			"claim_amount":   750.0,
			"claim_date":     "2025-10-21",
			"customer_id":    custID2,
			"customer_name":  "Avery Quinn",
			"ssn":            ssn,
		},
	})

	var report claimReport
	tc.ParseJSONResponse(res, &report)

	if !report.IsFraudulent {
		t.Error("expected second claimant on a shared SSN to be flagged")
	}
	if report.FraudScore <= 0 {
		t.Errorf("expected positive fraud score, got %f", report.FraudScore)
	}
	if !hasPattern(report, "shared_ssn") {
		t.Fatalf("expected shared_ssn finding, got %+v", report.Findings)
	}

	// Checking the first claim re-derives the same finding from the graph.
	checkHandler := check.Handler(tc.Deps)
	res = tc.CallTool(checkHandler, map[string]any{"transactionId": txID1})

	var checked claimReport
	tc.ParseJSONResponse(res, &checked)

	if !hasPattern(checked, "shared_ssn") {
		t.Fatalf("expected shared_ssn finding on re-check, got %+v", checked.Findings)
	}

	// A scoped sweep surfaces the ring among its cases.
	sweepHandler := pattern_sweep.Handler(tc.Deps)
	res = tc.CallTool(sweepHandler, map[string]any{
		"pattern": "shared_ssn",
		"limit":   200,
	})

	var sweep struct {
		Mode     string `json:"mode"`
		Patterns []struct {
			Pattern   string          `json:"pattern"`
			CaseCount int             `json:"case_count"`
			Cases     json.RawMessage `json:"cases"`
		} `json:"patterns"`
	}
	tc.ParseJSONResponse(res, &sweep)

	if sweep.Mode != "scoped" {
		t.Errorf("expected scoped sweep, got mode %q", sweep.Mode)
	}

	var ringSeen bool
	for _, pattern := range sweep.Patterns {
		if pattern.Pattern != "shared_ssn" {
			t.Errorf("scoped sweep returned unrequested pattern %q", pattern.Pattern)
			continue
		}
		if strings.Contains(string(pattern.Cases), ssn) {
			ringSeen = true
		}
	}
	if !ringSeen {
		t.Errorf("expected sweep cases to include SSN ring %s", ssn)
	}
}

func hasPattern(report claimReport, patternType string) bool {
	for _, finding := range report.Findings {
		if finding.PatternType == patternType {
			return true
		}
	}
	return false
}

package detect

import (
	"context"
	"log/slog"

	"github.com/claimsight/neo4j-mcp-claims/internal/normalize"
)

// registeredDetector pairs a detector with the pattern it reports.
type registeredDetector struct {
	pattern PatternType
	run     DetectorFunc
}

// registry lists detectors in execution order. Detectors never depend on
// each other, so the order only fixes how findings are arranged in
// results.
var registry = []registeredDetector{
	{pattern: PatternSharedSSN, run: DetectSharedSSN},
	{pattern: PatternCollusiveRing, run: DetectCollusiveRing},
	{pattern: PatternAssetRecycling, run: DetectAssetRecycling},
	{pattern: PatternVelocity, run: DetectVelocity},
	{pattern: PatternDoubleDipping, run: DetectDoubleDipping},
	{pattern: PatternHighValue, run: DetectHighValue},
}

// Outcome is the result of one detection sweep. Degraded names the
// patterns whose detectors failed; their absence from Findings is not
// evidence of a clean claim.
type Outcome struct {
	Findings []Finding
	Degraded []string
}

// Run executes every registered detector sequentially. A detector error
// is recovered: logged, recorded as degraded, and treated as no finding,
// so one failing query never blocks the remaining detectors or the
// ingestion itself.
func Run(ctx context.Context, db Reader, facts *normalize.ClaimFacts, cfg Config) Outcome {
	var outcome Outcome
	for _, detector := range registry {
		finding, err := detector.run(ctx, db, facts, cfg)
		if err != nil {
			slog.Error("detector failed",
				"pattern", detector.pattern,
				"transactionId", facts.TransactionID,
				"error", err)
			outcome.Degraded = append(outcome.Degraded, string(detector.pattern))
			continue
		}
		if finding != nil {
			outcome.Findings = append(outcome.Findings, *finding)
		}
	}
	return outcome
}

// Package engine wires normalization, graph projection, detection, and
// scoring into the two claim operations the server exposes: ingest and
// check.
package engine

import (
	"context"
	"log/slog"

	"github.com/claimsight/neo4j-mcp-claims/internal/config"
	"github.com/claimsight/neo4j-mcp-claims/internal/database"
	"github.com/claimsight/neo4j-mcp-claims/internal/detect"
	"github.com/claimsight/neo4j-mcp-claims/internal/graph"
	"github.com/claimsight/neo4j-mcp-claims/internal/normalize"
	"github.com/claimsight/neo4j-mcp-claims/internal/score"
)

// Result is the self-sufficient payload handed back to clients. ClaimData
// carries the normalized facts so the downstream reasoning stage needs no
// second lookup.
type Result struct {
	Success              bool                `json:"success"`
	ClaimID              string              `json:"claim_id"`
	NodesCreated         int                 `json:"nodes_created"`
	RelationshipsCreated int                 `json:"relationships_created"`
	IsFraudulent         bool                `json:"is_fraudulent"`
	FraudScore           float64             `json:"fraud_score"`
	Recommendation       string              `json:"recommendation"`
	DetectionIncomplete  bool                `json:"detection_incomplete,omitempty"`
	DegradedDetectors    []string            `json:"degraded_detectors,omitempty"`
	Findings             []detect.Finding    `json:"detected_patterns"`
	GraphSummary         *graph.GraphSummary `json:"graph_summary,omitempty"`
	ClaimData            map[string]any      `json:"claim_data,omitempty"`
}

// Engine processes one claim at a time, synchronously. Concurrent calls
// for different transaction ids share no state here; merges of shared
// entities rely on Neo4j transaction isolation.
type Engine struct {
	db        database.Service
	projector *graph.Projector
	cfg       detect.Config
	weights   score.Weights
}

// New builds an engine over the database service with thresholds from the
// detection settings.
func New(db database.Service, detection config.Detection) *Engine {
	return &Engine{
		db:        db,
		projector: graph.NewProjector(db),
		cfg:       detectionConfig(detection),
		weights:   detectionWeights(detection),
	}
}

// DetectionConfig exposes the thresholds the engine detects with, so
// batch scans stay aligned with per-claim detection.
func (e *Engine) DetectionConfig() detect.Config {
	return e.cfg
}

// Ingest runs the full pipeline: normalize the payload, project it into
// the graph, sweep the detectors, and aggregate the verdict. The only
// fatal failures are a missing transaction id and a failed graph write.
func (e *Engine) Ingest(ctx context.Context, payload map[string]any) (*Result, error) {
	facts, err := normalize.Normalize(payload)
	if err != nil {
		return nil, err
	}

	projection, err := e.projector.Project(ctx, facts)
	if err != nil {
		return nil, err
	}

	summary, err := graph.Summary(ctx, e.db, facts.TransactionID)
	if err != nil {
		// The claim is already projected; a failed summary degrades the
		// payload instead of failing the ingestion.
		slog.Error("graph summary failed", "transactionId", facts.TransactionID, "error", err)
		summary = nil
	}

	outcome := detect.Run(ctx, e.db, facts, e.cfg)
	verdict := score.Aggregate(outcome.Findings, e.weights)

	slog.Info("claim ingested",
		"transactionId", facts.TransactionID,
		"claimType", facts.ClaimType,
		"claimant", facts.LogPersonKey(),
		"nodesCreated", projection.NodesCreated,
		"relationshipsCreated", projection.RelationshipsCreated,
		"fraudScore", verdict.Score,
		"patterns", len(outcome.Findings))

	return assemble(facts, projection, summary, outcome, verdict), nil
}

// Check re-derives the stored claim's facts from its graph neighborhood
// and runs detection and scoring only. Nothing is written; the mutation
// counters stay zero.
func (e *Engine) Check(ctx context.Context, transactionID string) (*Result, error) {
	facts, err := graph.LoadFacts(ctx, e.db, transactionID)
	if err != nil {
		return nil, err
	}

	summary, err := graph.Summary(ctx, e.db, transactionID)
	if err != nil {
		slog.Error("graph summary failed", "transactionId", transactionID, "error", err)
		summary = nil
	}

	outcome := detect.Run(ctx, e.db, facts, e.cfg)
	verdict := score.Aggregate(outcome.Findings, e.weights)

	slog.Info("claim checked",
		"transactionId", transactionID,
		"fraudScore", verdict.Score,
		"patterns", len(outcome.Findings))

	return assemble(facts, &graph.Projection{}, summary, outcome, verdict), nil
}

func assemble(facts *normalize.ClaimFacts, projection *graph.Projection, summary *graph.GraphSummary, outcome detect.Outcome, verdict score.Verdict) *Result {
	findings := outcome.Findings
	if findings == nil {
		findings = []detect.Finding{}
	}
	return &Result{
		Success:              true,
		ClaimID:              facts.TransactionID,
		NodesCreated:         projection.NodesCreated,
		RelationshipsCreated: projection.RelationshipsCreated,
		IsFraudulent:         verdict.IsFraudulent,
		FraudScore:           verdict.Score,
		Recommendation:       verdict.Recommendation,
		DetectionIncomplete:  len(outcome.Degraded) > 0,
		DegradedDetectors:    outcome.Degraded,
		Findings:             findings,
		GraphSummary:         summary,
		ClaimData:            facts.Map(),
	}
}

// detectionConfig maps the operator settings onto detector thresholds.
// Unset (zero) values keep the stock threshold.
func detectionConfig(d config.Detection) detect.Config {
	cfg := detect.DefaultConfig()
	if d.CollusionClaims > 0 {
		cfg.CollusionClaims = d.CollusionClaims
	}
	if d.AssetMedium > 0 {
		cfg.AssetMedium = d.AssetMedium
	}
	if d.AssetHigh > 0 {
		cfg.AssetHigh = d.AssetHigh
	}
	if d.VelocityMedium > 0 {
		cfg.VelocityMedium = d.VelocityMedium
	}
	if d.VelocityHigh > 0 {
		cfg.VelocityHigh = d.VelocityHigh
	}
	if d.SharedSSNHigh > 0 {
		cfg.SharedSSNHigh = d.SharedSSNHigh
	}
	if d.HighValueAmount > 0 {
		cfg.HighValueAmount = d.HighValueAmount
	}
	if d.SampleNames > 0 {
		cfg.SampleNames = d.SampleNames
	}
	return cfg
}

func detectionWeights(d config.Detection) score.Weights {
	if len(d.Weights) == 0 {
		return nil
	}
	weights := make(score.Weights, len(d.Weights))
	for pattern, weight := range d.Weights {
		weights[detect.PatternType(pattern)] = weight
	}
	return weights
}

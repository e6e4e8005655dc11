// Package detect runs read-only fraud-pattern detectors against the
// claims graph. Each detector is an independent function over one claim's
// normalized facts; a detector whose trigger fields are absent reports no
// finding, never an error.
package detect

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/claimsight/neo4j-mcp-claims/internal/normalize"
)

// PatternType identifies one fraud pattern.
type PatternType string

const (
	PatternSharedSSN      PatternType = "shared_ssn"
	PatternCollusiveRing  PatternType = "collusive_ring"
	PatternAssetRecycling PatternType = "asset_recycling"
	PatternVelocity       PatternType = "velocity"
	PatternDoubleDipping  PatternType = "double_dipping"
	PatternHighValue      PatternType = "high_value"
)

// Confidence grades how strongly the evidence supports the pattern.
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// Finding is one detected pattern with the evidence behind it. Evidence
// lines are ordered and human-readable; RelatedEntities maps entity roles
// to their identifiers for downstream lookup.
type Finding struct {
	PatternType     PatternType       `json:"pattern_type"`
	Confidence      Confidence        `json:"confidence"`
	Evidence        []string          `json:"evidence"`
	RelatedEntities map[string]string `json:"related_entities"`
}

// Config carries the detection thresholds. Counts include the claim under
// analysis wherever it is already projected into the graph.
type Config struct {
	CollusionClaims int
	AssetMedium     int
	AssetHigh       int
	VelocityMedium  int
	VelocityHigh    int
	SharedSSNHigh   int
	HighValueAmount float64
	SampleNames     int
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		CollusionClaims: 10,
		AssetMedium:     2,
		AssetHigh:       4,
		VelocityMedium:  4,
		VelocityHigh:    6,
		SharedSSNHigh:   3,
		HighValueAmount: 50000,
		SampleNames:     5,
	}
}

// Reader is the read-only database surface detectors query.
type Reader interface {
	ExecuteReadQuery(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error)
}

// DetectorFunc inspects one claim's surroundings for a single pattern.
type DetectorFunc func(ctx context.Context, db Reader, facts *normalize.ClaimFacts, cfg Config) (*Finding, error)

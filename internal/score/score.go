// Package score turns detection findings into a fraud verdict. Scoring is
// additive over distinct pattern types: repeated findings of one pattern
// never count twice, and adding a finding never lowers the score.
package score

import (
	"github.com/claimsight/neo4j-mcp-claims/internal/detect"
)

// DefaultWeight applies to any pattern type without an explicit weight.
const DefaultWeight = 0.3

// Recommendation bands over the clamped score.
const (
	RecommendationReject       = "REJECT"
	RecommendationManualReview = "MANUAL_REVIEW"
	RecommendationApprove      = "APPROVE"

	rejectThreshold = 0.75
	reviewThreshold = 0.4
)

// Weights overrides the per-pattern contribution. Missing entries fall
// back to DefaultWeight.
type Weights map[detect.PatternType]float64

func (w Weights) weightFor(pattern detect.PatternType) float64 {
	if w != nil {
		if weight, ok := w[pattern]; ok {
			return weight
		}
	}
	return DefaultWeight
}

// Verdict is the aggregated fraud assessment for one claim. Any non-zero
// score marks the claim fraudulent; the recommendation grades how to act
// on it.
type Verdict struct {
	Score          float64 `json:"fraud_score"`
	IsFraudulent   bool    `json:"is_fraudulent"`
	Recommendation string  `json:"recommendation"`
}

// Aggregate folds findings into a verdict. The score is the clamped sum
// of weights over distinct pattern types.
func Aggregate(findings []detect.Finding, weights Weights) Verdict {
	seen := map[detect.PatternType]bool{}
	total := 0.0
	for _, finding := range findings {
		if seen[finding.PatternType] {
			continue
		}
		seen[finding.PatternType] = true
		total += weights.weightFor(finding.PatternType)
	}

	s := clamp(total)
	return Verdict{
		Score:          s,
		IsFraudulent:   s > 0,
		Recommendation: recommendationFor(s),
	}
}

func clamp(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

func recommendationFor(s float64) string {
	switch {
	case s >= rejectThreshold:
		return RecommendationReject
	case s >= reviewThreshold:
		return RecommendationManualReview
	default:
		return RecommendationApprove
	}
}

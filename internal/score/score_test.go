package score_test

import (
	"math"
	"testing"

	"github.com/claimsight/neo4j-mcp-claims/internal/detect"
	"github.com/claimsight/neo4j-mcp-claims/internal/score"
)

func finding(pattern detect.PatternType) detect.Finding {
	return detect.Finding{
		PatternType: pattern,
		Confidence:  detect.ConfidenceHigh,
	}
}

func TestAggregateNoFindings(t *testing.T) {
	verdict := score.Aggregate(nil, nil)

	if verdict.Score != 0 {
		t.Errorf("expected score 0, got %v", verdict.Score)
	}
	if verdict.IsFraudulent {
		t.Error("no findings must not be fraudulent")
	}
	if verdict.Recommendation != score.RecommendationApprove {
		t.Errorf("expected APPROVE, got %s", verdict.Recommendation)
	}
}

func TestAggregateDefaultWeights(t *testing.T) {
	tests := []struct {
		name           string
		patterns       []detect.PatternType
		wantScore      float64
		recommendation string
	}{
		{
			name:           "one pattern",
			patterns:       []detect.PatternType{detect.PatternVelocity},
			wantScore:      0.3,
			recommendation: score.RecommendationApprove,
		},
		{
			name:           "two patterns",
			patterns:       []detect.PatternType{detect.PatternSharedSSN, detect.PatternCollusiveRing},
			wantScore:      0.6,
			recommendation: score.RecommendationManualReview,
		},
		{
			name:           "three patterns",
			patterns:       []detect.PatternType{detect.PatternSharedSSN, detect.PatternCollusiveRing, detect.PatternVelocity},
			wantScore:      0.9,
			recommendation: score.RecommendationReject,
		},
		{
			name: "four patterns clamp to one",
			patterns: []detect.PatternType{
				detect.PatternSharedSSN, detect.PatternCollusiveRing,
				detect.PatternVelocity, detect.PatternAssetRecycling,
			},
			wantScore:      1.0,
			recommendation: score.RecommendationReject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := make([]detect.Finding, 0, len(tt.patterns))
			for _, pattern := range tt.patterns {
				findings = append(findings, finding(pattern))
			}

			verdict := score.Aggregate(findings, nil)
			if math.Abs(verdict.Score-tt.wantScore) > 1e-9 {
				t.Errorf("expected score %v, got %v", tt.wantScore, verdict.Score)
			}
			if !verdict.IsFraudulent {
				t.Error("any finding must mark the claim fraudulent")
			}
			if verdict.Recommendation != tt.recommendation {
				t.Errorf("expected %s, got %s", tt.recommendation, verdict.Recommendation)
			}
		})
	}
}

func TestAggregateCountsDistinctPatternsOnce(t *testing.T) {
	findings := []detect.Finding{
		finding(detect.PatternSharedSSN),
		finding(detect.PatternSharedSSN),
		finding(detect.PatternSharedSSN),
	}

	verdict := score.Aggregate(findings, nil)
	if math.Abs(verdict.Score-0.3) > 1e-9 {
		t.Errorf("duplicate patterns must count once, got %v", verdict.Score)
	}
}

func TestAggregateCustomWeights(t *testing.T) {
	weights := score.Weights{
		detect.PatternSharedSSN: 0.8,
		detect.PatternHighValue: 0.05,
	}

	verdict := score.Aggregate([]detect.Finding{
		finding(detect.PatternSharedSSN),
		finding(detect.PatternHighValue),
		finding(detect.PatternVelocity),
	}, weights)

	want := 0.8 + 0.05 + score.DefaultWeight
	if math.Abs(verdict.Score-want) > 1e-9 {
		t.Errorf("expected score %v, got %v", want, verdict.Score)
	}
	if verdict.Recommendation != score.RecommendationReject {
		t.Errorf("expected REJECT, got %s", verdict.Recommendation)
	}
}

func TestAggregateIsMonotonic(t *testing.T) {
	findings := []detect.Finding{
		finding(detect.PatternSharedSSN),
		finding(detect.PatternCollusiveRing),
		finding(detect.PatternAssetRecycling),
		finding(detect.PatternVelocity),
		finding(detect.PatternDoubleDipping),
		finding(detect.PatternHighValue),
	}

	previous := 0.0
	for i := 0; i <= len(findings); i++ {
		verdict := score.Aggregate(findings[:i], nil)
		if verdict.Score < previous {
			t.Fatalf("score decreased from %v to %v after %d findings", previous, verdict.Score, i)
		}
		previous = verdict.Score
	}
}

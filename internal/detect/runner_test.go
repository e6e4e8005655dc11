package detect_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/mock/gomock"

	database_mocks "github.com/claimsight/neo4j-mcp-claims/internal/database/mocks"
	"github.com/claimsight/neo4j-mcp-claims/internal/detect"
	"github.com/claimsight/neo4j-mcp-claims/internal/normalize"
)

func TestRunBareClaimTouchesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No EXPECT calls: a claim with no optional fields must not reach the
	// database at all.
	mockDB := database_mocks.NewMockService(ctrl)

	facts := &normalize.ClaimFacts{
		ClaimType:     normalize.ClaimTypeGeneric,
		TransactionID: "T-BARE",
		Extra:         map[string]string{},
	}

	outcome := detect.Run(context.Background(), mockDB, facts, detect.DefaultConfig())
	if len(outcome.Findings) != 0 {
		t.Errorf("expected no findings, got %+v", outcome.Findings)
	}
	if len(outcome.Degraded) != 0 {
		t.Errorf("expected no degraded detectors, got %v", outcome.Degraded)
	}
}

func TestRunCollectsFindingsInRegistryOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database_mocks.NewMockService(ctrl)
	mockDB.EXPECT().
		ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, query string, _ map[string]any) ([]*neo4j.Record, error) {
			switch {
			case strings.Contains(query, "p.ssn = $ssn"):
				return []*neo4j.Record{{
					Keys:   []string{"sharers", "sampleNames"},
					Values: []any{int64(20), []any{"A", "B"}},
				}}, nil
			case strings.Contains(query, "HANDLED_BY"):
				return []*neo4j.Record{{
					Keys:   []string{"sharedClaims"},
					Values: []any{int64(100)},
				}}, nil
			case strings.Contains(query, "FILED"):
				return []*neo4j.Record{{
					Keys:   []string{"filedClaims"},
					Values: []any{int64(1)},
				}}, nil
			default:
				t.Errorf("unexpected query: %s", query)
				return nil, nil
			}
		}).
		Times(3)

	facts := &normalize.ClaimFacts{
		ClaimType:     normalize.ClaimTypeHealth,
		TransactionID: "T1",
		CustomerID:    "C1",
		SSN:           "999-01-1111",
		AgentID:       "AG7",
		VendorID:      "VN6",
		Extra:         map[string]string{},
	}

	outcome := detect.Run(context.Background(), mockDB, facts, detect.DefaultConfig())
	if len(outcome.Degraded) != 0 {
		t.Fatalf("expected no degraded detectors, got %v", outcome.Degraded)
	}
	if len(outcome.Findings) != 2 {
		t.Fatalf("expected 2 findings, got %+v", outcome.Findings)
	}
	if outcome.Findings[0].PatternType != detect.PatternSharedSSN {
		t.Errorf("expected shared_ssn first, got %s", outcome.Findings[0].PatternType)
	}
	if outcome.Findings[1].PatternType != detect.PatternCollusiveRing {
		t.Errorf("expected collusive_ring second, got %s", outcome.Findings[1].PatternType)
	}
}

func TestRunRecoversDetectorFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database_mocks.NewMockService(ctrl)
	mockDB.EXPECT().
		ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, query string, _ map[string]any) ([]*neo4j.Record, error) {
			switch {
			case strings.Contains(query, "p.ssn = $ssn"):
				return nil, errors.New("connection reset")
			case strings.Contains(query, "HANDLED_BY"):
				return []*neo4j.Record{{
					Keys:   []string{"sharedClaims"},
					Values: []any{int64(100)},
				}}, nil
			case strings.Contains(query, "FILED"):
				return []*neo4j.Record{{
					Keys:   []string{"filedClaims"},
					Values: []any{int64(1)},
				}}, nil
			default:
				t.Errorf("unexpected query: %s", query)
				return nil, nil
			}
		}).
		Times(3)

	facts := &normalize.ClaimFacts{
		ClaimType:     normalize.ClaimTypeHealth,
		TransactionID: "T1",
		CustomerID:    "C1",
		SSN:           "999-01-1111",
		AgentID:       "AG7",
		VendorID:      "VN6",
		Extra:         map[string]string{},
	}

	outcome := detect.Run(context.Background(), mockDB, facts, detect.DefaultConfig())

	if len(outcome.Degraded) != 1 || outcome.Degraded[0] != "shared_ssn" {
		t.Errorf("expected shared_ssn degraded, got %v", outcome.Degraded)
	}
	if len(outcome.Findings) != 1 || outcome.Findings[0].PatternType != detect.PatternCollusiveRing {
		t.Errorf("remaining detectors must still report, got %+v", outcome.Findings)
	}
}

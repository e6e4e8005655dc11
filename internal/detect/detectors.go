package detect

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/claimsight/neo4j-mcp-claims/internal/normalize"
)

const sharedSSNQuery = `MATCH (p:Person)
WHERE p.ssn = $ssn
RETURN count(p) AS sharers, collect(p.name)[0..$sampleLimit] AS sampleNames`

// DetectSharedSSN reports an SSN carried by two or more distinct persons,
// the claimant included.
func DetectSharedSSN(ctx context.Context, db Reader, facts *normalize.ClaimFacts, cfg Config) (*Finding, error) {
	if facts.SSN == "" {
		return nil, nil
	}

	records, err := db.ExecuteReadQuery(ctx, sharedSSNQuery, map[string]any{
		"ssn":         facts.SSN,
		"sampleLimit": cfg.SampleNames,
	})
	if err != nil {
		return nil, fmt.Errorf("shared ssn query: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	sharers := intField(records[0], "sharers")
	if sharers < 2 {
		return nil, nil
	}

	confidence := ConfidenceMedium
	if sharers >= int64(cfg.SharedSSNHigh) {
		confidence = ConfidenceHigh
	}

	evidence := []string{
		fmt.Sprintf("SSN %s is carried by %d distinct persons", facts.SSN, sharers),
	}
	if names := stringListField(records[0], "sampleNames"); len(names) > 0 {
		evidence = append(evidence, fmt.Sprintf("sample claimants: %s", strings.Join(names, ", ")))
	}

	return &Finding{
		PatternType:     PatternSharedSSN,
		Confidence:      confidence,
		Evidence:        evidence,
		RelatedEntities: map[string]string{"ssn": facts.SSN},
	}, nil
}

const collusiveRingQuery = `MATCH (ag:Agent {agentId: $agentId})<-[:HANDLED_BY]-(claim:Claim)-[:SERVICED_BY]->(vn:Vendor {vendorId: $vendorId})
RETURN count(DISTINCT claim) AS sharedClaims`

// DetectCollusiveRing reports an agent/vendor pair that co-occurs on more
// distinct claims than the collusion threshold. The count comes from the
// graph topology, so re-ingesting a claim never inflates it.
func DetectCollusiveRing(ctx context.Context, db Reader, facts *normalize.ClaimFacts, cfg Config) (*Finding, error) {
	if facts.AgentID == "" || facts.VendorID == "" {
		return nil, nil
	}

	records, err := db.ExecuteReadQuery(ctx, collusiveRingQuery, map[string]any{
		"agentId":  facts.AgentID,
		"vendorId": facts.VendorID,
	})
	if err != nil {
		return nil, fmt.Errorf("collusive ring query: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	sharedClaims := intField(records[0], "sharedClaims")
	if sharedClaims <= int64(cfg.CollusionClaims) {
		return nil, nil
	}

	return &Finding{
		PatternType: PatternCollusiveRing,
		Confidence:  ConfidenceHigh,
		Evidence: []string{
			fmt.Sprintf("agent %s and vendor %s co-occur on %d distinct claims", facts.AgentID, facts.VendorID, sharedClaims),
		},
		RelatedEntities: map[string]string{
			"agent":  facts.AgentID,
			"vendor": facts.VendorID,
		},
	}, nil
}

const assetRecyclingQuery = `MATCH (a:Asset)<-[:INVOLVES]-(claim:Claim)
WHERE a.value IN $values
WITH a, collect(DISTINCT claim.transactionId) AS claimIds
WHERE size(claimIds) >= $minClaims
RETURN a.value AS value, a.kind AS kind, claimIds
ORDER BY size(claimIds) DESC`

// DetectAssetRecycling reports asset identifiers that appear on multiple
// distinct claims, the current claim included.
func DetectAssetRecycling(ctx context.Context, db Reader, facts *normalize.ClaimFacts, cfg Config) (*Finding, error) {
	assets := facts.Assets()
	if len(assets) == 0 {
		return nil, nil
	}

	values := make([]string, 0, len(assets))
	for _, asset := range assets {
		values = append(values, asset.Value)
	}

	records, err := db.ExecuteReadQuery(ctx, assetRecyclingQuery, map[string]any{
		"values":    values,
		"minClaims": cfg.AssetMedium,
	})
	if err != nil {
		return nil, fmt.Errorf("asset recycling query: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	confidence := ConfidenceMedium
	var evidence []string
	related := map[string]string{}
	for i, record := range records {
		value := stringFieldOr(record, "value", "")
		kind := stringFieldOr(record, "kind", "asset")
		claimIDs := stringListField(record, "claimIds")
		if len(claimIDs) >= cfg.AssetHigh {
			confidence = ConfidenceHigh
		}
		evidence = append(evidence, fmt.Sprintf("%s %s appears on %d distinct claims: %s",
			kind, value, len(claimIDs), strings.Join(claimIDs, ", ")))
		if i == 0 {
			related["asset"] = value
		}
	}

	return &Finding{
		PatternType:     PatternAssetRecycling,
		Confidence:      confidence,
		Evidence:        evidence,
		RelatedEntities: related,
	}, nil
}

const velocityQuery = `MATCH (p:Person {personKey: $personKey})-[:FILED]->(claim:Claim)
RETURN count(DISTINCT claim) AS filedClaims`

// DetectVelocity reports a claimant whose total filed-claim count crosses
// the velocity threshold.
func DetectVelocity(ctx context.Context, db Reader, facts *normalize.ClaimFacts, cfg Config) (*Finding, error) {
	personKey := facts.PersonKey()
	if personKey == "" {
		return nil, nil
	}

	records, err := db.ExecuteReadQuery(ctx, velocityQuery, map[string]any{
		"personKey": personKey,
	})
	if err != nil {
		return nil, fmt.Errorf("velocity query: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	filedClaims := intField(records[0], "filedClaims")
	if filedClaims < int64(cfg.VelocityMedium) {
		return nil, nil
	}

	confidence := ConfidenceMedium
	if filedClaims >= int64(cfg.VelocityHigh) {
		confidence = ConfidenceHigh
	}

	return &Finding{
		PatternType: PatternVelocity,
		Confidence:  confidence,
		Evidence: []string{
			fmt.Sprintf("claimant %s has filed %d claims", personKey, filedClaims),
		},
		RelatedEntities: map[string]string{"customer": personKey},
	}, nil
}

const doubleDippingQuery = `MATCH (claim:Claim)
WHERE claim.claimAmount = $claimAmount
  AND claim.claimDate = $claimDate
  AND claim.claimType = $claimType
  AND claim.transactionId <> $transactionId
RETURN count(claim) AS duplicates, collect(claim.transactionId)[0..$sampleLimit] AS claimIds`

// DetectDoubleDipping reports other claims sharing this claim's exact
// amount, loss date, and type: the signature of one loss filed twice.
func DetectDoubleDipping(ctx context.Context, db Reader, facts *normalize.ClaimFacts, cfg Config) (*Finding, error) {
	if facts.ClaimAmount == nil || facts.ClaimDate == "" {
		return nil, nil
	}

	records, err := db.ExecuteReadQuery(ctx, doubleDippingQuery, map[string]any{
		"claimAmount":   *facts.ClaimAmount,
		"claimDate":     facts.ClaimDate,
		"claimType":     string(facts.ClaimType),
		"transactionId": facts.TransactionID,
		"sampleLimit":   cfg.SampleNames,
	})
	if err != nil {
		return nil, fmt.Errorf("double dipping query: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	duplicates := intField(records[0], "duplicates")
	if duplicates < 1 {
		return nil, nil
	}

	evidence := []string{
		fmt.Sprintf("%d other %s claims share amount %.2f and loss date %s",
			duplicates, facts.ClaimType, *facts.ClaimAmount, facts.ClaimDate),
	}
	if ids := stringListField(records[0], "claimIds"); len(ids) > 0 {
		evidence = append(evidence, fmt.Sprintf("matching claims: %s", strings.Join(ids, ", ")))
	}

	return &Finding{
		PatternType:     PatternDoubleDipping,
		Confidence:      ConfidenceHigh,
		Evidence:        evidence,
		RelatedEntities: map[string]string{"claim": facts.TransactionID},
	}, nil
}

// DetectHighValue flags claims above the high-value amount. No graph
// lookup is needed; the threshold applies to the claim itself.
func DetectHighValue(_ context.Context, _ Reader, facts *normalize.ClaimFacts, cfg Config) (*Finding, error) {
	if facts.ClaimAmount == nil || *facts.ClaimAmount <= cfg.HighValueAmount {
		return nil, nil
	}

	return &Finding{
		PatternType: PatternHighValue,
		Confidence:  ConfidenceMedium,
		Evidence: []string{
			fmt.Sprintf("claim amount %.2f exceeds the high-value threshold %.2f",
				*facts.ClaimAmount, cfg.HighValueAmount),
		},
		RelatedEntities: map[string]string{"claim": facts.TransactionID},
	}, nil
}

func intField(record *neo4j.Record, key string) int64 {
	raw, ok := record.Get(key)
	if !ok {
		return 0
	}
	count, _ := raw.(int64)
	return count
}

func stringFieldOr(record *neo4j.Record, key, fallback string) string {
	raw, ok := record.Get(key)
	if !ok {
		return fallback
	}
	if s, ok := raw.(string); ok && s != "" {
		return s
	}
	return fallback
}

func stringListField(record *neo4j.Record, key string) []string {
	raw, ok := record.Get(key)
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/claimsight/neo4j-mcp-claims/internal/normalize"
)

// Reader is the slice of the database service the read side needs.
type Reader interface {
	ExecuteReadQuery(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error)
}

// ErrClaimNotFound reports a transaction id with no Claim node behind it.
var ErrClaimNotFound = errors.New("claim not found in graph")

// GraphSummary sizes the graph around one claim after projection.
type GraphSummary struct {
	TotalClaims       int64            `json:"total_claims"`
	ConnectedEntities map[string]int64 `json:"connected_entities"`
}

// GraphStats counts nodes per label and relationships per type across the
// whole graph.
type GraphStats struct {
	Nodes         map[string]int64 `json:"nodes"`
	Relationships map[string]int64 `json:"relationships"`
}

// GraphNode is one node in a claim-neighborhood payload. ID is the node's
// identity property value, so payloads stay stable across restarts.
type GraphNode struct {
	ID         string         `json:"id"`
	Labels     []string       `json:"labels"`
	Properties map[string]any `json:"properties"`
}

// GraphEdge is one relationship in a claim-neighborhood payload.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// NeighborhoodGraph is the visualization-ready view of one claim's
// surroundings.
type NeighborhoodGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

const totalClaimsQuery = `MATCH (c:Claim) RETURN count(c) AS totalClaims`

const connectedEntitiesQuery = `MATCH (c:Claim {transactionId: $transactionId})-[*1..2]-(n)
WHERE n <> c
WITH DISTINCT n
UNWIND labels(n) AS label
RETURN label, count(*) AS count
ORDER BY label`

// Summary reports the total claim count and the per-label counts of
// entities within two hops of the given claim.
func Summary(ctx context.Context, db Reader, transactionID string) (*GraphSummary, error) {
	summary := &GraphSummary{ConnectedEntities: map[string]int64{}}

	records, err := db.ExecuteReadQuery(ctx, totalClaimsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("counting claims: %w", err)
	}
	if len(records) > 0 {
		if raw, ok := records[0].Get("totalClaims"); ok {
			if count, ok := raw.(int64); ok {
				summary.TotalClaims = count
			}
		}
	}

	records, err = db.ExecuteReadQuery(ctx, connectedEntitiesQuery, map[string]any{"transactionId": transactionID})
	if err != nil {
		return nil, fmt.Errorf("counting connected entities: %w", err)
	}
	for _, record := range records {
		label := stringField(record, "label")
		if label == "" {
			continue
		}
		if raw, ok := record.Get("count"); ok {
			if count, ok := raw.(int64); ok {
				summary.ConnectedEntities[label] = count
			}
		}
	}

	return summary, nil
}

const nodeStatsQuery = `MATCH (n)
UNWIND labels(n) AS label
RETURN label, count(*) AS count
ORDER BY label`

const relationshipStatsQuery = `MATCH ()-[r]->()
RETURN type(r) AS relType, count(*) AS count
ORDER BY relType`

// Stats counts nodes per label and relationships per type.
func Stats(ctx context.Context, db Reader) (*GraphStats, error) {
	stats := &GraphStats{
		Nodes:         map[string]int64{},
		Relationships: map[string]int64{},
	}

	records, err := db.ExecuteReadQuery(ctx, nodeStatsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("counting nodes: %w", err)
	}
	for _, record := range records {
		label := stringField(record, "label")
		if label == "" {
			continue
		}
		if raw, ok := record.Get("count"); ok {
			if count, ok := raw.(int64); ok {
				stats.Nodes[label] = count
			}
		}
	}

	records, err = db.ExecuteReadQuery(ctx, relationshipStatsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("counting relationships: %w", err)
	}
	for _, record := range records {
		relType := stringField(record, "relType")
		if relType == "" {
			continue
		}
		if raw, ok := record.Get("count"); ok {
			if count, ok := raw.(int64); ok {
				stats.Relationships[relType] = count
			}
		}
	}

	return stats, nil
}

const neighborhoodNodesQuery = `MATCH (c:Claim {transactionId: $transactionId})
OPTIONAL MATCH (c)-[*1..2]-(n)
WITH collect(DISTINCT n) + [c] AS nodes
UNWIND nodes AS node
WITH DISTINCT node
WHERE node IS NOT NULL
RETURN node`

const neighborhoodEdgesQuery = `MATCH (c:Claim {transactionId: $transactionId})
MATCH path = (c)-[*1..2]-()
UNWIND relationships(path) AS rel
WITH DISTINCT rel
RETURN rel`

// Neighborhood loads the nodes and relationships within two hops of a
// claim in a visualization-ready shape.
func Neighborhood(ctx context.Context, db Reader, transactionID string) (*NeighborhoodGraph, error) {
	params := map[string]any{"transactionId": transactionID}

	nodeRecords, err := db.ExecuteReadQuery(ctx, neighborhoodNodesQuery, params)
	if err != nil {
		return nil, fmt.Errorf("loading claim neighborhood nodes: %w", err)
	}
	if len(nodeRecords) == 0 {
		return nil, ErrClaimNotFound
	}

	neighborhood := &NeighborhoodGraph{Nodes: []GraphNode{}, Edges: []GraphEdge{}}
	naturalIDs := map[string]string{}

	for _, record := range nodeRecords {
		raw, ok := record.Get("node")
		if !ok {
			continue
		}
		node, ok := raw.(dbtype.Node)
		if !ok {
			continue
		}
		id := naturalID(node)
		naturalIDs[node.ElementId] = id
		neighborhood.Nodes = append(neighborhood.Nodes, GraphNode{
			ID:         id,
			Labels:     node.Labels,
			Properties: node.Props,
		})
	}

	edgeRecords, err := db.ExecuteReadQuery(ctx, neighborhoodEdgesQuery, params)
	if err != nil {
		return nil, fmt.Errorf("loading claim neighborhood relationships: %w", err)
	}
	for _, record := range edgeRecords {
		raw, ok := record.Get("rel")
		if !ok {
			continue
		}
		rel, ok := raw.(dbtype.Relationship)
		if !ok {
			continue
		}
		neighborhood.Edges = append(neighborhood.Edges, GraphEdge{
			Source: resolveID(naturalIDs, rel.StartElementId),
			Target: resolveID(naturalIDs, rel.EndElementId),
			Type:   rel.Type,
		})
	}

	return neighborhood, nil
}

const claimFactsQuery = `MATCH (c:Claim {transactionId: $transactionId})
OPTIONAL MATCH (p:Person)-[:FILED]->(c)
OPTIONAL MATCH (c)-[:UNDER_POLICY]->(pol:Policy)
OPTIONAL MATCH (c)-[:HANDLED_BY]->(ag:Agent)
OPTIONAL MATCH (c)-[:SERVICED_BY]->(vn:Vendor)
OPTIONAL MATCH (p)-[:LIVES_AT]->(addr:Address)
RETURN c, p, addr,
       pol.policyNumber AS policyNumber,
       ag.agentId AS agentId,
       vn.vendorId AS vendorId,
       [(c)-[:INVOLVES]->(a:Asset) | a {.value, .kind}] AS assets`

// LoadFacts re-derives the normalized facts for a stored claim from its
// graph neighborhood: the inverse of Project for the fields detection
// reads.
func LoadFacts(ctx context.Context, db Reader, transactionID string) (*normalize.ClaimFacts, error) {
	records, err := db.ExecuteReadQuery(ctx, claimFactsQuery, map[string]any{"transactionId": transactionID})
	if err != nil {
		return nil, fmt.Errorf("loading claim %s: %w", transactionID, err)
	}
	if len(records) == 0 {
		return nil, ErrClaimNotFound
	}
	record := records[0]

	facts := &normalize.ClaimFacts{
		ClaimType: normalize.ClaimTypeGeneric,
		Extra:     map[string]string{},
	}

	if claim, ok := nodeValue(record, "c"); ok {
		facts.TransactionID = stringProp(claim.Props, "transactionId")
		facts.ClaimType = normalize.ParseClaimType(stringProp(claim.Props, "claimType"))
		facts.ClaimDate = stringProp(claim.Props, "claimDate")
		facts.Severity = stringProp(claim.Props, "severity")
		facts.Status = stringProp(claim.Props, "status")
		switch amount := claim.Props["claimAmount"].(type) {
		case float64:
			facts.ClaimAmount = &amount
		case int64:
			f := float64(amount)
			facts.ClaimAmount = &f
		}
	}
	if person, ok := nodeValue(record, "p"); ok {
		facts.CustomerID = stringProp(person.Props, "customerId")
		facts.CustomerName = stringProp(person.Props, "name")
		facts.SSN = stringProp(person.Props, "ssn")
	}
	if address, ok := nodeValue(record, "addr"); ok {
		facts.AddressLine1 = stringProp(address.Props, "line1")
		facts.City = stringProp(address.Props, "city")
		facts.State = stringProp(address.Props, "state")
		facts.PostalCode = stringProp(address.Props, "postalCode")
	}
	facts.PolicyNumber = stringField(record, "policyNumber")
	facts.AgentID = stringField(record, "agentId")
	facts.VendorID = stringField(record, "vendorId")

	if raw, ok := record.Get("assets"); ok {
		if items, ok := raw.([]any); ok {
			for _, item := range items {
				props, ok := item.(map[string]any)
				if !ok {
					continue
				}
				value, _ := props["value"].(string)
				if value == "" {
					continue
				}
				kind, _ := props["kind"].(string)
				switch normalize.AssetKind(kind) {
				case normalize.AssetVehicle:
					facts.Extra[normalize.FieldVIN] = value
				case normalize.AssetDevice:
					facts.Extra[normalize.FieldIMEI] = value
				case normalize.AssetRealEstate:
					facts.Extra[normalize.FieldPropertyAddress] = value
				}
			}
		}
	}

	return facts, nil
}

// naturalID prefers the node's identity property over the internal element
// id.
func naturalID(node dbtype.Node) string {
	for _, label := range node.Labels {
		property := identityProperties[label]
		if property == "" {
			continue
		}
		if value, ok := node.Props[property].(string); ok && value != "" {
			return value
		}
	}
	return node.ElementId
}

func resolveID(ids map[string]string, elementID string) string {
	if id, ok := ids[elementID]; ok {
		return id
	}
	return elementID
}

func nodeValue(record *neo4j.Record, key string) (dbtype.Node, bool) {
	raw, ok := record.Get(key)
	if !ok || raw == nil {
		return dbtype.Node{}, false
	}
	node, ok := raw.(dbtype.Node)
	return node, ok
}

func stringField(record *neo4j.Record, key string) string {
	raw, ok := record.Get(key)
	if !ok {
		return ""
	}
	s, _ := raw.(string)
	return s
}

func stringProp(props map[string]any, key string) string {
	s, _ := props[key].(string)
	return s
}

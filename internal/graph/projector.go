package graph

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/claimsight/neo4j-mcp-claims/internal/database"
	"github.com/claimsight/neo4j-mcp-claims/internal/normalize"
)

// Writer is the slice of the database service the write side needs.
type Writer interface {
	ExecuteWriteQuery(ctx context.Context, query string, params map[string]any) (*database.WriteResult, error)
}

// TransactionalWriteError wraps a failed graph write. The write runs as a
// single transaction, so no partial mutation needs cleanup; the driver
// error is preserved verbatim and no retry is attempted.
type TransactionalWriteError struct {
	TransactionID string
	Err           error
}

func (e *TransactionalWriteError) Error() string {
	return fmt.Sprintf("graph write for claim %s failed: %v", e.TransactionID, e.Err)
}

func (e *TransactionalWriteError) Unwrap() error { return e.Err }

// Projection reports the mutations one ingestion produced. Re-ingesting a
// known transaction_id yields zeros: every clause is a MERGE and node
// attributes are set on create only.
type Projection struct {
	NodesCreated         int `json:"nodes_created"`
	RelationshipsCreated int `json:"relationships_created"`
}

// Projector writes one claim's entities and relationships into the graph.
type Projector struct {
	db Writer
}

// NewProjector builds a projector on top of a database write surface.
func NewProjector(db Writer) *Projector {
	return &Projector{db: db}
}

// Project merges the claim, its connected entities, and their
// relationships in one Cypher statement. Entity merges precede
// relationship merges; absent entities and their relationships are
// omitted entirely.
func (p *Projector) Project(ctx context.Context, facts *normalize.ClaimFacts) (*Projection, error) {
	query, params := buildClaimMerge(facts)

	slog.Info("projecting claim into graph",
		"transactionId", facts.TransactionID,
		"claimType", facts.ClaimType,
		"entities", len(IdentityKeys(facts)))

	result, err := p.db.ExecuteWriteQuery(ctx, query, params)
	if err != nil {
		return nil, &TransactionalWriteError{TransactionID: facts.TransactionID, Err: err}
	}

	return &Projection{
		NodesCreated:         result.Summary.NodesCreated,
		RelationshipsCreated: result.Summary.RelationshipsCreated,
	}, nil
}

// assignment is one ON CREATE property write.
type assignment struct {
	property string
	param    string
	value    any
}

// buildClaimMerge renders the single-statement MERGE for one claim. The
// statement shape depends only on which facts are present, so parameter
// names can stay fixed.
func buildClaimMerge(facts *normalize.ClaimFacts) (string, map[string]any) {
	var b strings.Builder
	params := map[string]any{"transactionId": facts.TransactionID}

	b.WriteString("MERGE (c:Claim {transactionId: $transactionId})\n")
	writeOnCreate(&b, "c", claimAssignments(facts), params)

	hasPerson := facts.PersonKey() != ""
	if hasPerson {
		params["personKey"] = facts.PersonKey()
		b.WriteString("MERGE (p:Person {personKey: $personKey})\n")
		writeOnCreate(&b, "p", personAssignments(facts), params)
	}
	if facts.PolicyNumber != "" {
		params["policyNumber"] = facts.PolicyNumber
		b.WriteString("MERGE (pol:Policy {policyNumber: $policyNumber})\n")
	}
	if facts.AgentID != "" {
		params["agentId"] = facts.AgentID
		b.WriteString("MERGE (ag:Agent {agentId: $agentId})\n")
	}
	if facts.VendorID != "" {
		params["vendorId"] = facts.VendorID
		b.WriteString("MERGE (vn:Vendor {vendorId: $vendorId})\n")
	}
	assets := facts.Assets()
	for i, asset := range assets {
		valueParam := fmt.Sprintf("assetValue%d", i)
		kindParam := fmt.Sprintf("assetKind%d", i)
		params[valueParam] = asset.Value
		params[kindParam] = string(asset.Kind)
		fmt.Fprintf(&b, "MERGE (a%d:Asset {value: $%s})\n", i, valueParam)
		fmt.Fprintf(&b, "ON CREATE SET a%d.kind = $%s\n", i, kindParam)
	}
	hasAddress := hasPerson && facts.AddressKey() != ""
	if hasAddress {
		params["addressKey"] = facts.AddressKey()
		b.WriteString("MERGE (addr:Address {addressKey: $addressKey})\n")
		writeOnCreate(&b, "addr", addressAssignments(facts), params)
	}

	if hasPerson {
		b.WriteString("MERGE (p)-[:FILED]->(c)\n")
	}
	if facts.PolicyNumber != "" {
		b.WriteString("MERGE (c)-[:UNDER_POLICY]->(pol)\n")
	}
	if facts.AgentID != "" {
		b.WriteString("MERGE (c)-[:HANDLED_BY]->(ag)\n")
	}
	if facts.VendorID != "" {
		b.WriteString("MERGE (c)-[:SERVICED_BY]->(vn)\n")
	}
	for i := range assets {
		fmt.Fprintf(&b, "MERGE (c)-[:INVOLVES]->(a%d)\n", i)
	}
	if hasAddress {
		b.WriteString("MERGE (p)-[:LIVES_AT]->(addr)\n")
	}

	return strings.TrimRight(b.String(), "\n"), params
}

func writeOnCreate(b *strings.Builder, alias string, assigns []assignment, params map[string]any) {
	if len(assigns) == 0 {
		return
	}
	parts := make([]string, 0, len(assigns))
	for _, a := range assigns {
		params[a.param] = a.value
		parts = append(parts, fmt.Sprintf("%s.%s = $%s", alias, a.property, a.param))
	}
	b.WriteString("ON CREATE SET " + strings.Join(parts, ", ") + "\n")
}

func claimAssignments(facts *normalize.ClaimFacts) []assignment {
	assigns := []assignment{
		{property: "claimType", param: "claimType", value: string(facts.ClaimType)},
	}
	if facts.ClaimAmount != nil {
		assigns = append(assigns, assignment{property: "claimAmount", param: "claimAmount", value: *facts.ClaimAmount})
	}
	if facts.ClaimDate != "" {
		assigns = append(assigns, assignment{property: "claimDate", param: "claimDate", value: facts.ClaimDate})
	}
	if facts.Severity != "" {
		assigns = append(assigns, assignment{property: "severity", param: "severity", value: facts.Severity})
	}
	if facts.Status != "" {
		assigns = append(assigns, assignment{property: "status", param: "status", value: facts.Status})
	}
	return assigns
}

func personAssignments(facts *normalize.ClaimFacts) []assignment {
	var assigns []assignment
	if facts.CustomerID != "" {
		assigns = append(assigns, assignment{property: "customerId", param: "customerId", value: facts.CustomerID})
	}
	if facts.CustomerName != "" {
		assigns = append(assigns, assignment{property: "name", param: "customerName", value: facts.CustomerName})
	}
	if facts.SSN != "" {
		assigns = append(assigns, assignment{property: "ssn", param: "ssn", value: facts.SSN})
	}
	return assigns
}

func addressAssignments(facts *normalize.ClaimFacts) []assignment {
	assigns := []assignment{
		{property: "line1", param: "addressLine1", value: facts.AddressLine1},
	}
	if facts.City != "" {
		assigns = append(assigns, assignment{property: "city", param: "city", value: facts.City})
	}
	if facts.State != "" {
		assigns = append(assigns, assignment{property: "state", param: "state", value: facts.State})
	}
	if facts.PostalCode != "" {
		assigns = append(assigns, assignment{property: "postalCode", param: "postalCode", value: facts.PostalCode})
	}
	return assigns
}

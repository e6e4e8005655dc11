// Package graph projects normalized claim facts into the Neo4j claims
// graph and reads them back. Entity identity is data, not schema: the
// label-to-identity-property policy lives in one table consumed by the
// projector, the constraint bootstrap, and the read queries.
package graph

import "github.com/claimsight/neo4j-mcp-claims/internal/normalize"

// Node labels in the claims graph.
const (
	LabelClaim   = "Claim"
	LabelPerson  = "Person"
	LabelPolicy  = "Policy"
	LabelAgent   = "Agent"
	LabelVendor  = "Vendor"
	LabelAsset   = "Asset"
	LabelAddress = "Address"
)

// Relationship types in the claims graph.
const (
	RelFiled       = "FILED"
	RelUnderPolicy = "UNDER_POLICY"
	RelHandledBy   = "HANDLED_BY"
	RelServicedBy  = "SERVICED_BY"
	RelInvolves    = "INVOLVES"
	RelLivesAt     = "LIVES_AT"
)

// IdentityKey names the property that uniquely identifies nodes of one
// label, together with the value for a concrete node.
type IdentityKey struct {
	Label    string
	Property string
	Value    string
}

// identityProperties is the label-to-identity-property policy table.
// Asset nodes are keyed by the literal identifier value; the three
// identifier spaces (VIN, IMEI, property address) are disjoint, so a
// single property suffices.
var identityProperties = map[string]string{
	LabelClaim:   "transactionId",
	LabelPerson:  "personKey",
	LabelPolicy:  "policyNumber",
	LabelAgent:   "agentId",
	LabelVendor:  "vendorId",
	LabelAsset:   "value",
	LabelAddress: "addressKey",
}

// orderedLabels fixes iteration order for constraint bootstrap and
// anywhere else determinism matters.
var orderedLabels = []string{
	LabelClaim,
	LabelPerson,
	LabelPolicy,
	LabelAgent,
	LabelVendor,
	LabelAsset,
	LabelAddress,
}

// IdentityProperty returns the identity property for a label, empty for
// labels outside the claims model.
func IdentityProperty(label string) string {
	return identityProperties[label]
}

// IdentityKeys resolves the identity keys for every entity present on the
// facts, in projection order. Entities whose identity value is absent are
// omitted; only the Claim itself is guaranteed.
func IdentityKeys(facts *normalize.ClaimFacts) []IdentityKey {
	keys := []IdentityKey{
		{Label: LabelClaim, Property: identityProperties[LabelClaim], Value: facts.TransactionID},
	}
	if pk := facts.PersonKey(); pk != "" {
		keys = append(keys, IdentityKey{Label: LabelPerson, Property: identityProperties[LabelPerson], Value: pk})
	}
	if facts.PolicyNumber != "" {
		keys = append(keys, IdentityKey{Label: LabelPolicy, Property: identityProperties[LabelPolicy], Value: facts.PolicyNumber})
	}
	if facts.AgentID != "" {
		keys = append(keys, IdentityKey{Label: LabelAgent, Property: identityProperties[LabelAgent], Value: facts.AgentID})
	}
	if facts.VendorID != "" {
		keys = append(keys, IdentityKey{Label: LabelVendor, Property: identityProperties[LabelVendor], Value: facts.VendorID})
	}
	for _, asset := range facts.Assets() {
		keys = append(keys, IdentityKey{Label: LabelAsset, Property: identityProperties[LabelAsset], Value: asset.Value})
	}
	if ak := facts.AddressKey(); ak != "" && facts.PersonKey() != "" {
		keys = append(keys, IdentityKey{Label: LabelAddress, Property: identityProperties[LabelAddress], Value: ak})
	}
	return keys
}

package claimant_profile

import (
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/cypher/query_builder"
	"github.com/mark3labs/mcp-go/mcp"
)

// EntityConfig defines the configuration for the claimant node to retrieve
type EntityConfig struct {
	// NodeLabel is the label of the claimant node. Defaults to "Person".
	NodeLabel string `json:"nodeLabel,omitempty" jsonschema:"default=Person,description=Node label of the claimant entity"`

	// IdProperty is the property name containing the unique identifier.
	// Defaults to "personKey".
	IdProperty string `json:"idProperty,omitempty" jsonschema:"default=personKey,description=Property name for the unique identifier"`

	// BaseProperties are the properties from the claimant node to include in
	// base details. If empty, all properties are returned.
	BaseProperties []string `json:"baseProperties,omitempty" jsonschema:"description=List of base properties to include (e.g. [name, customerId]). If empty, returns all properties."`
}

// GetClaimantProfileInput defines the input parameters for the get-claimant-profile tool
type GetClaimantProfileInput struct {
	// EntityId is the unique identifier for the claimant (required)
	EntityId string `json:"entityId" jsonschema:"description=Claimant ID to retrieve the profile for (required)"`

	// EntityConfig overrides the claimant node configuration. When omitted,
	// the standard claims model (Person keyed by personKey) is used.
	EntityConfig EntityConfig `json:"entityConfig,omitempty" jsonschema:"description=Optional configuration for the claimant node (node label, ID property, base properties)"`

	// AttributeMappings overrides which connected attributes to retrieve.
	// When omitted, the standard claims model relationships are used.
	AttributeMappings []query_builder.AttributeMapping `json:"attributeMappings,omitempty" jsonschema:"description=Optional attribute mappings. Defaults to the standard claims model (FILED claims, LIVES_AT addresses). Use get-schema to discover mappings for custom schemas."`

	// PathMappings adds multi-hop traversals to the profile, collected under
	// a network category.
	PathMappings []query_builder.PathSpecification `json:"pathMappings,omitempty" jsonschema:"description=Optional multi-hop traversals (relationship type, direction, target label, hop bounds) collected under the network category."`
}

// Spec returns the MCP tool specification for get-claimant-profile
func Spec() mcp.Tool {
	return mcp.NewTool("get-claimant-profile",
		mcp.WithDescription(`Retrieves a comprehensive claimant profile from the claims graph.

**DEFAULT BEHAVIOR:**
With only an entityId, the tool reads the standard claims model:
- base_details: the Person node properties (name, customerId, masked identifiers)
- claim_history: every claim the person FILED (transaction id, type, amount, date, status)
- contact_information: addresses the person LIVES_AT

**SCHEMA-AWARE OVERRIDES:**
For databases with a custom layout, override entityConfig and attributeMappings:
1. **Call get-schema** to discover your database structure
2. **Analyze the claimant node** to identify attribute relationships
3. **For each attribute**, construct an AttributeMapping with:
   - relationshipType: The relationship name from your schema
   - targetLabel: The connected node label from your schema
   - identifierProperty: The property containing the key identifier
   - attributeCategory: Logical grouping (e.g. "claim_history", "contact_information")
   - includeProperties: Optional list of specific properties to retrieve
4. **Pass discovered mappings** to this tool's attributeMappings parameter

**MULTI-HOP NETWORK VIEW:**
pathMappings adds bounded traversals under a "network" category, e.g. co-claimants two hops away:
[
  {
    "relationshipType": "LIVES_AT",
    "direction": "both",
    "targetLabel": "Person",
    "minHops": 2,
    "maxHops": 2
  }
]

**WHEN TO USE THIS TOOL:**
- Building the claimant picture for an SIU referral
- Reviewing a claimant's filing history before approving a new claim
- Collecting identity details during a fraud investigation
- Verifying how a claimant connects to agents, vendors, and other claimants

**IMPORTANT NOTES:**
- Missing relationships return empty arrays, not errors
- Results honor your schema: nothing is assumed beyond what you map
- identifierProperty values are returned as stored; mask before sharing externally`),
		mcp.WithInputSchema[GetClaimantProfileInput](),
		mcp.WithTitleAnnotation("Get Claimant Profile"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

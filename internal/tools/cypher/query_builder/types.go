package query_builder

// AttributeMapping describes one attribute reachable from a profiled node:
// which relationship to follow, what the target looks like, and which of
// its properties to bring back. The claims tools default these to the
// relationships the claim projector writes, but nothing here is tied to
// that schema.
type AttributeMapping struct {
	// RelationshipType to follow, such as FILED or LIVES_AT.
	RelationshipType string `json:"relationshipType"`

	// TargetLabel of the connected node, such as Claim or Address.
	TargetLabel string `json:"targetLabel"`

	// IdentifierProperty holds the target's key identifier, transactionId
	// for a Claim or addressKey for an Address. Empty means no single
	// identifier.
	IdentifierProperty string `json:"identifierProperty,omitempty"`

	// AttributeCategory groups mappings into output sections, such as
	// claim_history or contact_information.
	AttributeCategory string `json:"attributeCategory,omitempty"`

	// IncludeProperties limits which target properties are returned.
	// Empty means all of them via properties().
	IncludeProperties []string `json:"includeProperties,omitempty"`
}

// PathSpecification describes a multi-hop traversal to related nodes.
type PathSpecification struct {
	// RelationshipType to traverse.
	RelationshipType string `json:"relationshipType"`

	// Direction of traversal: out, in, or both.
	Direction string `json:"direction"`

	// TargetLabel expected at the end of the path.
	TargetLabel string `json:"targetLabel"`

	// MinHops bounds the traversal from below; zero means unbounded.
	MinHops int `json:"minHops,omitempty"`

	// MaxHops bounds it from above; zero means unbounded, which can be
	// expensive on dense graphs.
	MaxHops int `json:"maxHops,omitempty"`
}

package query_builder

import (
	"fmt"
	"strings"
)

// OptionalMatchBuilder accumulates OPTIONAL MATCH clauses for queries that
// are generated from schema mappings rather than written by hand. Variable
// names are generated, so callers never collide on them.
type OptionalMatchBuilder struct {
	clauses    []string
	varCounter int
}

// NewOptionalMatchBuilder creates an empty builder.
func NewOptionalMatchBuilder() *OptionalMatchBuilder {
	return &OptionalMatchBuilder{}
}

func (b *OptionalMatchBuilder) newVar(prefix string) string {
	name := fmt.Sprintf("%s%d", prefix, b.varCounter)
	b.varCounter++
	return name
}

// AddAttributeMatch appends a single-hop OPTIONAL MATCH for an attribute
// relationship and returns the variable bound to the target node.
//
// AddAttributeMatch("p", AttributeMapping{RelationshipType: "FILED", TargetLabel: "Claim"})
// appends OPTIONAL MATCH (p)-[:FILED]->(attr0:Claim) and returns "attr0".
func (b *OptionalMatchBuilder) AddAttributeMatch(sourceVar string, mapping AttributeMapping) string {
	varName := b.newVar("attr")
	b.clauses = append(b.clauses, fmt.Sprintf("OPTIONAL MATCH (%s)-[:%s]->(%s:%s)",
		sourceVar, mapping.RelationshipType, varName, mapping.TargetLabel))
	return varName
}

// AddPathMatch appends an OPTIONAL MATCH for a path traversal and returns
// the variable bound to the end node. Direction "in" and "both" flip or
// drop the arrow; anything else traverses outgoing.
//
// AddPathMatch("c", PathSpecification{RelationshipType: "INVOLVES", TargetLabel: "Asset", MinHops: 1, MaxHops: 3})
// appends OPTIONAL MATCH (c)-[:INVOLVES*1..3]->(path0:Asset) and returns "path0".
func (b *OptionalMatchBuilder) AddPathMatch(sourceVar string, path PathSpecification) string {
	varName := b.newVar("path")

	pattern := fmt.Sprintf("[:%s%s]", path.RelationshipType, hopRange(path.MinHops, path.MaxHops))
	var clause string
	switch path.Direction {
	case "in":
		clause = fmt.Sprintf("OPTIONAL MATCH (%s)<-%s-(%s:%s)", sourceVar, pattern, varName, path.TargetLabel)
	case "both":
		clause = fmt.Sprintf("OPTIONAL MATCH (%s)-%s-(%s:%s)", sourceVar, pattern, varName, path.TargetLabel)
	default:
		clause = fmt.Sprintf("OPTIONAL MATCH (%s)-%s->(%s:%s)", sourceVar, pattern, varName, path.TargetLabel)
	}

	b.clauses = append(b.clauses, clause)
	return varName
}

// hopRange renders the Cypher variable-length specifier for the given hop
// bounds. Unset bounds on both sides mean a plain single-hop pattern.
func hopRange(minHops, maxHops int) string {
	switch {
	case minHops <= 0 && maxHops <= 0:
		return ""
	case minHops == maxHops:
		return fmt.Sprintf("*%d", minHops)
	case minHops <= 0:
		return fmt.Sprintf("*..%d", maxHops)
	case maxHops <= 0:
		return fmt.Sprintf("*%d..", minHops)
	default:
		return fmt.Sprintf("*%d..%d", minHops, maxHops)
	}
}

// AddCustomMatch appends a hand-written pattern for shapes the helper
// methods do not cover. The OPTIONAL MATCH keyword is supplied here.
func (b *OptionalMatchBuilder) AddCustomMatch(clause string) {
	b.clauses = append(b.clauses, "OPTIONAL MATCH "+clause)
}

// Build joins the accumulated clauses, one per line.
func (b *OptionalMatchBuilder) Build() string {
	return strings.Join(b.clauses, "\n")
}

// GetClauseCount reports how many clauses have been added.
func (b *OptionalMatchBuilder) GetClauseCount() int {
	return len(b.clauses)
}

// CollectionBuilder assembles the map expressions fed to collect() in
// RETURN clauses.
type CollectionBuilder struct {
	items []string
}

// NewCollectionBuilder creates an empty collection builder.
func NewCollectionBuilder() *CollectionBuilder {
	return &CollectionBuilder{}
}

// AddProperty maps a single node property, as in amount: c.claimAmount.
func (c *CollectionBuilder) AddProperty(propName string, sourceVar string, sourceProp string) {
	c.items = append(c.items, fmt.Sprintf("%s: %s.%s", propName, sourceVar, sourceProp))
}

// AddAllProperties maps every property of a node via properties().
func (c *CollectionBuilder) AddAllProperties(key string, sourceVar string) {
	c.items = append(c.items, fmt.Sprintf("%s: properties(%s)", key, sourceVar))
}

// AddCustomExpression maps a key to an arbitrary Cypher expression, as in
// location: a.city + ', ' + a.state.
func (c *CollectionBuilder) AddCustomExpression(key string, expression string) {
	c.items = append(c.items, key+": "+expression)
}

// Build renders the accumulated entries as a Cypher map literal.
func (c *CollectionBuilder) Build() string {
	return "{" + strings.Join(c.items, ", ") + "}"
}

// BuildDistinctCollection wraps the map in collect(DISTINCT ...).
func (c *CollectionBuilder) BuildDistinctCollection() string {
	return "collect(DISTINCT " + c.Build() + ")"
}

// BuildCollection wraps the map in collect(...).
func (c *CollectionBuilder) BuildCollection() string {
	return "collect(" + c.Build() + ")"
}

// GroupMappingsByCategory buckets attribute mappings by category so profile
// sections render together. Mappings without a category land in
// other_attributes.
func GroupMappingsByCategory(mappings []AttributeMapping) map[string][]AttributeMapping {
	grouped := make(map[string][]AttributeMapping)
	for _, mapping := range mappings {
		category := mapping.AttributeCategory
		if category == "" {
			category = "other_attributes"
		}
		grouped[category] = append(grouped[category], mapping)
	}
	return grouped
}

// BuildPropertyMap renders a map projection for one mapped node. Map
// projections keep aggregating queries clear of implicit grouping errors.
// With IncludeProperties set the projection lists the identifier and those
// properties, as in claim0{.transactionId, .claimType}; otherwise it falls
// back to the identifier plus .*.
func BuildPropertyMap(varName string, mapping AttributeMapping) string {
	if len(mapping.IncludeProperties) > 0 {
		props := make([]string, 0, len(mapping.IncludeProperties)+1)
		if mapping.IdentifierProperty != "" {
			props = append(props, "."+mapping.IdentifierProperty)
		}
		for _, prop := range mapping.IncludeProperties {
			props = append(props, "."+prop)
		}
		return fmt.Sprintf("%s{%s}", varName, strings.Join(props, ", "))
	}

	if mapping.IdentifierProperty != "" {
		return fmt.Sprintf("%s{.%s, .*}", varName, mapping.IdentifierProperty)
	}
	return varName + "{.*}"
}

// SanitizeIdentifier reduces a string to a legal Cypher variable name:
// alphanumerics only, with a leading v when the result would start with a
// digit. Strings that sanitize to nothing become var.
func SanitizeIdentifier(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	switch out := b.String(); {
	case out == "":
		return "var"
	case out[0] >= '0' && out[0] <= '9':
		return "v" + out
	default:
		return out
	}
}

package schema

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

const (
	// schemaVisualizationQuery retrieves the graph structure (nodes and relationships)
	schemaVisualizationQuery = `CALL db.schema.visualization()`

	// nodePropertiesQuery retrieves node properties with their types
	nodePropertiesQuery = `
		CALL db.schema.nodeTypeProperties()
		YIELD nodeLabels, propertyName, propertyTypes
		RETURN nodeLabels, propertyName, propertyTypes
	`

	// relPropertiesQuery retrieves relationship properties with their types
	relPropertiesQuery = `
		CALL db.schema.relTypeProperties()
		YIELD relType, propertyName, propertyTypes
		RETURN relType, propertyName, propertyTypes
	`

	// apocSchemaQuery is the fallback for servers without the native schema
	// procedures. The sample option bounds how many nodes per label APOC
	// inspects when deriving property types.
	apocSchemaQuery = `
		CALL apoc.meta.schema({sample: $sample}) YIELD value
		UNWIND keys(value) AS key
		RETURN key, value[key] AS value
	`
)

// claimsDatabaseContext frames the schema for LLM consumers before the
// structural sections.
const claimsDatabaseContext = `# Neo4j Insurance Claims Database Schema

This is a graph database for detecting fraud in insurance claims. Graph databases excel at:
- **Pattern Detection**: Finding suspicious patterns across connected entities
- **Relationship Analysis**: Traversing networks to identify hidden connections
- **Identity Resolution**: Linking claimants across shared identifiers
- **Network Analytics**: Surfacing collusion between parties that never appear together on paper

**Example use cases** this type of database commonly supports include (but are not limited to):
- Detecting identity farming through SSNs shared across claimants
- Identifying collusion rings between agents and repair vendors
- Tracing assets (vehicles, devices, properties) recycled across claims
- Spotting claimants with abnormal filing velocity

The schema below shows the current structure of your Neo4j database.

---

`

// GetSchemaHandler returns a handler function for the get-schema tool
func GetSchemaHandler(deps *tools.ToolDependencies, schemaSampleSize int) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetSchema(ctx, deps, schemaSampleSize)
	}
}

// handleGetSchema retrieves the schema via the native procedures and falls
// back to APOC sampling when those are unavailable.
func handleGetSchema(ctx context.Context, deps *tools.ToolDependencies, schemaSampleSize int) (*mcp.CallToolResult, error) {
	if deps.DBService == nil {
		errMessage := "database service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}
	if deps.AnalyticsService == nil {
		errMessage := "analytics service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("get-schema"))
	slog.Info("retrieving schema from the database", "database", deps.DBService.GetDatabaseName())

	visualizationRecords, err := deps.DBService.ExecuteReadQuery(ctx, schemaVisualizationQuery, nil)
	if err != nil {
		slog.Warn("schema visualization unavailable, falling back to APOC sampling", "error", err)
		return handleGetSchemaAPOC(ctx, deps, schemaSampleSize)
	}

	slog.Debug("schema visualization query completed", "records_count", len(visualizationRecords))

	if len(visualizationRecords) == 0 {
		// Before declaring the database empty, verify with a node count check
		slog.Warn("schema visualization returned no records, verifying database contents")
		countRecords, countErr := deps.DBService.ExecuteReadQuery(ctx, "MATCH (n) RETURN count(n) as nodeCount", nil)
		if countErr != nil {
			slog.Error("failed to execute node count verification query", "error", countErr)
			return mcp.NewToolResultError(fmt.Sprintf("schema visualization returned no records and verification failed: %v", countErr)), nil
		}
		if nodeCount, ok := singleCount(countRecords, "nodeCount"); ok && nodeCount > 0 {
			slog.Error("database contains nodes but schema visualization returned empty",
				"nodeCount", nodeCount,
				"database", deps.DBService.GetDatabaseName())
			return mcp.NewToolResultError(fmt.Sprintf("Internal error: database '%s' contains %d nodes but schema visualization failed. This may indicate a schema introspection issue.", deps.DBService.GetDatabaseName(), nodeCount)), nil
		}

		slog.Info("database is empty, no schema to return", "database", deps.DBService.GetDatabaseName())
		return mcp.NewToolResultText(fmt.Sprintf("The get-schema tool executed successfully; however, since the Neo4j database '%s' contains no data, no schema information was returned.", deps.DBService.GetDatabaseName())), nil
	}

	nodePropsRecords, err := deps.DBService.ExecuteReadQuery(ctx, nodePropertiesQuery, nil)
	if err != nil {
		slog.Error("failed to execute node properties query", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	relPropsRecords, err := deps.DBService.ExecuteReadQuery(ctx, relPropertiesQuery, nil)
	if err != nil {
		slog.Error("failed to execute relationship properties query", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	structuredOutput, err := processNativeSchema(visualizationRecords, nodePropsRecords, relPropsRecords)
	if err != nil {
		slog.Error("failed to process get-schema native queries", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return schemaResult(structuredOutput), nil
}

// handleGetSchemaAPOC derives the schema from apoc.meta.schema with bounded
// per-label sampling.
func handleGetSchemaAPOC(ctx context.Context, deps *tools.ToolDependencies, schemaSampleSize int) (*mcp.CallToolResult, error) {
	records, err := deps.DBService.ExecuteReadQuery(ctx, apocSchemaQuery, map[string]any{"sample": schemaSampleSize})
	if err != nil {
		slog.Error("failed to execute APOC schema query", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(records) == 0 {
		slog.Info("database is empty, no schema to return", "database", deps.DBService.GetDatabaseName())
		return mcp.NewToolResultText(fmt.Sprintf("The get-schema tool executed successfully; however, since the Neo4j database '%s' contains no data, no schema information was returned.", deps.DBService.GetDatabaseName())), nil
	}

	structuredOutput, err := processAPOCSchema(records)
	if err != nil {
		slog.Error("failed to process APOC schema", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	slog.Info("schema derived via APOC sampling", "sample", schemaSampleSize, "items", len(structuredOutput))
	return schemaResult(structuredOutput), nil
}

func schemaResult(items []SchemaItem) *mcp.CallToolResult {
	markdown := claimsDatabaseContext + formatSchemaAsMarkdown(items)
	slog.Info("returning schema with claims context", "schema_size", len(markdown))
	return mcp.NewToolResultText(markdown)
}

func singleCount(records []*neo4j.Record, key string) (int64, bool) {
	if len(records) == 0 {
		return 0, false
	}
	raw, ok := records[0].Get(key)
	if !ok {
		return 0, false
	}
	count, ok := raw.(int64)
	return count, ok
}

type SchemaItem struct {
	Key   string       `json:"key"`
	Value SchemaDetail `json:"value"`
}

type SchemaDetail struct {
	Type          string                  `json:"type"`
	Properties    map[string]string       `json:"properties,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

type Relationship struct {
	Direction  string            `json:"direction"`
	Labels     []string          `json:"labels"` // List of target node labels
	Properties map[string]string `json:"properties,omitempty"`
}

// processNativeSchema combines results from the native Neo4j schema
// procedures into a unified schema format.
func processNativeSchema(visualizationRecords, nodePropsRecords, relPropsRecords []*neo4j.Record) ([]SchemaItem, error) {
	if len(visualizationRecords) == 0 {
		return nil, fmt.Errorf("no visualization records returned")
	}

	visRecord := visualizationRecords[0]
	nodesRaw, ok := visRecord.Get("nodes")
	if !ok {
		return nil, fmt.Errorf("missing 'nodes' in visualization record")
	}
	relationshipsRaw, ok := visRecord.Get("relationships")
	if !ok {
		return nil, fmt.Errorf("missing 'relationships' in visualization record")
	}

	nodesList, ok := nodesRaw.([]any)
	if !ok {
		return nil, fmt.Errorf("invalid nodes format in visualization")
	}
	relationshipsList, ok := relationshipsRaw.([]any)
	if !ok {
		return nil, fmt.Errorf("invalid relationships format in visualization")
	}

	nodePropMap := nativePropertyMap(nodePropsRecords, "nodeLabels")
	relPropMap := nativePropertyMap(relPropsRecords, "relType")

	// The visualization returns virtual nodes whose name property carries
	// the label; element ids tie the virtual relationships to them.
	nodeIDToLabel := make(map[string]string)
	for _, nodeRaw := range nodesList {
		node, ok := nodeRaw.(dbtype.Node)
		if !ok {
			slog.Warn("skipping visualization node", "type", fmt.Sprintf("%T", nodeRaw))
			continue
		}
		if label, ok := node.Props["name"].(string); ok {
			nodeIDToLabel[node.ElementId] = label
		}
	}

	nodeRelsMap := make(map[string]map[string]Relationship)
	for _, relRaw := range relationshipsList {
		rel, ok := relRaw.(dbtype.Relationship)
		if !ok {
			slog.Warn("skipping visualization relationship", "type", fmt.Sprintf("%T", relRaw))
			continue
		}
		relType, ok := rel.Props["name"].(string)
		if !ok || relType == "" {
			relType = rel.Type
		}
		if relType == "" {
			continue
		}

		startLabel := nodeIDToLabel[rel.StartElementId]
		endLabel := nodeIDToLabel[rel.EndElementId]
		if startLabel == "" || endLabel == "" {
			continue
		}

		if nodeRelsMap[startLabel] == nil {
			nodeRelsMap[startLabel] = make(map[string]Relationship)
		}
		nodeRelsMap[startLabel][relType] = Relationship{
			Direction:  "out",
			Labels:     []string{endLabel},
			Properties: relPropMap[relType],
		}

		if nodeRelsMap[endLabel] == nil {
			nodeRelsMap[endLabel] = make(map[string]Relationship)
		}
		nodeRelsMap[endLabel][relType] = Relationship{
			Direction:  "in",
			Labels:     []string{startLabel},
			Properties: relPropMap[relType],
		}
	}

	result := make([]SchemaItem, 0, len(nodesList)+len(relationshipsList))

	for _, nodeRaw := range nodesList {
		node, ok := nodeRaw.(dbtype.Node)
		if !ok {
			continue
		}
		nodeName, ok := node.Props["name"].(string)
		if !ok || nodeName == "" {
			continue
		}
		result = append(result, SchemaItem{
			Key: nodeName,
			Value: SchemaDetail{
				Type:          "node",
				Properties:    nodePropMap[nodeName],
				Relationships: nodeRelsMap[nodeName],
			},
		})
	}

	relTypesSeen := make(map[string]bool)
	for _, relRaw := range relationshipsList {
		rel, ok := relRaw.(dbtype.Relationship)
		if !ok {
			continue
		}
		relType, ok := rel.Props["name"].(string)
		if !ok || relType == "" {
			relType = rel.Type
		}
		if relType == "" || relTypesSeen[relType] {
			continue
		}
		relTypesSeen[relType] = true
		result = append(result, SchemaItem{
			Key: relType,
			Value: SchemaDetail{
				Type:       "relationship",
				Properties: relPropMap[relType],
			},
		})
	}

	slog.Info("schema processing complete", "totalItems", len(result), "relationshipTypes", len(relTypesSeen))
	return result, nil
}

// nativePropertyMap flattens a db.schema.*TypeProperties record set into
// name -> {property -> type}. The key column is either a label list
// (nodeLabels) or a relationship type string (relType).
func nativePropertyMap(records []*neo4j.Record, keyColumn string) map[string]map[string]string {
	propMap := make(map[string]map[string]string)
	for _, record := range records {
		keyRaw, _ := record.Get(keyColumn)
		propertyName, _ := record.Get("propertyName")
		propertyTypes, _ := record.Get("propertyTypes")

		var key string
		switch typed := keyRaw.(type) {
		case string:
			// relType comes back in the backtick-quoted form :`FILED`
			key = strings.Trim(strings.TrimPrefix(typed, ":"), "`")
		case []any:
			if len(typed) > 0 {
				key, _ = typed[0].(string)
			}
		}
		if key == "" {
			continue
		}

		propName, ok := propertyName.(string)
		if !ok {
			continue
		}
		propType := "ANY"
		if types, ok := propertyTypes.([]any); ok && len(types) > 0 {
			if typed, ok := types[0].(string); ok {
				propType = typed
			}
		}

		if propMap[key] == nil {
			propMap[key] = make(map[string]string)
		}
		propMap[key][propName] = propType
	}
	return propMap
}

// processAPOCSchema transforms apoc.meta.schema output into the unified
// schema format. Property descriptors are reduced to their type name and
// relationship descriptors to direction, target labels, and properties.
func processAPOCSchema(records []*neo4j.Record) ([]SchemaItem, error) {
	simplifiedSchema := make([]SchemaItem, 0, len(records))

	for _, record := range records {
		keyRaw, ok := record.Get("key")
		if !ok {
			return nil, fmt.Errorf("missing 'key' column in record")
		}
		keyStr, ok := keyRaw.(string)
		if !ok {
			return nil, fmt.Errorf("invalid key returned")
		}

		valRaw, ok := record.Get("value")
		if !ok {
			return nil, fmt.Errorf("missing 'value' column in record")
		}
		data, ok := valRaw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invalid value returned")
		}

		itemType, ok := data["type"].(string)
		if !ok {
			return nil, fmt.Errorf("invalid type returned")
		}

		cleanProps, ok := simplifyProperties(data["properties"])
		if !ok {
			return nil, fmt.Errorf("invalid properties returned")
		}

		var cleanRels map[string]Relationship
		if rawRels, exists := data["relationships"]; exists && rawRels != nil {
			relsMap, ok := rawRels.(map[string]any)
			if ok && len(relsMap) > 0 {
				cleanRels = make(map[string]Relationship)
				for relName, rawRelDetails := range relsMap {
					relDetails, ok := rawRelDetails.(map[string]any)
					if !ok {
						return nil, fmt.Errorf("invalid relationship returned")
					}
					direction, ok := relDetails["direction"].(string)
					if !ok {
						return nil, fmt.Errorf("invalid direction returned")
					}

					var labels []string
					rawLabels, ok := relDetails["labels"].([]any)
					if !ok {
						return nil, fmt.Errorf("invalid relationship labels returned")
					}
					for _, l := range rawLabels {
						if lStr, ok := l.(string); ok {
							labels = append(labels, lStr)
						}
					}

					relProps, ok := simplifyProperties(relDetails["properties"])
					if !ok {
						return nil, fmt.Errorf("invalid relationship properties returned")
					}
					cleanRels[relName] = Relationship{
						Direction:  direction,
						Labels:     labels,
						Properties: relProps,
					}
				}
			}
		}

		simplifiedSchema = append(simplifiedSchema, SchemaItem{
			Key: keyStr,
			Value: SchemaDetail{
				Type:          itemType,
				Properties:    cleanProps,
				Relationships: cleanRels,
			},
		})
	}

	return simplifiedSchema, nil
}

// simplifyProperties keeps the type name and drops index and existence
// metadata.
func simplifyProperties(rawProps any) (map[string]string, bool) {
	props, ok := rawProps.(map[string]any)
	if !ok {
		return nil, false
	}
	cleanProps := make(map[string]string)
	for propName, rawPropDetails := range props {
		propDetails, ok := rawPropDetails.(map[string]any)
		if !ok {
			continue
		}
		typeName, ok := propDetails["type"].(string)
		if !ok {
			return nil, false
		}
		cleanProps[propName] = typeName
	}
	return cleanProps, true
}

// formatSchemaAsMarkdown converts the structured schema to the markdown
// layout used across the Neo4j documentation.
func formatSchemaAsMarkdown(items []SchemaItem) string {
	var md strings.Builder

	md.WriteString("# Database Schema\n\n")
	md.WriteString("This schema represents the current state of your Neo4j database.\n\n")

	var nodes []SchemaItem
	var relationships []SchemaItem
	for _, item := range items {
		switch item.Value.Type {
		case "node":
			nodes = append(nodes, item)
		case "relationship":
			relationships = append(relationships, item)
		}
	}

	if len(nodes) > 0 {
		md.WriteString("## 1. Node Labels and Properties\n\n")

		for _, node := range nodes {
			md.WriteString(fmt.Sprintf("### %s\n\n", node.Key))

			if len(node.Value.Properties) > 0 {
				md.WriteString("*Properties:*\n\n")
				for propName, propType := range node.Value.Properties {
					md.WriteString(fmt.Sprintf("  - `%s` (%s)\n", propName, propType))
				}
				md.WriteString("\n")
			}

			if len(node.Value.Relationships) > 0 {
				md.WriteString("*Relationships:*\n\n")
				for relName, rel := range node.Value.Relationships {
					var cypherPattern string
					targetLabels := strings.Join(rel.Labels, ", ")
					if rel.Direction == "out" {
						cypherPattern = fmt.Sprintf("(:%s)-[:%s]->(:%s)", node.Key, relName, targetLabels)
					} else {
						cypherPattern = fmt.Sprintf("(:%s)<-[:%s]-(:%s)", node.Key, relName, targetLabels)
					}
					md.WriteString(fmt.Sprintf("  - `%s`\n", cypherPattern))
				}
				md.WriteString("\n")
			}
		}
	}

	if len(relationships) > 0 {
		md.WriteString("## 2. Relationship Types\n\n")

		for _, rel := range relationships {
			md.WriteString(fmt.Sprintf("### :%s\n\n", rel.Key))

			if len(rel.Value.Properties) > 0 {
				md.WriteString("*Properties:*\n\n")
				for propName, propType := range rel.Value.Properties {
					md.WriteString(fmt.Sprintf("  - `%s` (%s)\n", propName, propType))
				}
				md.WriteString("\n")
			}
		}
	}

	return md.String()
}

package claimant_profile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/cypher/query_builder"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultMappings is the standard claims model: the relationships the
// projector writes for every ingested claim.
func defaultMappings() []query_builder.AttributeMapping {
	return []query_builder.AttributeMapping{
		{
			RelationshipType:   "FILED",
			TargetLabel:        "Claim",
			IdentifierProperty: "transactionId",
			AttributeCategory:  "claim_history",
			IncludeProperties:  []string{"claimType", "claimAmount", "claimDate", "status"},
		},
		{
			RelationshipType:   "LIVES_AT",
			TargetLabel:        "Address",
			IdentifierProperty: "addressKey",
			AttributeCategory:  "contact_information",
			IncludeProperties:  []string{"line1", "city", "state", "postalCode"},
		},
	}
}

// Handler returns the tool handler function for get-claimant-profile
func Handler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetClaimantProfile(ctx, request, deps)
	}
}

func handleGetClaimantProfile(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.AnalyticsService == nil {
		errMessage := "analytics service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}
	if deps.DBService == nil {
		errMessage := "database service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	deps.AnalyticsService.EmitEvent(
		deps.AnalyticsService.NewToolsEvent("get-claimant-profile"),
	)

	var args GetClaimantProfileInput
	if err := request.BindArguments(&args); err != nil {
		slog.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	if args.EntityId == "" {
		errMessage := "entityId parameter is required"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	// Fill the standard claims model for anything not overridden.
	if args.EntityConfig.NodeLabel == "" {
		args.EntityConfig.NodeLabel = "Person"
	}
	if args.EntityConfig.IdProperty == "" {
		args.EntityConfig.IdProperty = "personKey"
	}
	if len(args.AttributeMappings) == 0 {
		args.AttributeMappings = defaultMappings()
	}

	slog.Info("retrieving claimant profile",
		"entityId", args.EntityId,
		"entityLabel", args.EntityConfig.NodeLabel,
		"attributeMappings", len(args.AttributeMappings),
		"pathMappings", len(args.PathMappings))

	query := buildClaimantProfileQuery(args.EntityConfig, args.AttributeMappings, args.PathMappings)

	params := map[string]any{
		"entityId": args.EntityId,
	}

	slog.Debug("executing claimant profile query", "query", query)

	records, err := deps.DBService.ExecuteReadQuery(ctx, query, params)
	if err != nil {
		slog.Error("error executing claimant profile query", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	response, err := deps.DBService.Neo4jRecordsToJSON(records)
	if err != nil {
		slog.Error("error formatting query results", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response), nil
}

// buildClaimantProfileQuery constructs a dynamic Cypher query from the
// attribute and path mappings. All aggregation happens in the WITH clause
// so the RETURN map only references pre-collected variables.
func buildClaimantProfileQuery(entityConfig EntityConfig, mappings []query_builder.AttributeMapping, paths []query_builder.PathSpecification) string {
	var profileQuery strings.Builder

	profileQuery.WriteString(fmt.Sprintf("MATCH (e:%s {%s: $entityId})\n", entityConfig.NodeLabel, entityConfig.IdProperty))

	categorizedMappings := query_builder.GroupMappingsByCategory(mappings)

	matchBuilder := query_builder.NewOptionalMatchBuilder()
	varsByCategory := make(map[string][]string)
	for category, categoryMappings := range categorizedMappings {
		vars := make([]string, 0, len(categoryMappings))
		for _, mapping := range categoryMappings {
			vars = append(vars, matchBuilder.AddAttributeMatch("e", mapping))
		}
		varsByCategory[category] = vars
	}

	pathVars := make([]string, 0, len(paths))
	for _, path := range paths {
		pathVars = append(pathVars, matchBuilder.AddPathMatch("e", path))
	}

	if matchBuilder.GetClauseCount() > 0 {
		profileQuery.WriteString(matchBuilder.Build())
		profileQuery.WriteString("\n")
	}

	profileQuery.WriteString("WITH e")

	collectionAliases := make(map[string]map[string]string) // category -> {collectionKey -> alias}
	for category, categoryMappings := range categorizedMappings {
		collectionAliases[category] = make(map[string]string)
		for i, mapping := range categoryMappings {
			varName := varsByCategory[category][i]
			propMap := query_builder.BuildPropertyMap(varName, mapping)

			collectionKey := strings.ToLower(mapping.TargetLabel) + "s"
			collectionAlias := fmt.Sprintf("%s_%s", strings.ReplaceAll(category, "-", "_"), collectionKey)
			collectionAliases[category][collectionKey] = collectionAlias

			profileQuery.WriteString(fmt.Sprintf(",\n     collect(DISTINCT %s) as %s", propMap, collectionAlias))
		}
	}

	if len(pathVars) > 0 {
		collectionAliases["network"] = make(map[string]string)
		for i, path := range paths {
			collectionKey := strings.ToLower(path.TargetLabel) + "s"
			collectionAlias := fmt.Sprintf("network_%s", collectionKey)
			collectionAliases["network"][collectionKey] = collectionAlias

			profileQuery.WriteString(fmt.Sprintf(",\n     collect(DISTINCT %s{.*}) as %s", pathVars[i], collectionAlias))
		}
	}
	profileQuery.WriteString("\n")

	profileQuery.WriteString("RETURN {\n")

	profileQuery.WriteString("  base_details: ")
	if len(entityConfig.BaseProperties) > 0 {
		profileQuery.WriteString("{\n")
		for i, prop := range entityConfig.BaseProperties {
			if i > 0 {
				profileQuery.WriteString(",\n")
			}
			profileQuery.WriteString(fmt.Sprintf("    %s: e.%s", prop, prop))
		}
		profileQuery.WriteString("\n  }")
	} else {
		profileQuery.WriteString("properties(e)")
	}

	for category, aliases := range collectionAliases {
		profileQuery.WriteString(",\n")
		profileQuery.WriteString(buildCategoryReturnClause(category, aliases))
	}

	profileQuery.WriteString("\n} as claimantProfile")

	return profileQuery.String()
}

// buildCategoryReturnClause renders one category of pre-collected variables
// as a nested map entry.
func buildCategoryReturnClause(category string, collectionAliases map[string]string) string {
	var clauseBuilder strings.Builder

	clauseBuilder.WriteString(fmt.Sprintf("  %s: {\n", category))

	i := 0
	for collectionKey, alias := range collectionAliases {
		if i > 0 {
			clauseBuilder.WriteString(",\n")
		}
		clauseBuilder.WriteString(fmt.Sprintf("    %s: %s", collectionKey, alias))
		i++
	}

	clauseBuilder.WriteString("\n  }")

	return clauseBuilder.String()
}

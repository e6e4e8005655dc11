package server

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/claims/check"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/claims/ingest"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/claims/neighborhood"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/cypher/read"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/cypher/write"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/data/claimant_profile"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/data/graph_stats"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/dynamic"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/fraud/pattern_sweep"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/fraud/referral"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/models"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/schema"
)

// registerTools adds every enabled tool to the MCP server. In read-only
// mode (Config.ReadOnly, typically set through NEO4J_READ_ONLY) only
// definitions marked readonly survive the filter, which removes
// ingest-claim and write-cypher while keeping every query and guidance
// tool available.
func (s *ClaimsMCPServer) registerTools() error {
	s.MCPServer.AddTools(s.getEnabledTools()...)
	return nil
}

type toolFilter func(tools []ToolDefinition) []ToolDefinition

type toolCategory int

const (
	cypherCategory  toolCategory = 0
	claimsCategory  toolCategory = 1
	fraudCategory   toolCategory = 2
	schemaCategory  toolCategory = 3
	dataCategory    toolCategory = 4
	dynamicCategory toolCategory = 5
)

// ToolDefinition pairs a registerable tool with the metadata the filters
// read.
type ToolDefinition struct {
	category   toolCategory
	definition server.ServerTool
	readonly   bool
}

func def(category toolCategory, spec mcp.Tool, handler server.ToolHandlerFunc, readonly bool) ToolDefinition {
	return ToolDefinition{
		category:   category,
		definition: server.ServerTool{Tool: spec, Handler: handler},
		readonly:   readonly,
	}
}

func (s *ClaimsMCPServer) getEnabledTools() []server.ServerTool {
	filters := make([]toolFilter, 0)
	if s.config != nil && s.config.ReadOnly {
		filters = append(filters, filterWriteTools)
	}

	deps := &tools.ToolDependencies{
		DBService:        s.dbService,
		AnalyticsService: s.anService,
		Engine:           s.claimsEngine,
	}
	toolDefs := s.getAllToolsDefs(deps)
	for _, filter := range filters {
		toolDefs = filter(toolDefs)
	}

	enabledTools := make([]server.ServerTool, 0, len(toolDefs))
	for _, toolDef := range toolDefs {
		enabledTools = append(enabledTools, toolDef.definition)
	}
	return enabledTools
}

func filterWriteTools(tools []ToolDefinition) []ToolDefinition {
	readOnlyTools := make([]ToolDefinition, 0, len(tools))
	for _, t := range tools {
		if t.readonly {
			readOnlyTools = append(readOnlyTools, t)
		}
	}
	return readOnlyTools
}

// getAllToolsDefs lists the static tools plus the YAML guidance tools.
func (s *ClaimsMCPServer) getAllToolsDefs(deps *tools.ToolDependencies) []ToolDefinition {
	toolDefs := []ToolDefinition{
		// Claim lifecycle
		def(claimsCategory, ingest.Spec(), ingest.Handler(deps), false),
		def(claimsCategory, check.Spec(), check.Handler(deps), true),
		def(claimsCategory, neighborhood.Spec(), neighborhood.Handler(deps), true),

		// Fraud analysis
		def(fraudCategory, pattern_sweep.Spec(), pattern_sweep.Handler(deps), true),
		def(fraudCategory, referral.GetReferralGuidanceSpec(), referral.GetReferralGuidanceHandler(deps), true),

		// Schema
		def(schemaCategory, schema.GetSchemaSpec(), schema.GetSchemaHandler(deps, s.config.SchemaSampleSize), true),
		def(schemaCategory, schema.EnrichSchemaSpec(), schema.EnrichSchemaHandler(deps, s.config.SchemaSampleSize), true),
		def(schemaCategory, models.GetReferenceModelsSpec(), models.GetReferenceModelsHandler(deps), true),

		// Data retrieval
		def(dataCategory, claimant_profile.Spec(), claimant_profile.Handler(deps), true),
		def(dataCategory, graph_stats.Spec(), graph_stats.Handler(deps), true),

		// Raw Cypher
		def(cypherCategory, read.ReadCypherSpec(), read.ReadCypherHandler(deps), true),
		def(cypherCategory, write.WriteCypherSpec(), write.WriteCypherHandler(deps), false),
	}

	return append(toolDefs, s.loadDynamicTools(deps)...)
}

// loadDynamicTools loads the YAML guidance tools under tools/config. A
// load failure costs only the guidance tools, never the server.
func (s *ClaimsMCPServer) loadDynamicTools(deps *tools.ToolDependencies) []ToolDefinition {
	registry := dynamic.NewToolRegistry("tools/config")
	if err := registry.LoadTools(); err != nil {
		slog.Error("failed to load guidance tools", "error", err)
		return nil
	}
	if registry.GetToolCount() == 0 {
		slog.Info("no guidance tools found in config directory")
		return nil
	}
	slog.Info("loaded guidance tools",
		"count", registry.GetToolCount(),
		"categories", registry.Categories())

	toolDefs := make([]ToolDefinition, 0, registry.GetToolCount())
	for _, serverTool := range registry.GetServerTools(deps) {
		toolDefs = append(toolDefs, ToolDefinition{
			category:   dynamicCategory,
			definition: serverTool,
			readonly:   true,
		})
	}
	return toolDefs
}

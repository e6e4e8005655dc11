package dynamic

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
)

// NewDynamicHandler returns the handler for one guidance tool. The handler
// takes no arguments: it emits the rendered playbook for the agent to act
// on with the Cypher tools.
func NewDynamicHandler(config *ToolConfig, deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if deps.AnalyticsService != nil {
			deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent(config.Name))
		}

		slog.Info("guidance tool called", "tool", config.Name, "category", config.Category)
		return mcp.NewToolResultText(renderGuidance(config)), nil
	}
}

// renderGuidance assembles the full playbook: description, intent, the
// patterns to look for, the reference query with its schema vocabulary,
// and the query parameters.
func renderGuidance(config *ToolConfig) string {
	var sb strings.Builder
	sb.WriteString(config.Description)

	if config.Intent != "" {
		sb.WriteString("\n\n## Intent\n")
		sb.WriteString(config.Intent)
	}
	writePatterns(&sb, config.ExpectedPatterns)
	if config.ReferenceCypher != "" {
		sb.WriteString("\n\n## Reference Cypher\n```cypher\n")
		sb.WriteString(config.ReferenceCypher)
		sb.WriteString("\n```\n")
	}
	if schema := config.ReferenceSchema; schema != nil {
		sb.WriteString("\n\n## Reference Schema\n")
		if len(schema.Labels) > 0 {
			fmt.Fprintf(&sb, "- Labels: %v\n", schema.Labels)
		}
		if len(schema.Relationships) > 0 {
			fmt.Fprintf(&sb, "- Relationships: %v\n", schema.Relationships)
		}
	}
	writeParameters(&sb, config.Parameters)

	return sb.String()
}

func writePatterns(sb *strings.Builder, patterns []PatternConfig) {
	if len(patterns) == 0 {
		return
	}
	sb.WriteString("\n\n## Expected Patterns\n")
	for _, p := range patterns {
		fmt.Fprintf(sb, "- **%s**: %s\n", p.Entity, p.Anomaly)
		if len(p.SharedElements) > 0 {
			fmt.Fprintf(sb, "  Shared elements: %v\n", p.SharedElements)
		}
	}
}

func writeParameters(sb *strings.Builder, params []ParameterConfig) {
	if len(params) == 0 {
		return
	}
	sb.WriteString("\n\n## Parameters\n")
	for _, p := range params {
		fmt.Fprintf(sb, "- `$%s` (%s)", p.Name, p.Type)
		if p.Required {
			sb.WriteString(" required")
		}
		if p.Default != nil {
			fmt.Fprintf(sb, " [default: %v]", p.Default)
		}
		if p.Description != "" {
			fmt.Fprintf(sb, ": %s", p.Description)
		}
		sb.WriteString("\n")
	}
}

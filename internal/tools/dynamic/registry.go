package dynamic

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
)

// ToolRegistry loads guidance tool definitions and turns them into MCP
// server tools.
type ToolRegistry struct {
	configDir string
	configs   []*ToolConfig
}

func NewToolRegistry(configDir string) *ToolRegistry {
	return &ToolRegistry{configDir: configDir}
}

// LoadTools reads every definition under the registry's config directory.
func (r *ToolRegistry) LoadTools() error {
	configs, err := WalkConfigDirectory(r.configDir)
	if err != nil {
		return fmt.Errorf("loading guidance tools: %w", err)
	}
	r.configs = configs
	return nil
}

// GetToolCount reports how many definitions are loaded.
func (r *ToolRegistry) GetToolCount() int {
	return len(r.configs)
}

// Categories lists the distinct categories of the loaded tools, sorted.
func (r *ToolRegistry) Categories() []string {
	seen := map[string]bool{}
	for _, config := range r.configs {
		seen[config.Category] = true
	}
	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// GetServerTools renders every loaded definition as a registerable MCP
// tool. Guidance tools are read-only and idempotent: the handler returns
// the playbook text and never touches the database.
func (r *ToolRegistry) GetServerTools(deps *tools.ToolDependencies) []server.ServerTool {
	serverTools := make([]server.ServerTool, 0, len(r.configs))
	for _, config := range r.configs {
		tool := mcp.NewTool(config.Name,
			mcp.WithDescription(renderGuidance(config)),
			mcp.WithTitleAnnotation(config.Name),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
			mcp.WithOpenWorldHintAnnotation(true),
		)
		serverTools = append(serverTools, server.ServerTool{
			Tool:    tool,
			Handler: NewDynamicHandler(config, deps),
		})
		slog.Debug("built guidance tool", "name", config.Name, "category", config.Category)
	}
	return serverTools
}

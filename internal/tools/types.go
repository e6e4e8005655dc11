package tools

import (
	"github.com/claimsight/neo4j-mcp-claims/internal/analytics"
	"github.com/claimsight/neo4j-mcp-claims/internal/database"
	"github.com/claimsight/neo4j-mcp-claims/internal/engine"
)

// ToolDependencies is handed to every tool handler: database access,
// analytics, and the fraud scoring engine.
type ToolDependencies struct {
	DBService        database.Service
	AnalyticsService analytics.Service
	Engine           *engine.Engine
}

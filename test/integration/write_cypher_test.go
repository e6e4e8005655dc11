//go:build integration

package integration

import (
	"testing"

	"github.com/claimsight/neo4j-mcp-claims/internal/tools/cypher/write"
	"github.com/claimsight/neo4j-mcp-claims/test/integration/helpers"
)

func TestWriteCypher(t *testing.T) {
	t.Parallel()
	tc := helpers.NewTestContext(t, dbs.GetDriver())

	agentLabel := tc.GetUniqueLabel("Agent")
	handler := write.WriteCypherHandler(tc.Deps)

	tc.CallTool(handler, map[string]any{
		"query":  "CREATE (a:" + agentLabel + " {agentId: $agentId, region: $region}) RETURN a",
		"params": map[string]any{"agentId": "AGENT-3302", "region": "midwest"},
	})
	tc.VerifyNodeInDB(agentLabel, map[string]any{"agentId": "AGENT-3302", "region": "midwest"})

	// Updates go through the same tool.
	tc.CallTool(handler, map[string]any{
		"query":  "MATCH (a:" + agentLabel + " {agentId: $agentId}) SET a.region = $region RETURN a",
		"params": map[string]any{"agentId": "AGENT-3302", "region": "southwest"},
	})
	tc.VerifyNodeInDB(agentLabel, map[string]any{"agentId": "AGENT-3302", "region": "southwest"})
}

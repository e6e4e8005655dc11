package referral_test

import (
	"context"
	"strings"
	"testing"

	analytics "github.com/claimsight/neo4j-mcp-claims/internal/analytics/mocks"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/fraud/referral"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/mock/gomock"
)

func TestGetReferralGuidanceHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	analyticsService := analytics.NewMockService(ctrl)
	analyticsService.EXPECT().NewToolsEvent(gomock.Any()).AnyTimes()
	analyticsService.EXPECT().EmitEvent(gomock.Any()).AnyTimes()

	t.Run("successfully returns referral guidance", func(t *testing.T) {
		deps := &tools.ToolDependencies{
			AnalyticsService: analyticsService,
		}

		handler := referral.GetReferralGuidanceHandler(deps)
		result, err := handler(context.Background(), mcp.CallToolRequest{})

		if err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}
		if result == nil || result.IsError {
			t.Error("Expected success result")
		}

		textContent := result.Content[0].(mcp.TextContent)
		content := textContent.Text

		requiredSections := []string{
			"INSURANCE FRAUD SIU REFERRAL GUIDANCE",
			"REGULATORY OVERVIEW",
			"Reporting Obligations",
			"Referral Thresholds",
			"Filing Deadlines",
			"REQUIRED REFERRAL COMPONENTS",
			"Part I: Claimant Information",
			"Part II: Suspicious Claim Information",
			"Part III: Insurer Information",
			"Part IV: Referral Narrative",
			"NEO4J EVIDENCE GATHERING QUERIES",
			"SUPPORTING DOCUMENTATION REQUIREMENTS",
			"COMPLIANCE BEST PRACTICES",
			"COMMON FRAUD TYPOLOGIES IN CLAIMS INVESTIGATION",
		}

		for _, section := range requiredSections {
			if !strings.Contains(content, section) {
				t.Errorf("Expected content to contain section: %s", section)
			}
		}
	})

	t.Run("contains Neo4j query examples", func(t *testing.T) {
		deps := &tools.ToolDependencies{
			AnalyticsService: analyticsService,
		}

		handler := referral.GetReferralGuidanceHandler(deps)
		result, err := handler(context.Background(), mcp.CallToolRequest{})

		if err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}

		textContent := result.Content[0].(mcp.TextContent)
		content := textContent.Text

		queryTypes := []string{
			"Claimant Profile and Identity Information",
			"Claim History and Patterns",
			"Shared Identity Detection",
			"Network Analysis",
			"Velocity and Volume Analysis",
			"Asset Recycling",
		}

		for _, queryType := range queryTypes {
			if !strings.Contains(content, queryType) {
				t.Errorf("Expected content to contain query type: %s", queryType)
			}
		}

		if !strings.Contains(content, "MATCH (p:Person") {
			t.Error("Expected content to contain Cypher MATCH statements")
		}
		if !strings.Contains(content, "personKey") {
			t.Error("Expected content to contain personKey parameter references")
		}
		if !strings.Contains(content, ":FILED") {
			t.Error("Expected content to contain FILED relationship references")
		}
	})

	t.Run("contains regulatory details", func(t *testing.T) {
		deps := &tools.ToolDependencies{
			AnalyticsService: analyticsService,
		}

		handler := referral.GetReferralGuidanceHandler(deps)
		result, err := handler(context.Background(), mcp.CallToolRequest{})

		if err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}

		textContent := result.Content[0].(mcp.TextContent)
		content := textContent.Text

		regulatoryDetails := []string{
			"NAIC",
			"NICB",
			"$5,000",
			"$50,000",
			"30 calendar days",
			"60 calendar days",
			"Identity farming",
			"Asset recycling",
			"Double dipping",
		}

		for _, detail := range regulatoryDetails {
			if !strings.Contains(content, detail) {
				t.Errorf("Expected content to contain regulatory detail: %s", detail)
			}
		}
	})

	t.Run("contains best practices", func(t *testing.T) {
		deps := &tools.ToolDependencies{
			AnalyticsService: analyticsService,
		}

		handler := referral.GetReferralGuidanceHandler(deps)
		result, err := handler(context.Background(), mcp.CallToolRequest{})

		if err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}

		textContent := result.Content[0].(mcp.TextContent)
		content := textContent.Text

		if !strings.Contains(content, "DO:") {
			t.Error("Expected content to contain DO best practices")
		}
		if !strings.Contains(content, "DON'T:") {
			t.Error("Expected content to contain DON'T best practices")
		}
		if !strings.Contains(content, "Confidentiality Requirements") {
			t.Error("Expected content to contain confidentiality requirements")
		}
		if !strings.Contains(content, "STRICTLY CONFIDENTIAL") {
			t.Error("Expected content to emphasize confidentiality")
		}
	})

	t.Run("nil analytics service", func(t *testing.T) {
		deps := &tools.ToolDependencies{
			AnalyticsService: nil,
		}

		handler := referral.GetReferralGuidanceHandler(deps)
		result, err := handler(context.Background(), mcp.CallToolRequest{})

		if err != nil {
			t.Errorf("Expected no error from handler, got: %v", err)
		}
		if result == nil || !result.IsError {
			t.Error("Expected error result for nil analytics service")
		}
	})
}

func TestGetReferralGuidanceSpec(t *testing.T) {
	spec := referral.GetReferralGuidanceSpec()

	if spec.Name != "get-referral-guidance" {
		t.Errorf("Expected tool name 'get-referral-guidance', got: %s", spec.Name)
	}

	if spec.Description == "" {
		t.Error("Expected non-empty description")
	}

	descriptionPhrases := []string{
		"SIU",
		"referral",
		"Neo4j",
		"claims graph",
	}

	for _, phrase := range descriptionPhrases {
		if !strings.Contains(spec.Description, phrase) {
			t.Errorf("Expected description to contain phrase: %s", phrase)
		}
	}
}

func TestGetReferralGuidanceHandler_ContentStructure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	analyticsService := analytics.NewMockService(ctrl)
	analyticsService.EXPECT().NewToolsEvent(gomock.Any()).AnyTimes()
	analyticsService.EXPECT().EmitEvent(gomock.Any()).AnyTimes()

	deps := &tools.ToolDependencies{
		AnalyticsService: analyticsService,
	}

	handler := referral.GetReferralGuidanceHandler(deps)
	result, err := handler(context.Background(), mcp.CallToolRequest{})

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}

	textContent := result.Content[0].(mcp.TextContent)
	content := textContent.Text

	if !strings.HasPrefix(content, "# INSURANCE FRAUD SIU REFERRAL GUIDANCE") {
		t.Error("Expected content to start with main heading")
	}

	majorSections := strings.Count(content, "\n## ")
	if majorSections < 5 {
		t.Errorf("Expected at least 5 major sections, got: %d", majorSections)
	}

	if !strings.Contains(content, "MATCH (p:Person") {
		t.Error("Expected content to contain Cypher query examples")
	}
}

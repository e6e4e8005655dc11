package referral

import "github.com/mark3labs/mcp-go/mcp"

// GetReferralGuidanceSpec returns the tool specification for get-referral-guidance
func GetReferralGuidanceSpec() mcp.Tool {
	return mcp.NewTool("get-referral-guidance",
		mcp.WithDescription(`
		Fetches comprehensive guidance on creating SIU (Special Investigations Unit) referrals for suspicious insurance claims.

		Returns structured guidance including:
		- Reporting obligations under state fraud statutes and the NAIC model act
		- Referral thresholds and filing deadlines
		- Key components of a complete SIU referral
		- Neo4j Cypher query patterns for gathering evidence from the claims graph
		- Supporting documentation requirements
		- Best practices for referral narrative construction

		This tool provides reference documentation that can be used to:
		- Understand what information an SIU referral requires
		- Learn the regulatory thresholds and deadlines for fraud reporting
		- Discover how to query the claims graph to gather supporting evidence
		- Keep referrals confidential and compliant

		Use this tool when you need guidance on:
		- How to structure and create an SIU referral
		- What data points are required before referring a claim
		- Which Neo4j queries to run to gather referral evidence
		- Regulatory requirements and timelines for fraud reporting
		- Building referral narratives based on detected fraud patterns`),
		mcp.WithTitleAnnotation("Get SIU Referral Guidance"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

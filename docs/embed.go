package docs

import (
	_ "embed"
)

// ReferralGuidancePrompt embeds the SIU referral guidance document served
// by the get-referral-guidance tool: how to assemble a referral for a
// suspicious claim and which graph queries gather the evidence
//
//go:embed prompts/referral_guidance.md
var ReferralGuidancePrompt string

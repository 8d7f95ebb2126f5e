package tools

import (
	"context"
	"fmt"

	"github.com/agentic-insurtech/insurtech/internal/activity"
	"github.com/agentic-insurtech/insurtech/internal/claims"
	"github.com/agentic-insurtech/insurtech/internal/document"
	"github.com/agentic-insurtech/insurtech/internal/policy"
)

// DocumentAnalysisTool classifies document text and extracts its fields
func DocumentAnalysisTool() Tool {
	return Tool{
		Name:        "document_analysis_tool",
		Description: "Analyze the text of an insurance document: identify whether it is a policy, claim, invoice or receipt, extract policy/claim numbers, dates, amounts, names and contact details, list its 'Key: Value' fields and summarize it.",
		Agent:       activity.AgentClaims,
		InputSchema: objectSchema([]string{"document_text"}, map[string]interface{}{
			"document_text": prop("string", "Full text of the document"),
		}),
		Execute: func(_ context.Context, input map[string]interface{}) (string, error) {
			text, err := stringArg(input, "document_text")
			if err != nil {
				return "", err
			}
			if text == "" {
				return "", errMissing("document_text")
			}
			return marshal(document.Analyze(text))
		},
	}
}

type claimEstimate struct {
	PolicyNumber string `json:"policy_number,omitempty"`
	claims.Estimate
}

// ClaimAmountTool estimates the payout of a claim for a list of damaged or
// stolen items, bounded by the policy's coverage and deductible
func ClaimAmountTool(svc *policy.Service) Tool {
	return Tool{
		Name:        "claim_amount_tool",
		Description: "Estimate the payout for a claim: prices each claimed item, adds the base claim amount, caps the total at the policy's coverage amount and subtracts its deductible. Without a policy number a $50,000 coverage and $500 deductible are assumed.",
		Agent:       activity.AgentClaims,
		InputSchema: objectSchema([]string{"items"}, map[string]interface{}{
			"items": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Claimed items, e.g. [\"laptop\", \"55 inch TV\"]",
			},
			"policy_number": prop("string", "Policy the claim is filed under"),
		}),
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			var items []string
			if err := decodeArg(input, "items", &items, true); err != nil {
				return "", err
			}
			number, err := stringArg(input, "policy_number")
			if err != nil {
				return "", err
			}

			terms := claims.DefaultTerms
			if number != "" {
				res, err := svc.Lookup(ctx, policy.Query{PolicyNumber: number})
				if err != nil {
					return "", err
				}
				if !res.Found || res.Policy == nil {
					return "", fmt.Errorf("policy %s not found", number)
				}
				terms = claims.TermsFor(*res.Policy)
			}
			return marshal(claimEstimate{PolicyNumber: number, Estimate: claims.Calculate(items, terms)})
		},
	}
}

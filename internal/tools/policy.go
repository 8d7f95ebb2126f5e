package tools

import (
	"context"
	"strings"

	"github.com/agentic-insurtech/insurtech/internal/activity"
	"github.com/agentic-insurtech/insurtech/internal/policy"
)

// summaryPrefix on policy_number asks the lookup tool for a coverage summary.
const summaryPrefix = "summary:"

// PolicyLookupTool finds policies by number, holder name or holder email
func PolicyLookupTool(svc *policy.Service) Tool {
	return Tool{
		Name:        "policy_lookup_tool",
		Description: "Look up an insurance policy by exact policy number, by policyholder name (partial, case-insensitive) or by policyholder email. Prefix the policy number with 'summary:' to get the coverage summary instead.",
		Agent:       activity.AgentCustomer,
		InputSchema: objectSchema(nil, map[string]interface{}{
			"policy_number":      prop("string", "Policy number, e.g. POL-20250101-1234"),
			"policyholder_name":  prop("string", "Full or partial policyholder name"),
			"policyholder_email": prop("string", "Policyholder email address"),
		}),
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			number, err := stringArg(input, "policy_number")
			if err != nil {
				return "", err
			}
			name, err := stringArg(input, "policyholder_name")
			if err != nil {
				return "", err
			}
			email, err := stringArg(input, "policyholder_email")
			if err != nil {
				return "", err
			}
			if rest, ok := cutPrefixFold(number, summaryPrefix); ok {
				sum, err := svc.CoverageSummary(ctx, rest)
				if err != nil {
					return "", err
				}
				return marshal(sum)
			}

			res, err := svc.Lookup(ctx, policy.Query{
				PolicyNumber:      number,
				PolicyholderName:  name,
				PolicyholderEmail: email,
			})
			if err != nil {
				return "", err
			}
			return marshal(res)
		},
	}
}

// CoverageSummaryTool reports what a policy covers and for how long
func CoverageSummaryTool(svc *policy.Service) Tool {
	return Tool{
		Name:        "coverage_summary_tool",
		Description: "Summarize a policy's coverage: total coverage, premium, days remaining, per-peril breakdown and deductible.",
		Agent:       activity.AgentCustomer,
		InputSchema: objectSchema([]string{"policy_number"}, map[string]interface{}{
			"policy_number": prop("string", "Policy number, e.g. POL-20250101-1234"),
		}),
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			number, err := stringArg(input, "policy_number")
			if err != nil {
				return "", err
			}
			if number == "" {
				return "", errMissing("policy_number")
			}
			sum, err := svc.CoverageSummary(ctx, number)
			if err != nil {
				return "", err
			}
			return marshal(sum)
		},
	}
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return strings.TrimSpace(s[len(prefix):]), true
}

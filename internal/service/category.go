package service

import "strings"

// QueryCategory classifies a customer query.
type QueryCategory string

const (
	CategoryPolicyInfo       QueryCategory = "policy_info"
	CategoryClaimStatus      QueryCategory = "claim_status"
	CategoryBilling          QueryCategory = "billing"
	CategoryTechnicalSupport QueryCategory = "technical_support"
	CategoryCoverageQuestion QueryCategory = "coverage_question"
	CategoryComplaint        QueryCategory = "complaint"
	CategoryGeneralInquiry   QueryCategory = "general_inquiry"
)

// categoryKeywords is ordered; earlier categories win ties.
var categoryKeywords = []struct {
	category QueryCategory
	keywords []string
}{
	{CategoryPolicyInfo, []string{"policy", "coverage", "covered", "insured", "premium", "deductible"}},
	{CategoryClaimStatus, []string{"claim", "status", "payment", "reimbursement", "approved", "denied", "process"}},
	{CategoryBilling, []string{"bill", "payment", "pay", "invoice", "charge", "fee", "cost", "price", "expensive"}},
	{CategoryTechnicalSupport, []string{"website", "app", "login", "password", "reset", "account", "access", "error"}},
	{CategoryCoverageQuestion, []string{"cover", "covered", "include", "protect", "damage", "loss", "theft", "accident"}},
	{CategoryComplaint, []string{"unhappy", "dissatisfied", "disappointed", "problem", "issue", "wrong", "mistake", "error", "complaint"}},
}

// Categorize returns the category whose keywords occur most often in query,
// or general_inquiry when none occur. Keywords match as substrings.
func Categorize(query string) QueryCategory {
	lower := strings.ToLower(query)
	best, bestScore := CategoryGeneralInquiry, 0
	for _, c := range categoryKeywords {
		if score := countKeywords(lower, c.keywords); score > bestScore {
			best, bestScore = c.category, score
		}
	}
	return best
}

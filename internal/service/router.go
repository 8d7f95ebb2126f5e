package service

import (
	"strings"

	"github.com/agentic-insurtech/insurtech/internal/activity"
)

var underwritingKeywords = []string{
	"risk", "assess", "underwrit", "quote", "new policy", "premium for",
	"how much would", "insure my", "items", "electronics", "jewelry",
	"furniture", "appliances", "instrument", "flood zone", "high crime",
	"urban", "rural", "suburban", "location",
}

var claimsKeywords = []string{
	"claim", "file", "damage", "damaged", "stolen", "theft", "broke",
	"accident", "incident", "loss", "fire", "flooded", "burglary",
	"police report", "reimburse", "adjuster", "fraud",
}

var customerKeywords = []string{
	"my policy", "policy number", "coverage", "covered", "expire", "renew",
	"deductible", "bill", "payment", "invoice", "account", "login",
	"password", "complaint", "unhappy", "help", "contact", "email",
	"human", "representative", "cancel",
}

// RoutingResult contains agent routing info
type RoutingResult struct {
	Agent        activity.AgentType `json:"agent"`
	Confidence   float64            `json:"confidence"`
	Underwriting int                `json:"underwriting_score"`
	Claims       int                `json:"claims_score"`
	Customer     int                `json:"customer_score"`
	Reasoning    string             `json:"reasoning"`
}

// IntentRouter routes natural language prompts to the agent that owns the
// matching tools
type IntentRouter struct{}

func NewIntentRouter() *IntentRouter {
	return &IntentRouter{}
}

// Route analyses the prompt and returns the best matching agent. Ties go to
// the customer agent, then claims.
func (r *IntentRouter) Route(prompt string) RoutingResult {
	lower := strings.ToLower(prompt)

	uw := countKeywords(lower, underwritingKeywords)
	cl := countKeywords(lower, claimsKeywords)
	cu := countKeywords(lower, customerKeywords)

	res := RoutingResult{Underwriting: uw, Claims: cl, Customer: cu}
	total := uw + cl + cu
	if total == 0 {
		res.Agent = activity.AgentCustomer
		res.Confidence = 0.5
		res.Reasoning = "no strong keywords, defaulting to the customer assistant"
		return res
	}

	switch {
	case uw > cl && uw > cu:
		res.Agent = activity.AgentUnderwriting
		res.Confidence = float64(uw) / float64(total)
		res.Reasoning = "prompt asks for a risk assessment or quote"
	case cl > cu:
		res.Agent = activity.AgentClaims
		res.Confidence = float64(cl) / float64(total)
		res.Reasoning = "prompt describes a loss or an existing claim"
	default:
		res.Agent = activity.AgentCustomer
		res.Confidence = float64(cu) / float64(total)
		res.Reasoning = "prompt asks about an existing policy or account"
	}
	return res
}

func countKeywords(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

package security

import (
	"regexp"
	"strings"
)

var (
	policyNumberRe = regexp.MustCompile(`(?i)\bPOL-\d{8}-\d{4}\b`)
	claimIDRe      = regexp.MustCompile(`(?i)\bCLM-[\w\-]+`)
	escalationIDRe = regexp.MustCompile(`(?i)\bESC-\d{8}-\d{4}\b`)
	emailAddrRe    = regexp.MustCompile(`[\w.\-+]+@[\w\-]+(?:\.[\w\-]+)+`)
)

// Identifiers are the record references found in a free-text prompt.
type Identifiers struct {
	PolicyNumbers []string `json:"policy_numbers,omitempty"`
	ClaimIDs      []string `json:"claim_ids,omitempty"`
	EscalationIDs []string `json:"escalation_ids,omitempty"`
	Emails        []string `json:"emails,omitempty"`
}

// Empty reports whether no identifier was found.
func (i Identifiers) Empty() bool {
	return len(i.PolicyNumbers) == 0 && len(i.ClaimIDs) == 0 &&
		len(i.EscalationIDs) == 0 && len(i.Emails) == 0
}

// ExtractIdentifiers pulls policy numbers, claim and escalation IDs, and email
// addresses out of prompt. Policy, claim and escalation IDs are upper-cased;
// duplicates are dropped.
func ExtractIdentifiers(prompt string) Identifiers {
	return Identifiers{
		PolicyNumbers: findAll(policyNumberRe, prompt, strings.ToUpper),
		ClaimIDs:      findAll(claimIDRe, prompt, strings.ToUpper),
		EscalationIDs: findAll(escalationIDRe, prompt, strings.ToUpper),
		Emails:        findAll(emailAddrRe, prompt, strings.ToLower),
	}
}

func findAll(re *regexp.Regexp, s string, norm func(string) string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range re.FindAllString(s, -1) {
		m = norm(m)
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

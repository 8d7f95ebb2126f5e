package security

import (
	"fmt"
	"regexp"
	"strings"
)

const MaxPromptLength = 2000

// dangerousPatterns catches prompt injection and attempts to smuggle commands
// or code through the assistant
var dangerousPatterns = []*regexp.Regexp{
	// Command execution
	regexp.MustCompile(`(?i)\brm\s+-`),
	regexp.MustCompile(`(?i)\brm\s+/`),
	regexp.MustCompile(`(?i)\bcurl\s+`),
	regexp.MustCompile(`(?i)\bwget\s+`),
	regexp.MustCompile(`(?i)\bbash\s+-`),
	regexp.MustCompile(`(?i)\bsudo\s+`),

	// Path traversal
	regexp.MustCompile(`\.\.\/`),
	regexp.MustCompile(`/etc/passwd`),
	regexp.MustCompile(`/etc/shadow`),
	regexp.MustCompile(`\.ssh/`),

	// Code execution
	regexp.MustCompile(`(?i)eval\s*\(`),
	regexp.MustCompile(`(?i)exec\s*\(`),
	regexp.MustCompile(`(?i)system\s*\(`),
	regexp.MustCompile(`(?i)os\.system`),
	regexp.MustCompile(`(?i)<script\b`),

	// SQL smuggled into a lookup
	regexp.MustCompile(`(?i);\s*(drop|delete|truncate|update)\s+`),
	regexp.MustCompile(`(?i)\bunion\s+select\b`),

	// Prompt injection
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?previous\s+instructions`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?previous\s+instructions`),
	regexp.MustCompile(`(?i)forget\s+(all\s+)?previous\s+instructions`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+`),
	regexp.MustCompile(`(?i)reveal\s+(your\s+)?system\s+prompt`),
	regexp.MustCompile(`(?i)new\s+context\s*:`),
}

// insuranceKeywords: a prompt must mention at least one of these
var insuranceKeywords = []string{
	"policy", "policies", "insur", "coverage", "cover", "premium", "deductible",
	"claim", "damage", "theft", "stolen", "accident", "fire", "flood", "water",
	"risk", "underwrit", "quote", "item", "electronics", "jewelry",
	"artwork", "furniture", "appliance", "instrument", "sports",
	"bill", "payment", "pay", "refund", "invoice", "renew", "cancel", "expire",
	"account", "login", "password reset", "complaint", "agent", "help",
}

// PromptValidator validates assistant prompts for injection and relevance
type PromptValidator struct{}

func NewPromptValidator() *PromptValidator {
	return &PromptValidator{}
}

// ValidationResult contains validation outcome
type ValidationResult struct {
	Valid   bool
	Message string
}

// Validate checks a prompt for dangerous patterns and that it concerns
// insurance at all
func (v *PromptValidator) Validate(prompt string) ValidationResult {
	if len(prompt) > MaxPromptLength {
		return ValidationResult{
			Valid:   false,
			Message: fmt.Sprintf("prompt too long: %d chars (max %d)", len(prompt), MaxPromptLength),
		}
	}

	if strings.TrimSpace(prompt) == "" {
		return ValidationResult{Valid: false, Message: "prompt cannot be empty"}
	}

	for _, pattern := range dangerousPatterns {
		if pattern.MatchString(prompt) {
			return ValidationResult{
				Valid:   false,
				Message: fmt.Sprintf("dangerous pattern detected: %s", pattern.String()),
			}
		}
	}

	lower := strings.ToLower(prompt)
	for _, kw := range insuranceKeywords {
		if strings.Contains(lower, kw) {
			return ValidationResult{Valid: true, Message: "ok"}
		}
	}
	if ids := ExtractIdentifiers(prompt); !ids.Empty() {
		return ValidationResult{Valid: true, Message: "ok"}
	}
	return ValidationResult{
		Valid:   false,
		Message: "prompt must relate to a policy, claim, coverage or risk assessment",
	}
}

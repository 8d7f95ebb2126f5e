package claims_test

import (
	"testing"

	"github.com/agentic-insurtech/insurtech/internal/claims"
	"github.com/agentic-insurtech/insurtech/internal/policy"
)

func TestItemValue(t *testing.T) {
	tests := []struct {
		item string
		want float64
	}{
		{"55\" Samsung TV", 500},
		{"Television", 500},
		{"MacBook laptop", 1000},
		{"smartphone", 800},
		{"Grandma's jewelry box", 2000},
		{"patio furniture", 1500},
		{"kitchen appliance", 1200},
		{"bicycle", 500},
	}
	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			if got := claims.ItemValue(tt.item); got != tt.want {
				t.Errorf("ItemValue(%q) = %v, want %v", tt.item, got, tt.want)
			}
		})
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name   string
		items  []string
		terms  claims.Terms
		want   float64
		capped bool
	}{
		{"defaults", []string{"laptop", "tv"}, claims.DefaultTerms, 2000, false},
		{"no items", nil, claims.DefaultTerms, 500, false},
		{"capped at coverage", []string{"jewelry", "jewelry", "jewelry"}, claims.Terms{CoverageAmount: 5000, Deductible: 1000}, 4000, true},
		{"deductible exceeds claim", []string{"phone"}, claims.Terms{CoverageAmount: 50000, Deductible: 5000}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := claims.Calculate(tt.items, tt.terms)
			if got.ClaimAmount != tt.want || got.CappedAtCoverage != tt.capped {
				t.Errorf("Calculate = %+v, want claim %v capped %v", got, tt.want, tt.capped)
			}
			if len(got.Items) != len(tt.items) {
				t.Errorf("priced %d items, want %d", len(got.Items), len(tt.items))
			}
		})
	}
}

func TestTermsFor(t *testing.T) {
	policies := policy.SamplePolicies()
	for _, p := range policies {
		terms := claims.TermsFor(p)
		if terms.CoverageAmount != p.CoverageAmount {
			t.Errorf("%s coverage = %v", p.PolicyNumber, terms.CoverageAmount)
		}
		if d, ok := p.CoverageDetails["deductible"]; ok && terms.Deductible != d {
			t.Errorf("%s deductible = %v, want %v", p.PolicyNumber, terms.Deductible, d)
		}
	}

	if got := claims.TermsFor(policy.Policy{CoverageAmount: 1000}); got.Deductible != claims.DefaultTerms.Deductible {
		t.Errorf("missing deductible should default, got %v", got.Deductible)
	}
}

// Package claims estimates what a claim pays out under a policy's limits.
package claims

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agentic-insurtech/insurtech/internal/policy"
)

// BaseAmount is added to every claim on top of the item values.
const BaseAmount = 1000

// DefaultTerms apply when no policy is given.
var DefaultTerms = Terms{CoverageAmount: 50000, Deductible: 500}

// Terms are the policy limits a payout is bounded by.
type Terms struct {
	CoverageAmount float64 `json:"coverage_amount"`
	Deductible     float64 `json:"deductible"`
}

// TermsFor reads the coverage amount and deductible of p, using the default
// deductible when the policy lists none.
func TermsFor(p policy.Policy) Terms {
	t := Terms{CoverageAmount: p.CoverageAmount, Deductible: DefaultTerms.Deductible}
	if d, ok := p.CoverageDetails["deductible"]; ok {
		t.Deductible = d
	}
	return t
}

// valueRules are checked in order; the first keyword found prices the item.
var valueRules = []struct {
	keywords []string
	value    float64
}{
	{[]string{"tv", "television"}, 500},
	{[]string{"computer", "laptop"}, 1000},
	{[]string{"phone", "smartphone"}, 800},
	{[]string{"jewelry"}, 2000},
	{[]string{"furniture"}, 1500},
	{[]string{"appliance"}, 1200},
}

const defaultItemValue = 500

// ItemValue estimates the replacement value of a claimed item by name.
func ItemValue(item string) float64 {
	name := strings.ToLower(item)
	for _, r := range valueRules {
		for _, k := range r.keywords {
			if strings.Contains(name, k) {
				return r.value
			}
		}
	}
	return defaultItemValue
}

// PricedItem is one claimed item with its estimated value.
type PricedItem struct {
	Item  string  `json:"item"`
	Value float64 `json:"value"`
}

// Estimate is the payout breakdown for a claim.
type Estimate struct {
	Items      []PricedItem `json:"items"`
	ItemsValue float64      `json:"items_value"`
	BaseAmount float64      `json:"base_amount"`
	Terms
	CappedAtCoverage bool    `json:"capped_at_coverage"`
	ClaimAmount      float64 `json:"claim_amount"`
}

// Calculate prices every item, adds the base amount, caps the total at the
// coverage amount and subtracts the deductible. The payout never goes below
// zero.
func Calculate(items []string, terms Terms) Estimate {
	e := Estimate{Items: make([]PricedItem, 0, len(items)), BaseAmount: BaseAmount, Terms: terms}

	total := decimal.Zero
	for _, item := range items {
		v := ItemValue(item)
		e.Items = append(e.Items, PricedItem{Item: item, Value: v})
		total = total.Add(decimal.NewFromFloat(v))
	}
	e.ItemsValue = total.InexactFloat64()

	claim := total.Add(decimal.NewFromInt(BaseAmount))
	if limit := decimal.NewFromFloat(terms.CoverageAmount); claim.GreaterThan(limit) {
		claim = limit
		e.CappedAtCoverage = true
	}
	claim = claim.Sub(decimal.NewFromFloat(terms.Deductible))
	if claim.IsNegative() {
		claim = decimal.Zero
	}
	e.ClaimAmount = claim.Round(2).InexactFloat64()
	return e
}

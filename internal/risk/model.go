// Package risk scores property insurance risk from the categories of insured
// items and the risk attributes of their location.
//
// Scoring is a fixed-weight linear model over static lookup tables:
//
//	item_risk     = Σ(factor(category) × count) / Σ count
//	location_risk = Π factor(tag)
//	score         = (base_risk + item_risk) × location_risk
//
// Coverage and premiums are derived from the score and the item count.
package risk

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Category is the three-tier bucket a score falls into.
type Category string

const (
	CategoryLow    Category = "Low"
	CategoryMedium Category = "Medium"
	CategoryHigh   Category = "High"
)

// Fixed category boundaries.
const (
	LowThreshold  = 1.0
	HighThreshold = 2.0
)

// MaxItems caps the total number of items in one assessment.
const MaxItems = 1_000_000

// neutralFactor is used for categories with no entry in the item table.
const neutralFactor = 1.0

// ItemFactors maps an item category to its risk multiplier.
var ItemFactors = map[string]float64{
	"electronics":         1.2,
	"jewelry":             1.5,
	"art":                 1.3,
	"furniture":           1.1,
	"appliances":          1.15,
	"sports_equipment":    1.05,
	"musical_instruments": 1.25,
}

// LocationFactors maps a location attribute to its risk multiplier.
var LocationFactors = map[string]float64{
	"flood_zone":       1.4,
	"high_crime":       1.3,
	"wildfire_prone":   1.35,
	"hurricane_prone":  1.45,
	"earthquake_prone": 1.5,
	"urban":            1.1,
	"suburban":         1.0,
	"rural":            0.95,
}

// Params holds the model constants.
type Params struct {
	BaseRisk        float64
	BaseCoverage    float64
	PerItemCoverage float64
	PremiumRate     float64
}

// DefaultParams returns the constants the model ships with.
func DefaultParams() Params {
	return Params{
		BaseRisk:        1.0,
		BaseCoverage:    50000,
		PerItemCoverage: 1000,
		PremiumRate:     0.02,
	}
}

// Assessment is the result of a single scoring call.
type Assessment struct {
	Score                    float64  `json:"risk_score"`
	Category                 Category `json:"risk_category"`
	RecommendedCoverage      float64  `json:"recommended_coverage"`
	AnnualPremium            float64  `json:"annual_premium"`
	MonthlyPremium           float64  `json:"monthly_premium"`
	ItemRiskContribution     float64  `json:"item_risk_contribution"`
	LocationRiskContribution float64  `json:"location_risk_contribution"`
	TotalItems               int      `json:"total_items"`
	UnknownCategories        []string `json:"unknown_categories,omitempty"`
	IgnoredLocationFactors   []string `json:"ignored_location_factors,omitempty"`
}

// Model scores risk against the static factor tables.
type Model struct {
	params   Params
	items    map[string]float64
	location map[string]float64
}

// NewModel creates a model with the package factor tables.
func NewModel(p Params) *Model {
	return &Model{
		params:   p,
		items:    ItemFactors,
		location: LocationFactors,
	}
}

// Params returns the constants the model was built with.
func (m *Model) Params() Params {
	return m.params
}

// Assess scores a set of items, keyed by category, at a location described by
// a list of risk attributes. Category and attribute names are matched
// case-insensitively. Unknown categories weigh in at a neutral 1.0 and unknown
// attributes are skipped.
func (m *Model) Assess(items map[string]int, locationFactors []string) (Assessment, error) {
	// Iterate in key order so floating-point sums are reproducible.
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		weighted float64
		total    int
		unknown  []string
	)
	for _, cat := range keys {
		count := items[cat]
		if count < 0 {
			return Assessment{}, fmt.Errorf("item category %q: count must not be negative, got %d", cat, count)
		}
		if count > MaxItems-total {
			return Assessment{}, fmt.Errorf("too many items: at most %d can be assessed at once", MaxItems)
		}
		factor, ok := m.items[strings.ToLower(strings.TrimSpace(cat))]
		if !ok {
			factor = neutralFactor
			unknown = append(unknown, cat)
		}
		weighted += factor * float64(count)
		total += count
	}

	itemRisk := 0.0
	if total > 0 {
		itemRisk = weighted / float64(total)
	}

	locationRisk := 1.0
	var ignored []string
	for _, tag := range locationFactors {
		if factor, ok := m.location[strings.ToLower(strings.TrimSpace(tag))]; ok {
			locationRisk *= factor
		} else {
			ignored = append(ignored, tag)
		}
	}

	score := (m.params.BaseRisk + itemRisk) * locationRisk

	coverage := decimal.NewFromFloat(m.params.BaseCoverage).
		Add(decimal.NewFromFloat(m.params.PerItemCoverage).Mul(decimal.NewFromInt(int64(total)))).
		Mul(decimal.NewFromFloat(score))
	annual := coverage.Mul(decimal.NewFromFloat(m.params.PremiumRate))
	monthly := annual.Div(decimal.NewFromInt(12))

	return Assessment{
		Score:                    score,
		Category:                 Categorize(score),
		RecommendedCoverage:      coverage.Round(2).InexactFloat64(),
		AnnualPremium:            annual.Round(2).InexactFloat64(),
		MonthlyPremium:           monthly.Round(2).InexactFloat64(),
		ItemRiskContribution:     itemRisk,
		LocationRiskContribution: locationRisk,
		TotalItems:               total,
		UnknownCategories:        unknown,
		IgnoredLocationFactors:   ignored,
	}, nil
}

// Categorize maps a score onto the fixed three-tier scale.
func Categorize(score float64) Category {
	switch {
	case score < LowThreshold:
		return CategoryLow
	case score > HighThreshold:
		return CategoryHigh
	default:
		return CategoryMedium
	}
}

package risk_test

import (
	"math"
	"testing"

	"github.com/agentic-insurtech/insurtech/internal/risk"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAssessWeightedAverage(t *testing.T) {
	m := risk.NewModel(risk.DefaultParams())

	got, err := m.Assess(map[string]int{"electronics": 2, "jewelry": 1}, []string{"urban"})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if !approx(got.ItemRiskContribution, 1.3) {
		t.Errorf("item risk = %v, want 1.3", got.ItemRiskContribution)
	}
	if !approx(got.LocationRiskContribution, 1.1) {
		t.Errorf("location risk = %v, want 1.1", got.LocationRiskContribution)
	}
	if !approx(got.Score, 2.53) {
		t.Errorf("score = %v, want 2.53", got.Score)
	}
	if got.Category != risk.CategoryHigh {
		t.Errorf("category = %s, want High", got.Category)
	}
	if got.RecommendedCoverage != 134090 {
		t.Errorf("coverage = %v, want 134090", got.RecommendedCoverage)
	}
	if got.AnnualPremium != 2681.8 {
		t.Errorf("annual = %v, want 2681.8", got.AnnualPremium)
	}
	if got.MonthlyPremium != 223.48 {
		t.Errorf("monthly = %v, want 223.48", got.MonthlyPremium)
	}
	if got.TotalItems != 3 {
		t.Errorf("total items = %d, want 3", got.TotalItems)
	}
}

func TestAssessNoItems(t *testing.T) {
	m := risk.NewModel(risk.DefaultParams())

	got, err := m.Assess(nil, []string{"rural"})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if got.ItemRiskContribution != 0 {
		t.Errorf("item risk = %v, want 0", got.ItemRiskContribution)
	}
	if !approx(got.Score, 0.95) || got.Category != risk.CategoryLow {
		t.Errorf("score = %v (%s), want 0.95 Low", got.Score, got.Category)
	}
	if got.RecommendedCoverage != 47500 || got.AnnualPremium != 950 || got.MonthlyPremium != 79.17 {
		t.Errorf("money = %v/%v/%v", got.RecommendedCoverage, got.AnnualPremium, got.MonthlyPremium)
	}
}

func TestAssessUnknownFactorsAreNeutral(t *testing.T) {
	m := risk.NewModel(risk.DefaultParams())

	got, err := m.Assess(map[string]int{"spaceship": 4}, []string{"on_the_moon"})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if got.ItemRiskContribution != 1.0 || got.LocationRiskContribution != 1.0 {
		t.Errorf("contributions = %v/%v, want neutral", got.ItemRiskContribution, got.LocationRiskContribution)
	}
	// 2.0 sits on the boundary and is not High.
	if got.Score != 2.0 || got.Category != risk.CategoryMedium {
		t.Errorf("score = %v (%s), want 2.0 Medium", got.Score, got.Category)
	}
	if len(got.UnknownCategories) != 1 || len(got.IgnoredLocationFactors) != 1 {
		t.Errorf("unknown = %v ignored = %v", got.UnknownCategories, got.IgnoredLocationFactors)
	}
}

func TestAssessCaseInsensitive(t *testing.T) {
	m := risk.NewModel(risk.DefaultParams())

	lower, _ := m.Assess(map[string]int{"jewelry": 1}, []string{"flood_zone"})
	upper, _ := m.Assess(map[string]int{"JEWELRY": 1}, []string{"Flood_Zone"})
	if lower.Score != upper.Score {
		t.Errorf("case changed score: %v vs %v", lower.Score, upper.Score)
	}
	if len(upper.UnknownCategories) != 0 {
		t.Errorf("upper-case category treated as unknown: %v", upper.UnknownCategories)
	}
}

func TestAssessDeterministic(t *testing.T) {
	m := risk.NewModel(risk.DefaultParams())
	items := map[string]int{"art": 3, "furniture": 5, "appliances": 2, "unknown": 1}
	loc := []string{"high_crime", "urban"}

	first, _ := m.Assess(items, loc)
	for i := 0; i < 20; i++ {
		again, _ := m.Assess(items, loc)
		if again.Score != first.Score || again.AnnualPremium != first.AnnualPremium {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestAssessMonotonicInItemFactor(t *testing.T) {
	m := risk.NewModel(risk.DefaultParams())

	// sports_equipment < furniture < appliances < electronics < musical_instruments < art < jewelry
	ordered := []string{"sports_equipment", "furniture", "appliances", "electronics", "musical_instruments", "art", "jewelry"}
	prev := -1.0
	for _, cat := range ordered {
		got, err := m.Assess(map[string]int{cat: 2}, []string{"suburban"})
		if err != nil {
			t.Fatalf("Assess(%s): %v", cat, err)
		}
		if got.Score <= prev {
			t.Errorf("%s score %v not greater than previous %v", cat, got.Score, prev)
		}
		prev = got.Score
	}
}

func TestAssessNegativeCount(t *testing.T) {
	m := risk.NewModel(risk.DefaultParams())
	if _, err := m.Assess(map[string]int{"art": -1}, nil); err == nil {
		t.Error("negative count should be rejected")
	}
}

func TestAssessItemLimit(t *testing.T) {
	m := risk.NewModel(risk.DefaultParams())

	tests := []struct {
		name    string
		items   map[string]int
		wantErr bool
	}{
		{"at limit", map[string]int{"art": risk.MaxItems}, false},
		{"split over limit", map[string]int{"art": risk.MaxItems - 1, "jewelry": 2}, true},
		{"overflowing sum", map[string]int{"art": math.MaxInt, "jewelry": 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Assess(tt.items, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Assess: %v", err)
			}
			if got.TotalItems != risk.MaxItems || got.RecommendedCoverage <= 0 {
				t.Errorf("assessment = %+v", got)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		score float64
		want  risk.Category
	}{
		{0, risk.CategoryLow},
		{0.99, risk.CategoryLow},
		{1.0, risk.CategoryMedium},
		{1.5, risk.CategoryMedium},
		{2.0, risk.CategoryMedium},
		{2.01, risk.CategoryHigh},
		{5, risk.CategoryHigh},
	}
	for _, tt := range tests {
		if got := risk.Categorize(tt.score); got != tt.want {
			t.Errorf("Categorize(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestFactorTablesPositive(t *testing.T) {
	for k, v := range risk.ItemFactors {
		if v <= 0 {
			t.Errorf("item factor %s = %v, want > 0", k, v)
		}
	}
	for k, v := range risk.LocationFactors {
		if v <= 0 {
			t.Errorf("location factor %s = %v, want > 0", k, v)
		}
	}
}

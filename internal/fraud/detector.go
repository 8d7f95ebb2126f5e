// Package fraud flags insurance claims that show common fraud indicators.
package fraud

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Indicator weights, summed into the raw score.
const (
	weightRecentPolicy      = 0.7
	weightWeekendClaim      = 0.3
	weightVagueDescription  = 0.6
	weightExcessiveItems    = 0.5
	weightMultipleClaims    = 0.7
	weightWaterNoWeather    = 0.7
	weightTheftNoPoliceRept = 0.8
)

const (
	recentPolicyDays    = 30
	minDescriptionWords = 20
	maxClaimItems       = 15
	multipleClaimCount  = 3

	// scoreScale normalizes the raw score into [0, 1].
	scoreScale = 5.0
)

type Category string

const (
	CategoryLow    Category = "Low"
	CategoryMedium Category = "Medium"
	CategoryHigh   Category = "High"
)

// Claim is the part of a claim the detector inspects.
type Claim struct {
	Description  string            `json:"description"`
	ReportDate   string            `json:"report_date"`
	Items        []json.RawMessage `json:"items"`
	PoliceReport bool              `json:"police_report"`
}

// PolicyInfo is the part of the claimed policy the detector inspects.
type PolicyInfo struct {
	StartDate string `json:"start_date"`
}

// History summarizes the customer's prior claims.
type History struct {
	RecentClaims int `json:"recent_claims"`
}

// Assessment is the detector verdict.
type Assessment struct {
	Score             float64  `json:"fraud_score"`
	Category          Category `json:"risk_category"`
	IndicatorsFound   []string `json:"indicators_found"`
	RecommendedAction string   `json:"recommended_action"`
}

// Detector scores claims. The zero value is not usable; use NewDetector.
type Detector struct {
	now func() time.Time
}

func NewDetector(now func() time.Time) *Detector {
	if now == nil {
		now = time.Now
	}
	return &Detector{now: now}
}

// Detect evaluates a claim. Dates that fail to parse never trigger their
// indicator.
func (d *Detector) Detect(claim Claim, pol PolicyInfo, hist History) Assessment {
	var (
		raw   float64
		found = []string{}
	)
	hit := func(ok bool, weight float64, label string) {
		if ok {
			raw += weight
			found = append(found, label)
		}
	}

	desc := strings.ToLower(claim.Description)

	hit(d.recentPolicy(pol.StartDate), weightRecentPolicy, "Recent policy creation")
	hit(weekendReport(claim.ReportDate), weightWeekendClaim, "Claim filed on weekend")
	hit(len(strings.Fields(claim.Description)) < minDescriptionWords, weightVagueDescription, "Vague claim description")
	hit(len(claim.Items) > maxClaimItems, weightExcessiveItems, "Excessive number of items claimed")
	hit(hist.RecentClaims >= multipleClaimCount, weightMultipleClaims, "Multiple recent claims")
	hit(waterWithoutWeather(desc), weightWaterNoWeather, "Water damage claim without weather event")
	hit(theftWithoutReport(desc, claim.PoliceReport), weightTheftNoPoliceRept, "Theft claim without police report")

	score := math.Min(raw/scoreScale, 1.0)
	cat := categorize(score)
	return Assessment{
		Score:             score,
		Category:          cat,
		IndicatorsFound:   found,
		RecommendedAction: action(cat),
	}
}

func (d *Detector) recentPolicy(start string) bool {
	t, err := time.Parse(dateLayout, strings.TrimSpace(start))
	if err != nil {
		return false
	}
	days := math.Floor(d.now().UTC().Sub(t).Hours() / 24)
	return days < recentPolicyDays
}

func weekendReport(date string) bool {
	t, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func waterWithoutWeather(desc string) bool {
	water := strings.Contains(desc, "water damage") || strings.Contains(desc, "flood")
	weather := strings.Contains(desc, "rain") || strings.Contains(desc, "storm")
	return water && !weather
}

func theftWithoutReport(desc string, policeReport bool) bool {
	theft := strings.Contains(desc, "theft") || strings.Contains(desc, "stolen")
	return theft && !policeReport
}

func categorize(score float64) Category {
	switch {
	case score > 0.7:
		return CategoryHigh
	case score > 0.3:
		return CategoryMedium
	default:
		return CategoryLow
	}
}

func action(c Category) string {
	switch c {
	case CategoryHigh:
		return "Escalate for investigation"
	case CategoryMedium:
		return "Request additional documentation"
	default:
		return "Process claim normally"
	}
}

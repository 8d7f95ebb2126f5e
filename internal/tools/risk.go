package tools

import (
	"context"

	"github.com/agentic-insurtech/insurtech/internal/activity"
	"github.com/agentic-insurtech/insurtech/internal/risk"
)

// RiskAssessmentTool scores an inventory of items at a location
func RiskAssessmentTool(m *risk.Model) Tool {
	return Tool{
		Name:        "risk_assessment_tool",
		Description: "Assess insurance risk for a set of items at a location. Give location_factors, a free-text location (e.g. \"Houston, TX\") or both. Returns the risk score and category, recommended coverage, and annual and monthly premium.",
		Agent:       activity.AgentUnderwriting,
		InputSchema: objectSchema([]string{"items"}, map[string]interface{}{
			"items": map[string]interface{}{
				"type":                 "object",
				"description":          "Item counts keyed by category (electronics, jewelry, art, furniture, appliances, sports_equipment, musical_instruments)",
				"additionalProperties": map[string]interface{}{"type": "integer", "minimum": 0},
			},
			"location_factors": map[string]interface{}{
				"type":        "array",
				"description": "Location attributes (flood_zone, high_crime, wildfire_prone, hurricane_prone, earthquake_prone, urban, suburban, rural)",
				"items":       map[string]interface{}{"type": "string"},
			},
			"location": prop("string", "Customer city or county; location attributes are derived from it"),
		}),
		Execute: func(_ context.Context, input map[string]interface{}) (string, error) {
			var items map[string]int
			if err := decodeArg(input, "items", &items, true); err != nil {
				return "", err
			}
			location, err := stringArg(input, "location")
			if err != nil {
				return "", err
			}
			var factors []string
			if err := decodeArg(input, "location_factors", &factors, location == ""); err != nil {
				return "", err
			}

			a, err := m.Assess(items, risk.MergeLocation(factors, location))
			if err != nil {
				return "", err
			}
			return marshal(a)
		},
	}
}

package risk

import "strings"

// Place lists used to derive location attributes from a free-text location.
var (
	hurricaneCities  = []string{"miami", "new orleans", "houston", "tampa", "charleston"}
	wildfireCities   = []string{"los angeles", "san diego", "phoenix", "denver", "portland"}
	earthquakeCities = []string{"san francisco", "seattle", "los angeles", "portland", "anchorage"}
	tornadoCities    = []string{"oklahoma city", "kansas city", "dallas", "st. louis", "nashville"}
	floodCities      = []string{"new orleans", "houston", "miami", "charleston", "jacksonville"}
	majorCities      = []string{
		"new york", "los angeles", "chicago", "houston", "phoenix", "philadelphia",
		"san antonio", "san diego", "dallas", "san jose",
	}
)

// FactorsForLocation derives location attributes from a place name such as
// "Houston, TX". Every location gets exactly one of urban, suburban or rural.
// tornado_prone has no factor in the table and is reported as ignored by
// Assess.
func FactorsForLocation(location string) []string {
	loc := strings.ToLower(location)
	var factors []string
	for _, r := range []struct {
		cities []string
		tag    string
	}{
		{hurricaneCities, "hurricane_prone"},
		{wildfireCities, "wildfire_prone"},
		{earthquakeCities, "earthquake_prone"},
		{tornadoCities, "tornado_prone"},
		{floodCities, "flood_zone"},
	} {
		if containsAny(loc, r.cities) {
			factors = append(factors, r.tag)
		}
	}

	switch {
	case containsAny(loc, majorCities):
		factors = append(factors, "urban")
	case strings.Contains(loc, "county"), strings.Contains(loc, "township"):
		factors = append(factors, "rural")
	default:
		factors = append(factors, "suburban")
	}
	return factors
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// MergeLocation appends the attributes derived from location to factors,
// skipping any already present. An empty location returns factors unchanged.
func MergeLocation(factors []string, location string) []string {
	if strings.TrimSpace(location) == "" {
		return factors
	}
	seen := make(map[string]bool, len(factors))
	for _, f := range factors {
		seen[strings.ToLower(strings.TrimSpace(f))] = true
	}
	out := append([]string(nil), factors...)
	for _, f := range FactorsForLocation(location) {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

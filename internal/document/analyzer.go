// Package document classifies insurance document text and pulls out the
// entities and labelled fields an agent needs to reason about it.
package document

import (
	"fmt"
	"regexp"
	"strings"
)

// Unknown is the type reported when no document pattern matches.
const Unknown = "unknown"

type typePatterns struct {
	name     string
	patterns []*regexp.Regexp
}

// documentTypes are scored in order; ties go to the earlier type.
var documentTypes = []typePatterns{
	{"policy", compileAll(`policy\s+number`, `coverage\s+amount`, `premium`, `effective\s+date`, `expiration\s+date`)},
	{"claim", compileAll(`claim\s+number`, `incident\s+date`, `damage\s+description`, `estimated\s+loss`)},
	{"invoice", compileAll(`invoice\s+number`, `amount\s+due`, `payment\s+date`, `service\s+description`)},
	{"receipt", compileAll(`receipt\s+number`, `purchase\s+date`, `item\s+description`, `amount\s+paid`)},
}

type entityPattern struct {
	name string
	re   *regexp.Regexp
}

var entityPatterns = []entityPattern{
	{"policy_number", regexp.MustCompile(`(?i)policy\s+(?:number|#)[:.\s]*([A-Z0-9-]+)`)},
	{"claim_number", regexp.MustCompile(`(?i)claim\s+(?:number|#)[:.\s]*([A-Z0-9-]+)`)},
	{"date", regexp.MustCompile(`(?i)(?:date|effective|expiration)[:.\s]*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}[/-]\d{1,2}[/-]\d{1,2})`)},
	{"amount", regexp.MustCompile(`(?i)(?:amount|coverage|premium|paid|due)[:.\s]*[$]?(\d+(?:,\d+)*(?:\.\d+)?)`)},
	{"name", regexp.MustCompile(`(?i)(?:name|insured|policyholder)[:.\s]*([A-Za-z\s]+)(?:\n|,|\.|$)`)},
	{"address", regexp.MustCompile(`(?i)(?:address|location)[:.\s]*([A-Za-z0-9\s,]+)(?:\n|,|\.|$)`)},
	{"phone", regexp.MustCompile(`(?i)(?:phone|tel|telephone)[:.\s]*(\+?[\d\s()-]{10,})`)},
	{"email", regexp.MustCompile(`(?i)(?:email|e-mail)[:.\s]*([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)},
}

var keyValuePattern = regexp.MustCompile(`([A-Za-z\s]+)[:.-]\s*([A-Za-z0-9\s,.$-]+)(?:\n|$)`)

// keys already covered by the type-specific part of the summary
var summarizedKeys = map[string]bool{
	"policy number": true,
	"claim number":  true,
	"date":          true,
	"amount":        true,
	"name":          true,
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// Analysis is the result of Analyze.
type Analysis struct {
	DocumentType string            `json:"document_type"`
	Entities     map[string]string `json:"entities"`
	KeyValues    map[string]string `json:"key_values"`
	Summary      string            `json:"summary"`
}

// Analyze classifies text as a policy, claim, invoice or receipt and extracts
// its entities and "Key: Value" fields.
func Analyze(text string) Analysis {
	docType := Classify(text)
	entities := Entities(text)
	keys, values := keyValues(text)
	return Analysis{
		DocumentType: docType,
		Entities:     entities,
		KeyValues:    values,
		Summary:      summarize(docType, entities, keys, values),
	}
}

// Classify returns the document type whose patterns match most often, or
// Unknown when none match.
func Classify(text string) string {
	best, bestScore := Unknown, 0
	for _, dt := range documentTypes {
		score := 0
		for _, re := range dt.patterns {
			if re.MatchString(text) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = dt.name, score
		}
	}
	return best
}

// Entities returns the first match of each entity pattern found in text.
func Entities(text string) map[string]string {
	out := make(map[string]string)
	for _, p := range entityPatterns {
		if m := p.re.FindStringSubmatch(text); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				out[p.name] = v
			}
		}
	}
	return out
}

// keyValues returns labelled fields and their keys in first-seen order. A
// repeated key keeps its first position and its last value.
func keyValues(text string) ([]string, map[string]string) {
	var keys []string
	values := make(map[string]string)
	for _, m := range keyValuePattern.FindAllStringSubmatch(text, -1) {
		key := strings.ToLower(strings.TrimSpace(m[1]))
		value := strings.TrimSpace(m[2])
		if key == "" || value == "" {
			continue
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = value
	}
	return keys, values
}

func summarize(docType string, entities map[string]string, keys []string, values map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "This appears to be a %s document. ", strings.ToUpper(docType))

	add := func(entity, format string) {
		if v, ok := entities[entity]; ok {
			fmt.Fprintf(&b, format, v)
		}
	}
	switch docType {
	case "policy":
		add("policy_number", "Policy number: %s. ")
		add("name", "Policyholder: %s. ")
		add("amount", "Coverage amount: $%s. ")
		add("date", "Effective date: %s. ")
	case "claim":
		add("claim_number", "Claim number: %s. ")
		add("date", "Incident date: %s. ")
		add("amount", "Estimated loss: $%s. ")
	case "invoice", "receipt":
		add("amount", "Amount: $%s. ")
		add("date", "Date: %s. ")
	}

	var extra []string
	for _, k := range keys {
		if !summarizedKeys[k] {
			extra = append(extra, k+": "+values[k])
		}
	}
	if len(extra) > 0 {
		b.WriteString("Additional information: ")
		b.WriteString(strings.Join(extra, ", "))
		b.WriteString(".")
	}
	return strings.TrimSpace(b.String())
}

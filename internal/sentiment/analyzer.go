// Package sentiment scores customer messages with a small word lexicon.
package sentiment

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// Priority is the urgency assigned to an escalated query.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

const (
	labelThreshold = 0.3
	maxEmotions    = 2
	maxKeyPhrases  = 3
)

var (
	wordRe     = regexp.MustCompile(`\b\w+\b`)
	sentenceRe = regexp.MustCompile(`[.!?]`)
)

var positiveWords = wordSet(
	"good", "great", "excellent", "amazing", "wonderful", "fantastic",
	"helpful", "satisfied", "happy", "pleased", "love", "like", "best",
	"thank", "thanks", "appreciate", "outstanding", "perfect", "awesome",
	"easy", "clear", "fast", "quick", "responsive", "friendly", "efficient",
)

var negativeWords = wordSet(
	"bad", "poor", "terrible", "awful", "horrible", "disappointing",
	"frustrated", "unhappy", "dissatisfied", "angry", "upset", "hate",
	"dislike", "worst", "slow", "difficult", "confusing", "complicated",
	"expensive", "overpriced", "rude", "unprofessional", "inefficient",
	"problem", "issue", "complaint", "error", "mistake", "delay", "fail",
)

var neutralWords = wordSet(
	"okay", "ok", "fine", "average", "neutral", "fair", "decent",
	"acceptable", "moderate", "standard", "normal", "regular", "usual",
)

type emotion struct {
	name  string
	words map[string]bool
}

// Ordered so ties keep a stable ranking.
var emotions = []emotion{
	{"anger", wordSet("angry", "furious", "outraged", "mad", "irritated", "annoyed")},
	{"frustration", wordSet("frustrated", "stuck", "difficult", "confusing", "complicated")},
	{"satisfaction", wordSet("satisfied", "pleased", "content", "happy", "glad")},
	{"confusion", wordSet("confused", "unclear", "unsure", "uncertain", "puzzled")},
	{"urgency", wordSet("urgent", "immediately", "asap", "emergency", "quickly", "soon")},
}

type modifier struct {
	re         *regexp.Regexp
	multiplier float64
}

var modifiers = buildModifiers(map[string]float64{
	"very":       1.5,
	"extremely":  2.0,
	"really":     1.5,
	"somewhat":   0.5,
	"slightly":   0.3,
	"a bit":      0.3,
	"absolutely": 2.0,
	"completely": 1.8,
	"totally":    1.8,
})

// Result is the outcome of Analyze.
type Result struct {
	Sentiment     Label          `json:"sentiment"`
	Score         float64        `json:"sentiment_score"`
	PositiveCount int            `json:"positive_count"`
	NegativeCount int            `json:"negative_count"`
	NeutralCount  int            `json:"neutral_count"`
	Emotions      map[string]int `json:"emotions"`
	KeyPhrases    []string       `json:"key_phrases"`
}

// Analyze scores text in [-1, 1] and labels it positive above 0.3, negative
// below -0.3 and neutral otherwise.
func Analyze(text string) Result {
	text = strings.ToLower(text)
	words := wordRe.FindAllString(text, -1)

	var pos, neg, neu int
	for _, w := range words {
		switch {
		case positiveWords[w]:
			pos++
		case negativeWords[w]:
			neg++
		case neutralWords[w]:
			neu++
		}
	}

	total := pos + neg + neu
	score := 0.0
	if total > 0 {
		score = float64(pos-neg) / float64(total)
	}

	// Each intensifier shifts the score by its excess over 1, spread over
	// the sentiment words seen.
	step := 0.1
	if total > 0 {
		step = 1 / float64(total)
	}
	for _, m := range modifiers {
		for _, match := range m.re.FindAllStringSubmatch(text, -1) {
			switch {
			case positiveWords[match[1]]:
				score += (m.multiplier - 1) * step
			case negativeWords[match[1]]:
				score -= (m.multiplier - 1) * step
			}
		}
	}
	score = math.Max(-1, math.Min(1, score))

	label := Neutral
	switch {
	case score > labelThreshold:
		label = Positive
	case score < -labelThreshold:
		label = Negative
	}

	return Result{
		Sentiment:     label,
		Score:         score,
		PositiveCount: pos,
		NegativeCount: neg,
		NeutralCount:  neu,
		Emotions:      topEmotions(words),
		KeyPhrases:    keyPhrases(text),
	}
}

// EscalationPriority ranks a strongly negative message High and a strongly
// positive one Low.
func EscalationPriority(r Result) Priority {
	switch {
	case r.Sentiment == Negative && r.Score < -0.5:
		return PriorityHigh
	case r.Sentiment == Positive && r.Score > 0.5:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

func topEmotions(words []string) map[string]int {
	type scored struct {
		name  string
		count int
	}
	var found []scored
	for _, e := range emotions {
		n := 0
		for _, w := range words {
			if e.words[w] {
				n++
			}
		}
		if n > 0 {
			found = append(found, scored{e.name, n})
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].count > found[j].count })
	if len(found) > maxEmotions {
		found = found[:maxEmotions]
	}
	out := make(map[string]int, len(found))
	for _, s := range found {
		out[s.name] = s.count
	}
	return out
}

func keyPhrases(text string) []string {
	phrases := []string{}
	for _, sentence := range sentenceRe.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		words := wordRe.FindAllString(sentence, -1)
		if len(words) < 3 || len(words) > 15 {
			continue
		}
		for _, w := range words {
			if positiveWords[w] || negativeWords[w] {
				phrases = append(phrases, sentence)
				break
			}
		}
		if len(phrases) == maxKeyPhrases {
			break
		}
	}
	return phrases
}

func wordSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

func buildModifiers(src map[string]float64) []modifier {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]modifier, 0, len(keys))
	for _, k := range keys {
		pattern := fmt.Sprintf(`\b%s\s+(\w+)`, strings.ReplaceAll(regexp.QuoteMeta(k), " ", `\s+`))
		out = append(out, modifier{re: regexp.MustCompile(pattern), multiplier: src[k]})
	}
	return out
}

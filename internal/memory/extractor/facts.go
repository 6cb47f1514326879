package extractor

import (
	"regexp"
	"strings"
)

// ExtractedFact is a candidate (key, value) pair produced by a fact rule.
type ExtractedFact struct {
	Key        string
	Value      string
	Category   string
	Importance float64
}

// FactRule is one ordered extraction rule: a textual matcher plus
// projections turning the match groups into a key and a value. New rules
// are additions to the table, not code changes.
type FactRule struct {
	Pattern        *regexp.Regexp
	Key            func(groups []string) string
	Value          func(groups []string) string
	BaseImportance float64
	Category       string
}

func fixedKey(key string) func([]string) string {
	return func([]string) string { return key }
}

func group(i int) func([]string) string {
	return func(groups []string) string { return cleanValue(groups[i]) }
}

func prefixedKey(prefix string, i int) func([]string) string {
	return func(groups []string) string { return prefix + slug(groups[i]) }
}

// cleanValue trims surrounding space and trailing punctuation from a
// captured value.
func cleanValue(v string) string {
	return strings.TrimRight(strings.TrimSpace(v), ".,;:!?")
}

// slug turns a captured phrase into a key fragment: lower-cased, spaces
// collapsed to underscores.
func slug(v string) string {
	return strings.Join(strings.Fields(strings.ToLower(cleanValue(v))), "_")
}

var factRules = []FactRule{
	{
		Pattern:        regexp.MustCompile(`(?i)\bmy name is ([A-Za-z]+)`),
		Key:            fixedKey("user_name"),
		Value:          group(1),
		BaseImportance: 0.9,
		Category:       "personal",
	},
	{
		Pattern:        regexp.MustCompile(`(?i)\bcall me ([A-Za-z]+)`),
		Key:            fixedKey("user_name"),
		Value:          group(1),
		BaseImportance: 0.9,
		Category:       "personal",
	},
	{
		Pattern:        regexp.MustCompile(`(?i)\bi(?:'m| am) (\d{1,3}) years old\b`),
		Key:            fixedKey("user_age"),
		Value:          group(1),
		BaseImportance: 0.8,
		Category:       "personal",
	},
	{
		Pattern:        regexp.MustCompile(`(?i)\bi live in ([A-Za-z][A-Za-z ]*)`),
		Key:            fixedKey("user_location"),
		Value:          group(1),
		BaseImportance: 0.8,
		Category:       "personal",
	},
	{
		Pattern:        regexp.MustCompile(`(?i)\bmy favorite ([a-z]+) is ([A-Za-z0-9][A-Za-z0-9 ]*)`),
		Key:            prefixedKey("favorite_", 1),
		Value:          group(2),
		BaseImportance: 0.7,
		Category:       "preferences",
	},
	{
		Pattern:        regexp.MustCompile(`(?i)\bi (?:really )?(?:like|love|enjoy) ([A-Za-z0-9][A-Za-z0-9 ]*)`),
		Key:            prefixedKey("like_", 1),
		Value:          group(1),
		BaseImportance: 0.6,
		Category:       "preferences",
	},
	{
		Pattern:        regexp.MustCompile(`(?i)\bi (?:dislike|hate|can't stand) ([A-Za-z0-9][A-Za-z0-9 ]*)`),
		Key:            prefixedKey("dislike_", 1),
		Value:          group(1),
		BaseImportance: 0.6,
		Category:       "preferences",
	},
}

// ExtractFacts applies the ordered fact rules to user-authored text.
// Every rule that matches produces an independent candidate; the fact
// importance combines the rule's base with the message importance.
func ExtractFacts(text string, messageImportance float64) []ExtractedFact {
	var facts []ExtractedFact
	for _, rule := range factRules {
		groups := rule.Pattern.FindStringSubmatch(text)
		if groups == nil {
			continue
		}
		value := rule.Value(groups)
		if value == "" {
			continue
		}
		importance := rule.BaseImportance + messageImportance*0.2
		if importance > 1 {
			importance = 1
		}
		facts = append(facts, ExtractedFact{
			Key:        rule.Key(groups),
			Value:      value,
			Category:   rule.Category,
			Importance: importance,
		})
	}
	return facts
}

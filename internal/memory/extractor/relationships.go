package extractor

import "regexp"

// ExtractedRelationship is a candidate (name, type) pair produced by a
// relationship rule.
type ExtractedRelationship struct {
	Name       string
	Type       string
	Importance float64
}

// RelationshipRule pairs a textual matcher with the relationship type it
// discloses. The first capture group is the person's name.
type RelationshipRule struct {
	Pattern *regexp.Regexp
	Type    string
}

// The name capture stays case-sensitive so pronouns and ordinary words
// after the relationship noun are not mistaken for names.
var relationshipRules = []RelationshipRule{
	{regexp.MustCompile(`\b(?i:my (?:best )?friend),? ([A-Z][a-z]+)`), "friend"},
	{regexp.MustCompile(`\b(?i:my (?:mother|mom|father|dad)),? ([A-Z][a-z]+)`), "parent"},
	{regexp.MustCompile(`\b(?i:my (?:sister|brother)),? ([A-Z][a-z]+)`), "sibling"},
	{regexp.MustCompile(`\b(?i:my (?:wife|husband|spouse)),? ([A-Z][a-z]+)`), "spouse"},
	{regexp.MustCompile(`\b(?i:my (?:son|daughter)),? ([A-Z][a-z]+)`), "child"},
	{regexp.MustCompile(`\b(?i:my (?:colleague|coworker|co-worker)),? ([A-Z][a-z]+)`), "colleague"},
}

// ExtractRelationships applies the ordered relationship rules to
// user-authored text. Relationship importance starts from a fixed 0.7
// base boosted by the message importance.
func ExtractRelationships(text string, messageImportance float64) []ExtractedRelationship {
	importance := 0.7 + messageImportance*0.2
	if importance > 1 {
		importance = 1
	}

	var rels []ExtractedRelationship
	for _, rule := range relationshipRules {
		for _, groups := range rule.Pattern.FindAllStringSubmatch(text, -1) {
			rels = append(rels, ExtractedRelationship{
				Name:       groups[1],
				Type:       rule.Type,
				Importance: importance,
			})
		}
	}
	return rels
}

package extractor

import (
	"regexp"
	"strings"

	"Mnemo/internal/memory/retention"
)

// indicator is one weighted signal in the importance estimate. Indicators
// are evaluated in order and every match contributes its weight.
type indicator struct {
	pattern *regexp.Regexp
	weight  float64
}

var importanceIndicators = []indicator{
	// emphasis words
	{regexp.MustCompile(`(?i)\b(important|crucial|essential|vital|critical|urgent)\b`), 0.1},
	// explicit requests to remember
	{regexp.MustCompile(`(?i)(\bremember\b|don't forget|do not forget|keep in mind|make a note)`), 0.2},
	// self-identification
	{regexp.MustCompile(`(?i)(\bmy name is\b|\bi am called\b|\bcall me\b|\bi'm called\b)`), 0.3},
	// sensitive data
	{regexp.MustCompile(`(?i)\b(password|credit card|social security|ssn|bank account|pin code)\b`), 0.4},
	// repeated punctuation signals intensity
	{regexp.MustCompile(`[!?]{2,}`), 0.05},
	// obligations
	{regexp.MustCompile(`(?i)\b(must|should|have to|need to)\b`), 0.05},
}

var personalReferences = []indicator{
	{regexp.MustCompile(`(?i)\b(i|me|my|mine|myself)\b`), 0.05},
	{regexp.MustCompile(`(?i)\b(we|us|our|ours)\b`), 0.03},
	{regexp.MustCompile(`(?i)\b(family|mother|father|mom|dad|sister|brother|wife|husband|son|daughter|friend)\b`), 0.1},
}

// EstimateImportance scores message text in [0,1]. The estimate is a pure
// function of the text and its origin: user messages start higher than
// agent messages, and every matching indicator adds its weight.
func EstimateImportance(text string, isUser bool) float64 {
	score := 0.3
	if isUser {
		score = 0.5
	}

	if len(strings.Fields(text)) > 20 {
		score += 0.1
	}

	for _, ind := range importanceIndicators {
		if ind.pattern.MatchString(text) {
			score += ind.weight
		}
	}
	for _, ind := range personalReferences {
		if ind.pattern.MatchString(text) {
			score += ind.weight
		}
	}

	return retention.Clamp(score)
}

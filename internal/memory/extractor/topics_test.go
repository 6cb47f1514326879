package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTopicsSingleMatch(t *testing.T) {
	assert.Equal(t, []string{"weather"}, ExtractTopics("The weather is sunny today"))
}

func TestExtractTopicsMultipleMatches(t *testing.T) {
	// Matches come back in vocabulary order; the first is the primary topic.
	topics := ExtractTopics("I took a flight for my vacation and found a great restaurant")
	assert.Equal(t, []string{"food", "travel"}, topics)
}

func TestExtractTopicsCaseInsensitive(t *testing.T) {
	assert.Equal(t, []string{"health"}, ExtractTopics("I saw the DOCTOR yesterday"))
}

func TestExtractTopicsGeneralFallback(t *testing.T) {
	assert.Equal(t, []string{"general"}, ExtractTopics("xyzzy"))
	assert.Equal(t, []string{"general"}, ExtractTopics(""))
}

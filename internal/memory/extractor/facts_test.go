package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFactsNameDisclosure(t *testing.T) {
	facts := ExtractFacts("My name is Bob", 0.85)
	require.Len(t, facts, 1)

	assert.Equal(t, "user_name", facts[0].Key)
	assert.Equal(t, "Bob", facts[0].Value)
	assert.Equal(t, "personal", facts[0].Category)
	assert.GreaterOrEqual(t, facts[0].Importance, 0.9)
}

func TestExtractFactsAgeAndLocation(t *testing.T) {
	facts := ExtractFacts("I am 30 years old and I live in Paris", 0.5)
	require.Len(t, facts, 2)

	assert.Equal(t, "user_age", facts[0].Key)
	assert.Equal(t, "30", facts[0].Value)
	assert.Equal(t, "user_location", facts[1].Key)
	assert.Equal(t, "Paris", facts[1].Value)
}

func TestExtractFactsFavorite(t *testing.T) {
	facts := ExtractFacts("My favorite color is blue", 0.5)
	require.Len(t, facts, 1)

	assert.Equal(t, "favorite_color", facts[0].Key)
	assert.Equal(t, "blue", facts[0].Value)
	assert.Equal(t, "preferences", facts[0].Category)
}

func TestExtractFactsLikeAndDislike(t *testing.T) {
	likes := ExtractFacts("I like sushi", 0.5)
	require.Len(t, likes, 1)
	assert.Equal(t, "like_sushi", likes[0].Key)
	assert.Equal(t, "sushi", likes[0].Value)

	dislikes := ExtractFacts("I hate traffic", 0.5)
	require.Len(t, dislikes, 1)
	assert.Equal(t, "dislike_traffic", dislikes[0].Key)
}

func TestExtractFactsImportanceCombinesAndClamps(t *testing.T) {
	facts := ExtractFacts("My name is Ada", 1.0)
	require.Len(t, facts, 1)
	// 0.9 base + 1.0*0.2 clamps to 1.
	assert.Equal(t, 1.0, facts[0].Importance)

	facts = ExtractFacts("I like tea", 0.5)
	require.Len(t, facts, 1)
	assert.InDelta(t, 0.7, facts[0].Importance, 1e-9)
}

func TestExtractFactsMultipleRulesFire(t *testing.T) {
	facts := ExtractFacts("My name is Bob and I like sushi", 0.85)
	require.Len(t, facts, 2)
	assert.Equal(t, "user_name", facts[0].Key)
	assert.Equal(t, "like_sushi", facts[1].Key)
}

func TestExtractFactsNoMatch(t *testing.T) {
	assert.Empty(t, ExtractFacts("the sky is clear tonight", 0.4))
}

func TestExtractRelationships(t *testing.T) {
	rels := ExtractRelationships("My friend Alice is visiting", 0.5)
	require.Len(t, rels, 1)
	assert.Equal(t, "Alice", rels[0].Name)
	assert.Equal(t, "friend", rels[0].Type)
	assert.InDelta(t, 0.8, rels[0].Importance, 1e-9)
}

func TestExtractRelationshipsMultipleOfSameType(t *testing.T) {
	rels := ExtractRelationships("my brother Tom and my sister Ann came by", 0.5)
	require.Len(t, rels, 2)
	assert.Equal(t, "Tom", rels[0].Name)
	assert.Equal(t, "sibling", rels[0].Type)
	assert.Equal(t, "Ann", rels[1].Name)
	assert.Equal(t, "sibling", rels[1].Type)
}

func TestExtractRelationshipsRequireCapitalizedName(t *testing.T) {
	assert.Empty(t, ExtractRelationships("my friend said hi", 0.5))
}

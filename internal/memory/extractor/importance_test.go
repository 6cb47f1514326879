package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateImportanceBaseline(t *testing.T) {
	// No indicator fires; only the origin matters.
	assert.InDelta(t, 0.3, EstimateImportance("hello there", false), 1e-9)
	assert.InDelta(t, 0.5, EstimateImportance("hello there", true), 1e-9)
}

func TestEstimateImportanceMemoryRequest(t *testing.T) {
	got := EstimateImportance("please remember the meeting", true)
	assert.InDelta(t, 0.7, got, 1e-9)
}

func TestEstimateImportanceSelfIdentification(t *testing.T) {
	// self-identification (+0.3) and first-person reference (+0.05)
	got := EstimateImportance("My name is Bob", true)
	assert.InDelta(t, 0.85, got, 1e-9)
}

func TestEstimateImportanceSensitiveData(t *testing.T) {
	got := EstimateImportance("my password is hunter2", true)
	assert.InDelta(t, 0.95, got, 1e-9)
}

func TestEstimateImportanceRepeatedPunctuation(t *testing.T) {
	got := EstimateImportance("what a day!!", false)
	assert.InDelta(t, 0.35, got, 1e-9)
}

func TestEstimateImportanceLongMessageBonus(t *testing.T) {
	long := strings.Repeat("word ", 25)
	assert.InDelta(t, 0.4, EstimateImportance(long, false), 1e-9)
}

func TestEstimateImportanceClampedToOne(t *testing.T) {
	text := "Important!! Please remember that my name is Bob and my password must stay with my family"
	got := EstimateImportance(text, true)
	assert.Equal(t, 1.0, got)
}

func TestEstimateImportanceIsPure(t *testing.T) {
	text := "remember my sister Ann"
	first := EstimateImportance(text, true)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, EstimateImportance(text, true))
	}
}

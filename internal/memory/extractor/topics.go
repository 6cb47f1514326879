package extractor

import "strings"

// DefaultTopic is returned when no topic keyword matches.
const DefaultTopic = "general"

// topicEntry pairs a topic name with its keyword set. The list order is
// fixed so extraction is deterministic; the first matched topic becomes
// the primary topic used for indexing.
type topicEntry struct {
	name     string
	keywords []string
}

var topicVocabulary = []topicEntry{
	{"weather", []string{"weather", "rain", "sunny", "snow", "temperature", "forecast", "cloudy", "storm"}},
	{"health", []string{"health", "doctor", "sick", "pain", "exercise", "sleep", "medicine", "tired", "headache"}},
	{"technology", []string{"computer", "phone", "software", "internet", "technology", "code", "gadget"}},
	{"entertainment", []string{"movie", "music", "game", "show", "book", "concert", "film", "series"}},
	{"food", []string{"food", "meal", "dinner", "lunch", "breakfast", "recipe", "restaurant", "cooking", "hungry"}},
	{"travel", []string{"travel", "trip", "flight", "vacation", "hotel", "journey", "airport", "destination"}},
	{"work", []string{"work", "job", "meeting", "project", "boss", "office", "deadline", "career", "colleague"}},
	{"education", []string{"school", "learn", "study", "class", "university", "course", "exam", "homework"}},
	{"family", []string{"family", "mother", "father", "sister", "brother", "kids", "parents", "wife", "husband"}},
	{"emotions", []string{"happy", "sad", "angry", "excited", "worried", "scared", "love", "stressed", "anxious"}},
}

// ExtractTopics maps free text to topic labels from the fixed vocabulary.
// A topic matches on its first keyword hit. If nothing matches, the
// result is ["general"].
func ExtractTopics(text string) []string {
	lowered := strings.ToLower(text)

	var topics []string
	for _, entry := range topicVocabulary {
		for _, kw := range entry.keywords {
			if strings.Contains(lowered, kw) {
				topics = append(topics, entry.name)
				break
			}
		}
	}

	if len(topics) == 0 {
		return []string{DefaultTopic}
	}
	return topics
}

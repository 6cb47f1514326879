package service

import (
	"context"
	"fmt"
	"sort"

	"Mnemo/internal/memory/store"
	"Mnemo/internal/models"
)

// MemorySummary is the data behind the "summary" visualization: item
// counts per collection and the most frequent topics.
type MemorySummary struct {
	FactCount         int64          `json:"factCount"`
	ConversationCount int64          `json:"conversationCount"`
	TopicCount        int64          `json:"topicCount"`
	PreferenceCount   int64          `json:"preferenceCount"`
	RelationshipCount int64          `json:"relationshipCount"`
	TopTopics         []models.Topic `json:"topTopics"`
}

const summaryTopTopics = 5

// VisualizationData assembles the raw data behind one visualization type.
// Rendering stays with the external collaborator; this only selects and
// shapes stored items.
func (s *MemoryService) VisualizationData(ctx context.Context, vizType, filter string) (interface{}, error) {
	switch vizType {
	case "facts":
		facts, err := s.colls.Facts.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		return filterByCategory(facts, filter, func(f models.Fact) string { return f.Category }), nil

	case "conversations":
		recent := []models.ConversationRecord{}
		err := s.colls.Conversations.Scan(ctx, store.IndexTimestamp,
			store.ScanOptions{Descending: true, Limit: 50},
			func(r models.ConversationRecord) (bool, error) {
				recent = append(recent, r)
				return true, nil
			})
		if err != nil {
			return nil, err
		}
		return recent, nil

	case "topics":
		topics, err := s.colls.Topics.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(topics, func(i, j int) bool { return topics[i].Frequency > topics[j].Frequency })
		return topics, nil

	case "preferences":
		prefs, err := s.colls.Preferences.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		return filterByCategory(prefs, filter, func(p models.Preference) string { return p.Category }), nil

	case "relationships":
		return s.colls.Relationships.GetAll(ctx)

	case "summary":
		return s.summary(ctx)
	}

	return nil, fmt.Errorf("unknown visualization type %q", vizType)
}

func filterByCategory[T any](items []T, category string, categoryOf func(T) string) []T {
	if category == "" {
		return items
	}
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if categoryOf(item) == category {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func (s *MemoryService) summary(ctx context.Context) (*MemorySummary, error) {
	sum := &MemorySummary{}

	var err error
	if sum.FactCount, err = s.colls.Facts.Count(ctx); err != nil {
		return nil, err
	}
	if sum.ConversationCount, err = s.colls.Conversations.Count(ctx); err != nil {
		return nil, err
	}
	if sum.TopicCount, err = s.colls.Topics.Count(ctx); err != nil {
		return nil, err
	}
	if sum.PreferenceCount, err = s.colls.Preferences.Count(ctx); err != nil {
		return nil, err
	}
	if sum.RelationshipCount, err = s.colls.Relationships.Count(ctx); err != nil {
		return nil, err
	}

	topics, err := s.colls.Topics.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(topics, func(i, j int) bool { return topics[i].Frequency > topics[j].Frequency })
	if len(topics) > summaryTopTopics {
		topics = topics[:summaryTopTopics]
	}
	sum.TopTopics = topics

	return sum, nil
}

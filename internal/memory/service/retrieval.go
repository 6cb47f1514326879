package service

import (
	"context"
	"fmt"

	"Mnemo/internal/memory/extractor"
	"Mnemo/internal/memory/store"
	"Mnemo/internal/models"
)

// RetrieveContext assembles the context bundle for an incoming message:
// recent high-importance history, topic-matched history, and relevant
// facts and preferences. The bundle is the sole hand-off to the external
// response generator.
func (s *MemoryService) RetrieveContext(ctx context.Context, message string) (*models.ContextBundle, error) {
	now := s.now()
	topics := extractor.ExtractTopics(message)

	bundle := &models.ContextBundle{
		RecentMessages:      []models.ConversationRecord{},
		TopicMessages:       []models.ConversationRecord{},
		RelevantFacts:       []models.Fact{},
		RelevantPreferences: []models.Preference{},
		Topics:              topics,
	}

	// Newest first, stopping once enough qualifying records are in hand.
	err := s.colls.Conversations.Scan(ctx, store.IndexTimestamp, store.ScanOptions{Descending: true},
		func(rec models.ConversationRecord) (bool, error) {
			if rec.Importance < s.recentImportanceFloor || expired(rec.ExpirationTime, now) {
				return true, nil
			}
			bundle.RecentMessages = append(bundle.RecentMessages, rec)
			return len(bundle.RecentMessages) < s.recentLimit, nil
		})
	if err != nil {
		s.logger.WithError(err).Error("failed to scan recent conversations")
		return nil, fmt.Errorf("failed to scan recent conversations: %w", err)
	}

	// Topic-matched history, deduplicated by record ID across topics,
	// first occurrence wins.
	seen := make(map[string]struct{}, len(bundle.RecentMessages))
	for _, topic := range topics {
		count := 0
		err := s.colls.Conversations.Scan(ctx, store.IndexTopic,
			store.ScanOptions{Min: topic, Max: topic, Descending: true},
			func(rec models.ConversationRecord) (bool, error) {
				if rec.Importance < s.topicImportanceFloor || expired(rec.ExpirationTime, now) {
					return true, nil
				}
				if _, dup := seen[rec.ID]; !dup {
					seen[rec.ID] = struct{}{}
					bundle.TopicMessages = append(bundle.TopicMessages, rec)
				}
				count++
				return count < s.topicLimit, nil
			})
		if err != nil {
			s.logger.WithError(err).Error("failed to scan topic conversations")
			return nil, fmt.Errorf("failed to scan conversations for topic %q: %w", topic, err)
		}
	}

	terms := queryTerms(message)
	if len(terms) > 0 {
		bundle.RelevantFacts, err = searchCollection(ctx, s.colls.Facts, terms,
			s.searchLimit, s.searchImportanceFloor, now, factImportance, factExpiry)
		if err != nil {
			s.logger.WithError(err).Error("failed to search facts for context")
			return nil, fmt.Errorf("failed to search facts: %w", err)
		}
		bundle.RelevantPreferences, err = searchCollection(ctx, s.colls.Preferences, terms,
			s.searchLimit, s.searchImportanceFloor, now, prefImportance, prefExpiry)
		if err != nil {
			s.logger.WithError(err).Error("failed to search preferences for context")
			return nil, fmt.Errorf("failed to search preferences: %w", err)
		}
	}

	return bundle, nil
}

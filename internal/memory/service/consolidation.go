package service

import (
	"context"
	"fmt"

	"Mnemo/internal/memory/store"
	"Mnemo/internal/models"
)

// Consolidate sweeps expired items out of the facts, conversations, and
// preferences collections and clears every cache table. Topics and
// relationships are durable aggregates and are deliberately exempt.
//
// The sweep walks the expiration index incrementally; it never holds a
// collection unavailable for the duration of a full scan.
func (s *MemoryService) Consolidate(ctx context.Context) error {
	s.consolidateMu.Lock()
	defer s.consolidateMu.Unlock()

	now := s.now()
	evicted := 0

	var factKeys []string
	err := s.colls.Facts.Scan(ctx, store.IndexExpiration, store.ScanOptions{Max: now},
		func(f models.Fact) (bool, error) {
			factKeys = append(factKeys, f.Key)
			return true, nil
		})
	if err != nil {
		s.logger.WithError(err).Error("consolidation scan failed for facts")
		return fmt.Errorf("consolidation scan failed for facts: %w", err)
	}
	for _, key := range factKeys {
		if err := s.colls.Facts.Delete(ctx, key); err != nil {
			s.logger.WithError(err).Error("failed to evict expired fact")
			return fmt.Errorf("failed to evict fact %q: %w", key, err)
		}
		evicted++
	}

	var convIDs []string
	err = s.colls.Conversations.Scan(ctx, store.IndexExpiration, store.ScanOptions{Max: now},
		func(r models.ConversationRecord) (bool, error) {
			convIDs = append(convIDs, r.ID)
			return true, nil
		})
	if err != nil {
		s.logger.WithError(err).Error("consolidation scan failed for conversations")
		return fmt.Errorf("consolidation scan failed for conversations: %w", err)
	}
	for _, id := range convIDs {
		if err := s.colls.Conversations.Delete(ctx, id); err != nil {
			s.logger.WithError(err).Error("failed to evict expired conversation")
			return fmt.Errorf("failed to evict conversation %q: %w", id, err)
		}
		evicted++
	}

	var prefKeys []string
	err = s.colls.Preferences.Scan(ctx, store.IndexExpiration, store.ScanOptions{Max: now},
		func(p models.Preference) (bool, error) {
			prefKeys = append(prefKeys, p.Key)
			return true, nil
		})
	if err != nil {
		s.logger.WithError(err).Error("consolidation scan failed for preferences")
		return fmt.Errorf("consolidation scan failed for preferences: %w", err)
	}
	for _, key := range prefKeys {
		if err := s.colls.Preferences.Delete(ctx, key); err != nil {
			s.logger.WithError(err).Error("failed to evict expired preference")
			return fmt.Errorf("failed to evict preference %q: %w", key, err)
		}
		evicted++
	}

	s.caches.Clear()
	s.lastConsolidation = now
	s.observer.MemoryConsolidated(now)

	s.logger.WithPayload(map[string]interface{}{"evicted": evicted}).Info("memory consolidated")
	return nil
}

// maybeConsolidate runs a sweep when the configured interval has elapsed
// since the last one. The check rides along with ordinary traffic rather
// than a dedicated timer.
func (s *MemoryService) maybeConsolidate(ctx context.Context) {
	s.consolidateMu.Lock()
	due := s.now().Sub(s.lastConsolidation) >= s.consolidationInterval
	s.consolidateMu.Unlock()

	if !due {
		return
	}
	if err := s.Consolidate(ctx); err != nil {
		s.logger.WithError(err).Error("opportunistic consolidation failed")
	}
}

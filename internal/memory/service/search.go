package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"Mnemo/internal/memory/store"
	"Mnemo/internal/models"
)

// queryTerms splits a query into lower-cased search terms.
func queryTerms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// scored pairs an item with its lexical relevance score.
type scored[T any] struct {
	item  T
	score float64
}

// searchCollection runs the importance-weighted lexical match over one
// collection. An item scores the number of query terms found in its
// lower-cased JSON form, doubled when every term matched, scaled by
// (0.5 + importance). Zero-score, sub-floor, and expired items are
// dropped; survivors come back sorted by score, truncated to limit.
func searchCollection[T any](ctx context.Context, coll store.Collection[T], terms []string, limit int, floor float64, now time.Time, importanceOf func(T) float64, expiryOf func(T) *time.Time) ([]T, error) {
	items, err := coll.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var hits []scored[T]
	for _, item := range items {
		imp := importanceOf(item)
		if imp < floor || expired(expiryOf(item), now) {
			continue
		}

		blob, err := json.Marshal(item)
		if err != nil {
			continue
		}
		text := strings.ToLower(string(blob))

		matched := 0
		for _, term := range terms {
			if strings.Contains(text, term) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		score := float64(matched)
		if matched == len(terms) {
			score *= 2
		}
		score *= 0.5 + imp

		hits = append(hits, scored[T]{item: item, score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]T, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.item)
	}
	return out, nil
}

func factImportance(f models.Fact) float64 { return f.Importance }
func factExpiry(f models.Fact) *time.Time  { return f.ExpirationTime }

func convImportance(r models.ConversationRecord) float64 { return r.Importance }
func convExpiry(r models.ConversationRecord) *time.Time  { return r.ExpirationTime }

func topicImportance(t models.Topic) float64 { return t.Importance }
func topicExpiry(models.Topic) *time.Time    { return nil }

func prefImportance(p models.Preference) float64 { return p.Importance }
func prefExpiry(p models.Preference) *time.Time  { return p.ExpirationTime }

func relImportance(r models.Relationship) float64 { return r.Importance }
func relExpiry(models.Relationship) *time.Time    { return nil }

// Search runs the lexical search over the named collections. An empty
// collections list targets all five. limit bounds results per collection;
// floor is the minimum importance considered.
func (s *MemoryService) Search(ctx context.Context, query string, collections []string, limit int, floor float64) (*models.SearchResults, error) {
	results := &models.SearchResults{}

	terms := queryTerms(query)
	if len(terms) == 0 {
		return results, nil
	}

	if len(collections) == 0 {
		collections = []string{
			store.CollFacts, store.CollConversations, store.CollTopics,
			store.CollPreferences, store.CollRelationships,
		}
	}

	now := s.now()
	var err error
	for _, name := range collections {
		switch name {
		case store.CollFacts:
			results.Facts, err = searchCollection(ctx, s.colls.Facts, terms, limit, floor, now, factImportance, factExpiry)
		case store.CollConversations:
			results.Conversations, err = searchCollection(ctx, s.colls.Conversations, terms, limit, floor, now, convImportance, convExpiry)
		case store.CollTopics:
			results.Topics, err = searchCollection(ctx, s.colls.Topics, terms, limit, floor, now, topicImportance, topicExpiry)
		case store.CollPreferences:
			results.Preferences, err = searchCollection(ctx, s.colls.Preferences, terms, limit, floor, now, prefImportance, prefExpiry)
		case store.CollRelationships:
			results.Relationships, err = searchCollection(ctx, s.colls.Relationships, terms, limit, floor, now, relImportance, relExpiry)
		}
		if err != nil {
			s.logger.WithError(err).Error("search failed on collection " + name)
			return nil, err
		}
	}
	return results, nil
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"Mnemo/internal/config"
	"Mnemo/internal/memory/cache"
	"Mnemo/internal/memory/extractor"
	"Mnemo/internal/memory/retention"
	"Mnemo/internal/memory/store"
	"Mnemo/internal/models"
	"Mnemo/pkg/logger"

	"github.com/google/uuid"
)

const (
	defaultRecentLimit           = 10
	defaultTopicLimit            = 5
	defaultSearchLimit           = 5
	defaultRecentImportanceFloor = 0.3
	defaultTopicImportanceFloor  = 0.4
	defaultSearchImportanceFloor = 0.4
	defaultConsolidationInterval = 24 * time.Hour
	defaultCacheCapacity         = 1024
)

// Observer receives typed callbacks for the notifications the engine
// emits. It is supplied at construction; the engine has no dependency on
// any global event bus.
type Observer interface {
	FactStored(fact models.Fact)
	PreferenceStored(pref models.Preference)
	RelationshipStored(rel models.Relationship)
	MemoryConsolidated(timestamp time.Time)
}

// NoopObserver discards all callbacks.
type NoopObserver struct{}

func (NoopObserver) FactStored(models.Fact)                 {}
func (NoopObserver) PreferenceStored(models.Preference)     {}
func (NoopObserver) RelationshipStored(models.Relationship) {}

func (NoopObserver) MemoryConsolidated(time.Time) {}

// MemoryService is the persistent memory engine: it scores, stores,
// retrieves, searches, consolidates, and serializes the five memory
// collections. The host application constructs one instance and passes
// it to every collaborator that needs it.
type MemoryService struct {
	colls    store.Collections
	caches   cache.Caches
	observer Observer
	logger   *logger.Logger

	storeName             string
	recentLimit           int
	topicLimit            int
	searchLimit           int
	recentImportanceFloor float64
	topicImportanceFloor  float64
	searchImportanceFloor float64
	consolidationInterval time.Duration

	now func() time.Time

	consolidateMu     sync.Mutex
	lastConsolidation time.Time
}

// Option customizes a MemoryService at construction.
type Option func(*MemoryService)

// WithObserver registers the callback sink for emitted notifications.
func WithObserver(obs Observer) Option {
	return func(s *MemoryService) { s.observer = obs }
}

// WithCaches replaces the default in-process caches.
func WithCaches(caches cache.Caches) Option {
	return func(s *MemoryService) { s.caches = caches }
}

// WithClock replaces the wall clock. Expiration and consolidation then
// follow the supplied clock, which makes retention deterministic in tests.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryService) { s.now = now }
}

// NewMemoryService creates a new MemoryService over the given collections.
func NewMemoryService(colls store.Collections, cfg config.MemoryConfig, log *logger.Logger, opts ...Option) *MemoryService {
	s := &MemoryService{
		colls:                 colls,
		observer:              NoopObserver{},
		logger:                log,
		storeName:             cfg.StoreName,
		recentLimit:           cfg.RecentLimit,
		topicLimit:            cfg.TopicLimit,
		searchLimit:           cfg.SearchLimit,
		recentImportanceFloor: cfg.RecentImportanceFloor,
		topicImportanceFloor:  cfg.TopicImportanceFloor,
		searchImportanceFloor: cfg.SearchImportanceFloor,
		now:                   time.Now,
	}

	if s.storeName == "" {
		s.storeName = "memory"
	}
	if s.recentLimit <= 0 {
		s.recentLimit = defaultRecentLimit
	}
	if s.topicLimit <= 0 {
		s.topicLimit = defaultTopicLimit
	}
	if s.searchLimit <= 0 {
		s.searchLimit = defaultSearchLimit
	}
	if s.recentImportanceFloor <= 0 {
		s.recentImportanceFloor = defaultRecentImportanceFloor
	}
	if s.topicImportanceFloor <= 0 {
		s.topicImportanceFloor = defaultTopicImportanceFloor
	}
	if s.searchImportanceFloor <= 0 {
		s.searchImportanceFloor = defaultSearchImportanceFloor
	}
	s.consolidationInterval = defaultConsolidationInterval
	if cfg.ConsolidationInterval != "" {
		if d, err := time.ParseDuration(cfg.ConsolidationInterval); err == nil && d > 0 {
			s.consolidationInterval = d
		}
	}

	for _, opt := range opts {
		opt(s)
	}

	// The default caches share the service clock so lazy expiration
	// follows the same time source as the policy computations.
	if s.caches.Facts == nil {
		s.caches = cache.NewMemoryCaches(defaultCacheCapacity, s.now)
	}

	return s
}

// Start performs the initial consolidation sweep. The host emits the
// initialized notification based on the returned error.
func (s *MemoryService) Start(ctx context.Context) error {
	if err := s.Consolidate(ctx); err != nil {
		return fmt.Errorf("initial consolidation failed: %w", err)
	}
	s.logger.Info("memory service started")
	return nil
}

// expired reports whether a non-nil expiration instant has passed.
func expired(exp *time.Time, now time.Time) bool {
	return exp != nil && !exp.After(now)
}

// ProcessMessage runs the full inbound pipeline for one message: score,
// derive expiration, extract topics, write the conversation record, update
// topic aggregates, and (for user messages) extract facts and
// relationships.
//
// The writes span up to four collections and are not atomic across them;
// a failure part-way through leaves the earlier writes in place.
func (s *MemoryService) ProcessMessage(ctx context.Context, message string, isUser bool, timestamp time.Time) (models.ConversationRecord, error) {
	if timestamp.IsZero() {
		timestamp = s.now()
	}

	importance := extractor.EstimateImportance(message, isUser)
	topics := extractor.ExtractTopics(message)

	rec := models.ConversationRecord{
		ID:             uuid.New().String(),
		Message:        message,
		IsUser:         isUser,
		Timestamp:      timestamp,
		Importance:     importance,
		ExpirationTime: retention.ExpirationFor(importance, timestamp),
		Topic:          topics[0],
		AllTopics:      topics,
	}

	if err := s.colls.Conversations.Put(ctx, rec.ID, rec); err != nil {
		s.logger.WithError(err).Error("failed to store conversation record")
		return rec, fmt.Errorf("failed to store conversation record: %w", err)
	}
	s.caches.Conversations.Put(rec.ID, rec)

	for _, topic := range topics {
		if err := s.recordTopic(ctx, topic, importance, timestamp); err != nil {
			s.logger.WithError(err).Error("failed to update topic aggregate")
			return rec, fmt.Errorf("failed to update topic %q: %w", topic, err)
		}
	}

	if isUser {
		for _, ef := range extractor.ExtractFacts(message, importance) {
			if _, err := s.StoreFact(ctx, ef.Key, ef.Value, ef.Importance, ef.Category); err != nil {
				return rec, err
			}
		}
		for _, er := range extractor.ExtractRelationships(message, importance) {
			if _, err := s.storeRelationship(ctx, er.Name, er.Type, er.Importance, timestamp); err != nil {
				return rec, err
			}
		}
	}

	s.maybeConsolidate(ctx)

	return rec, nil
}

// StoreFact creates or updates a fact. On re-observation the value and
// timestamp are overwritten, the importance keeps the maximum ever seen,
// and the update count grows; the expiration is recomputed from the
// merged importance.
func (s *MemoryService) StoreFact(ctx context.Context, key, value string, importance float64, category string) (models.Fact, error) {
	now := s.now()
	importance = retention.Clamp(importance)

	fact := models.Fact{
		Key:        key,
		Value:      value,
		Category:   category,
		Timestamp:  now,
		Importance: importance,
	}

	existing, ok, err := s.colls.Facts.Get(ctx, key)
	if err != nil {
		s.logger.WithError(err).Error("failed to load existing fact")
		return fact, fmt.Errorf("failed to load fact %q: %w", key, err)
	}
	if ok {
		if existing.Importance > fact.Importance {
			fact.Importance = existing.Importance
		}
		fact.UpdateCount = existing.UpdateCount + 1
		if fact.Category == "" {
			fact.Category = existing.Category
		}
	}
	fact.ExpirationTime = retention.ExpirationFor(fact.Importance, now)

	if err := s.colls.Facts.Put(ctx, key, fact); err != nil {
		s.logger.WithError(err).Error("failed to store fact")
		return fact, fmt.Errorf("failed to store fact %q: %w", key, err)
	}
	s.caches.Facts.Put(key, fact)
	s.observer.FactStored(fact)

	return fact, nil
}

// RetrieveFact returns a fact by key, or nil when it was never stored or
// has expired. An expired entry found in cache is evicted at that moment.
func (s *MemoryService) RetrieveFact(ctx context.Context, key string) (*models.Fact, error) {
	now := s.now()

	if fact, ok := s.caches.Facts.Get(key); ok {
		if expired(fact.ExpirationTime, now) {
			s.caches.Facts.Delete(key)
		} else {
			return &fact, nil
		}
	}

	fact, ok, err := s.colls.Facts.Get(ctx, key)
	if err != nil {
		s.logger.WithError(err).Error("failed to retrieve fact")
		return nil, fmt.Errorf("failed to retrieve fact %q: %w", key, err)
	}
	if !ok || expired(fact.ExpirationTime, now) {
		return nil, nil
	}

	s.caches.Facts.Put(key, fact)
	return &fact, nil
}

// UpdatePreference creates or updates a preference with the same merge
// rules as facts.
func (s *MemoryService) UpdatePreference(ctx context.Context, key, value, category string, importance float64) (models.Preference, error) {
	now := s.now()
	importance = retention.Clamp(importance)

	pref := models.Preference{
		Key:        key,
		Value:      value,
		Category:   category,
		Timestamp:  now,
		Importance: importance,
	}

	existing, ok, err := s.colls.Preferences.Get(ctx, key)
	if err != nil {
		s.logger.WithError(err).Error("failed to load existing preference")
		return pref, fmt.Errorf("failed to load preference %q: %w", key, err)
	}
	if ok {
		if existing.Importance > pref.Importance {
			pref.Importance = existing.Importance
		}
		pref.UpdateCount = existing.UpdateCount + 1
		if pref.Category == "" {
			pref.Category = existing.Category
		}
	}
	pref.ExpirationTime = retention.ExpirationFor(pref.Importance, now)

	if err := s.colls.Preferences.Put(ctx, key, pref); err != nil {
		s.logger.WithError(err).Error("failed to store preference")
		return pref, fmt.Errorf("failed to store preference %q: %w", key, err)
	}
	s.caches.Preferences.Put(key, pref)
	s.observer.PreferenceStored(pref)

	return pref, nil
}

// RetrievePreference returns a preference by key with the same expiry
// semantics as RetrieveFact.
func (s *MemoryService) RetrievePreference(ctx context.Context, key string) (*models.Preference, error) {
	now := s.now()

	if pref, ok := s.caches.Preferences.Get(key); ok {
		if expired(pref.ExpirationTime, now) {
			s.caches.Preferences.Delete(key)
		} else {
			return &pref, nil
		}
	}

	pref, ok, err := s.colls.Preferences.Get(ctx, key)
	if err != nil {
		s.logger.WithError(err).Error("failed to retrieve preference")
		return nil, fmt.Errorf("failed to retrieve preference %q: %w", key, err)
	}
	if !ok || expired(pref.ExpirationTime, now) {
		return nil, nil
	}

	s.caches.Preferences.Put(key, pref)
	return &pref, nil
}

// recordTopic updates the long-lived topic aggregate: frequency,
// last-discussed instant, and the maximum importance ever seen.
func (s *MemoryService) recordTopic(ctx context.Context, name string, importance float64, ts time.Time) error {
	topic, ok, err := s.colls.Topics.Get(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		topic = models.Topic{
			Name:           name,
			Frequency:      1,
			Importance:     importance,
			FirstDiscussed: ts,
			LastDiscussed:  ts,
		}
	} else {
		topic.Frequency++
		topic.LastDiscussed = ts
		if importance > topic.Importance {
			topic.Importance = importance
		}
	}

	if err := s.colls.Topics.Put(ctx, name, topic); err != nil {
		return err
	}
	s.caches.Topics.Put(name, topic)
	return nil
}

// storeRelationship updates the durable relationship aggregate keyed by
// the person's name.
func (s *MemoryService) storeRelationship(ctx context.Context, name, relType string, importance float64, ts time.Time) (models.Relationship, error) {
	importance = retention.Clamp(importance)

	rel, ok, err := s.colls.Relationships.Get(ctx, name)
	if err != nil {
		s.logger.WithError(err).Error("failed to load existing relationship")
		return rel, fmt.Errorf("failed to load relationship %q: %w", name, err)
	}
	if !ok {
		rel = models.Relationship{
			Name:           name,
			Type:           relType,
			Importance:     importance,
			FirstMentioned: ts,
			LastMentioned:  ts,
			MentionCount:   1,
		}
	} else {
		rel.Type = relType
		rel.MentionCount++
		rel.LastMentioned = ts
		if importance > rel.Importance {
			rel.Importance = importance
		}
	}

	if err := s.colls.Relationships.Put(ctx, name, rel); err != nil {
		s.logger.WithError(err).Error("failed to store relationship")
		return rel, fmt.Errorf("failed to store relationship %q: %w", name, err)
	}
	s.caches.Relationships.Put(name, rel)
	s.observer.RelationshipStored(rel)

	return rel, nil
}

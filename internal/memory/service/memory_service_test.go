package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"Mnemo/internal/config"
	"Mnemo/internal/memory/store"
	"Mnemo/internal/models"
	"Mnemo/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source shared by a service under
// test and its caches.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// recordingObserver captures every emitted callback.
type recordingObserver struct {
	facts          []models.Fact
	prefs          []models.Preference
	rels           []models.Relationship
	consolidations []time.Time
}

func (o *recordingObserver) FactStored(f models.Fact)             { o.facts = append(o.facts, f) }
func (o *recordingObserver) PreferenceStored(p models.Preference) { o.prefs = append(o.prefs, p) }
func (o *recordingObserver) RelationshipStored(r models.Relationship) {
	o.rels = append(o.rels, r)
}
func (o *recordingObserver) MemoryConsolidated(t time.Time) {
	o.consolidations = append(o.consolidations, t)
}

func newTestService(clk *fakeClock, opts ...Option) (*MemoryService, store.Collections) {
	colls := store.NewMemCollections()
	opts = append([]Option{WithClock(clk.now)}, opts...)
	svc := NewMemoryService(colls, config.MemoryConfig{}, logger.New("memory-test"), opts...)
	return svc, colls
}

func TestStoreFactKeepsMaximumImportance(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	svc, _ := newTestService(clk)

	first, err := svc.StoreFact(ctx, "user_location", "Berlin", 0.4, "personal")
	require.NoError(t, err)
	assert.Equal(t, 0.4, first.Importance)
	assert.Equal(t, 0, first.UpdateCount)

	second, err := svc.StoreFact(ctx, "user_location", "Munich", 0.3, "personal")
	require.NoError(t, err)
	assert.Equal(t, "Munich", second.Value)
	assert.Equal(t, 0.4, second.Importance)
	assert.Equal(t, 1, second.UpdateCount)

	// Low tier: the merged importance still keeps a bounded lifetime.
	require.NotNil(t, second.ExpirationTime)
	assert.Equal(t, clk.now().Add(7*24*time.Hour), *second.ExpirationTime)
}

func TestStoreCriticalFactNeverExpires(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	svc, _ := newTestService(clk)

	stored, err := svc.StoreFact(ctx, "user_name", "Alice", 0.95, "personal")
	require.NoError(t, err)
	assert.Nil(t, stored.ExpirationTime)

	clk.advance(10 * 365 * 24 * time.Hour)

	got, err := svc.RetrieveFact(ctx, "user_name")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alice", got.Value)
}

func TestProcessMessageExtractsSelfIdentification(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	obs := &recordingObserver{}
	svc, _ := newTestService(clk, WithObserver(obs))

	rec, err := svc.ProcessMessage(ctx, "My name is Bob", true, time.Time{})
	require.NoError(t, err)

	assert.InDelta(t, 0.85, rec.Importance, 1e-9)
	assert.Equal(t, []string{"general"}, rec.AllTopics)
	assert.Equal(t, clk.now(), rec.Timestamp)

	fact, err := svc.RetrieveFact(ctx, "user_name")
	require.NoError(t, err)
	require.NotNil(t, fact)
	assert.Equal(t, "Bob", fact.Value)
	assert.Equal(t, 1.0, fact.Importance)
	assert.Nil(t, fact.ExpirationTime)

	require.Len(t, obs.facts, 1)
	assert.Equal(t, "user_name", obs.facts[0].Key)
}

func TestRetrieveFactExpiredReturnsNil(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	svc, _ := newTestService(clk)

	_, err := svc.StoreFact(ctx, "current_project", "mnemo", 0.4, "work")
	require.NoError(t, err)

	clk.advance(8 * 24 * time.Hour)

	// The fact is still cached from the store, but lazy expiry treats it
	// as gone.
	got, err := svc.RetrieveFact(ctx, "current_project")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestConsolidateEvictsExpiredConversations(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	obs := &recordingObserver{}
	svc, colls := newTestService(clk, WithObserver(obs))

	exp := clk.now().Add(24 * time.Hour)
	rec := models.ConversationRecord{
		ID:             "transient-1",
		Message:        "ok",
		Timestamp:      clk.now(),
		Importance:     0.2,
		ExpirationTime: &exp,
		Topic:          "general",
		AllTopics:      []string{"general"},
	}
	require.NoError(t, colls.Conversations.Put(ctx, rec.ID, rec))

	clk.advance(2 * 24 * time.Hour)
	require.NoError(t, svc.Consolidate(ctx))

	remaining, err := colls.Conversations.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	require.Len(t, obs.consolidations, 1)
	assert.Equal(t, clk.now(), obs.consolidations[0])
}

func TestConsolidateSkipsTopicsAndRelationships(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	svc, colls := newTestService(clk)

	_, err := svc.ProcessMessage(ctx, "My friend Alice is visiting tomorrow", true, time.Time{})
	require.NoError(t, err)

	clk.advance(400 * 24 * time.Hour)
	require.NoError(t, svc.Consolidate(ctx))

	convs, err := colls.Conversations.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, convs)

	topics, err := colls.Topics.GetAll(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, topics)

	rel, ok, err := colls.Relationships.Get(ctx, "Alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "friend", rel.Type)
}

func TestOpportunisticConsolidationRidesAlongWithTraffic(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	svc, colls := newTestService(clk)
	require.NoError(t, svc.Start(ctx))

	_, err := svc.StoreFact(ctx, "scratch_note", "ephemeral", 0.2, "misc")
	require.NoError(t, err)

	clk.advance(25 * time.Hour)

	_, err = svc.ProcessMessage(ctx, "the sky is blue", false, time.Time{})
	require.NoError(t, err)

	_, ok, err := colls.Facts.Get(ctx, "scratch_note")
	require.NoError(t, err)
	assert.False(t, ok, "transient fact should have been swept by the piggybacked consolidation")
}

func TestSearchRanksFullMatchesFirst(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	svc, _ := newTestService(clk)

	_, err := svc.StoreFact(ctx, "note_partial", "alpha cliff", 0.5, "notes")
	require.NoError(t, err)
	_, err = svc.StoreFact(ctx, "note_full", "alpha beta", 0.5, "notes")
	require.NoError(t, err)

	results, err := svc.Search(ctx, "alpha beta", []string{store.CollFacts}, 10, 0.1)
	require.NoError(t, err)
	require.Len(t, results.Facts, 2)
	assert.Equal(t, "note_full", results.Facts[0].Key)
	assert.Equal(t, "note_partial", results.Facts[1].Key)
	assert.Empty(t, results.Conversations)
}

func TestSearchWeighsImportance(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	svc, _ := newTestService(clk)

	_, err := svc.StoreFact(ctx, "note_minor", "gamma detail", 0.3, "notes")
	require.NoError(t, err)
	_, err = svc.StoreFact(ctx, "note_major", "gamma headline", 0.9, "notes")
	require.NoError(t, err)

	results, err := svc.Search(ctx, "gamma", nil, 10, 0.1)
	require.NoError(t, err)
	require.Len(t, results.Facts, 2)
	assert.Equal(t, "note_major", results.Facts[0].Key)
}

func TestSearchRespectsLimitAndFloor(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	svc, _ := newTestService(clk)

	_, err := svc.StoreFact(ctx, "delta_one", "delta", 0.6, "notes")
	require.NoError(t, err)
	_, err = svc.StoreFact(ctx, "delta_two", "delta", 0.7, "notes")
	require.NoError(t, err)
	_, err = svc.StoreFact(ctx, "delta_faint", "delta", 0.2, "notes")
	require.NoError(t, err)

	results, err := svc.Search(ctx, "delta", []string{store.CollFacts}, 1, 0.5)
	require.NoError(t, err)
	require.Len(t, results.Facts, 1)
	assert.Equal(t, "delta_two", results.Facts[0].Key)
}

func TestRetrieveContextAssemblesBundle(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	svc, _ := newTestService(clk)

	_, err := svc.ProcessMessage(ctx, "I love going to a great restaurant for dinner", true, time.Time{})
	require.NoError(t, err)

	bundle, err := svc.RetrieveContext(ctx, "any good restaurant for dinner")
	require.NoError(t, err)

	assert.Contains(t, bundle.Topics, "food")
	require.NotEmpty(t, bundle.RecentMessages)
	require.NotEmpty(t, bundle.TopicMessages)
	assert.Equal(t, "food", bundle.TopicMessages[0].Topic)
	require.NotEmpty(t, bundle.RelevantFacts)
}

func TestRetrieveContextSkipsExpiredHistory(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	svc, colls := newTestService(clk)

	exp := clk.now().Add(24 * time.Hour)
	stale := models.ConversationRecord{
		ID:             "stale-1",
		Message:        "old restaurant chat",
		Timestamp:      clk.now(),
		Importance:     0.6,
		ExpirationTime: &exp,
		Topic:          "food",
		AllTopics:      []string{"food"},
	}
	require.NoError(t, colls.Conversations.Put(ctx, stale.ID, stale))

	clk.advance(2 * 24 * time.Hour)

	bundle, err := svc.RetrieveContext(ctx, "restaurant for dinner")
	require.NoError(t, err)
	assert.Empty(t, bundle.RecentMessages)
	assert.Empty(t, bundle.TopicMessages)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	svc, _ := newTestService(clk)

	_, err := svc.StoreFact(ctx, "user_name", "Alice", 0.95, "personal")
	require.NoError(t, err)
	_, err = svc.UpdatePreference(ctx, "ui_theme", "dark", "appearance", 0.6)
	require.NoError(t, err)
	_, err = svc.ProcessMessage(ctx, "My friend Tom recommended a restaurant", true, time.Time{})
	require.NoError(t, err)

	doc, err := svc.Export(ctx)
	require.NoError(t, err)
	require.NotNil(t, doc.Metadata)
	assert.Equal(t, models.SchemaVersion, doc.Metadata.Version)
	assert.Equal(t, clk.now(), doc.Metadata.ExportTime)

	other, otherColls := newTestService(clk)
	require.NoError(t, other.Import(ctx, doc))

	facts, err := otherColls.Facts.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, facts, len(doc.Facts))

	got, err := other.RetrieveFact(ctx, "user_name")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alice", got.Value)

	rel, ok, err := otherColls.Relationships.Get(ctx, "Tom")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "friend", rel.Type)
}

func TestImportRejectsMissingMetadata(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	svc, _ := newTestService(clk)

	assert.ErrorIs(t, svc.Import(ctx, nil), ErrMissingMetadata)
	assert.ErrorIs(t, svc.Import(ctx, &models.ExportDocument{}), ErrMissingMetadata)
}

func TestUpdatePreferenceMergesLikeFacts(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	obs := &recordingObserver{}
	svc, _ := newTestService(clk, WithObserver(obs))

	_, err := svc.UpdatePreference(ctx, "ui_theme", "dark", "appearance", 0.8)
	require.NoError(t, err)
	merged, err := svc.UpdatePreference(ctx, "ui_theme", "light", "", 0.5)
	require.NoError(t, err)

	assert.Equal(t, "light", merged.Value)
	assert.Equal(t, 0.8, merged.Importance)
	assert.Equal(t, "appearance", merged.Category)
	assert.Equal(t, 1, merged.UpdateCount)
	assert.Len(t, obs.prefs, 2)

	got, err := svc.RetrievePreference(ctx, "ui_theme")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "light", got.Value)
}

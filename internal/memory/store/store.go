package store

import (
	"context"

	"Mnemo/internal/models"
)

// Secondary index names. These match the bson field names of the models
// and the Mongo indexes created at collection construction.
const (
	IndexImportance = "importance"
	IndexTimestamp  = "timestamp"
	IndexExpiration = "expiration_time"
	IndexTopic      = "all_topics"
	IndexCategory   = "category"
)

// Collection names of the durable store.
const (
	CollFacts         = "facts"
	CollConversations = "conversations"
	CollTopics        = "topics"
	CollPreferences   = "preferences"
	CollRelationships = "relationships"
)

// ScanOptions bounds an ordered index scan. Min and Max are inclusive;
// setting both to the same value is an equality match (a containment
// match on multikey indexes). A nil bound is open.
type ScanOptions struct {
	Min        interface{}
	Max        interface{}
	Descending bool
	Limit      int64
}

// Collection is a durable, indexed key/value collection. Put is atomic per
// item; there are no transactions across collections. Scan walks an index
// in order via an incremental cursor and calls fn for each item until fn
// returns false or the cursor is exhausted.
type Collection[T any] interface {
	Get(ctx context.Context, key string) (T, bool, error)
	Put(ctx context.Context, key string, item T) error
	Delete(ctx context.Context, key string) error
	GetAll(ctx context.Context) ([]T, error)
	Count(ctx context.Context) (int64, error)
	Scan(ctx context.Context, index string, opts ScanOptions, fn func(item T) (bool, error)) error
}

// Collections groups the five logical collections of the memory store.
type Collections struct {
	Facts         Collection[models.Fact]
	Conversations Collection[models.ConversationRecord]
	Topics        Collection[models.Topic]
	Preferences   Collection[models.Preference]
	Relationships Collection[models.Relationship]
}

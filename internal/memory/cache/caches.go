package cache

import (
	"time"

	"Mnemo/internal/models"

	"github.com/go-redis/redis/v8"
)

// Caches 将五个集合的查找缓存组合在一起。
type Caches struct {
	Facts         Store[models.Fact]
	Conversations Store[models.ConversationRecord]
	Topics        Store[models.Topic]
	Preferences   Store[models.Preference]
	Relationships Store[models.Relationship]
}

// Clear 清空全部五个缓存表。整理扫描和导入完成后会无条件调用。
func (c Caches) Clear() {
	c.Facts.Clear()
	c.Conversations.Clear()
	c.Topics.Clear()
	c.Preferences.Clear()
	c.Relationships.Clear()
}

func factExpiry(f models.Fact) *time.Time                       { return f.ExpirationTime }
func conversationExpiry(r models.ConversationRecord) *time.Time { return r.ExpirationTime }
func preferenceExpiry(p models.Preference) *time.Time           { return p.ExpirationTime }

// 话题和人际关系是持久聚合，没有过期字段。
func topicExpiry(models.Topic) *time.Time               { return nil }
func relationshipExpiry(models.Relationship) *time.Time { return nil }

// NewMemoryCaches 构建默认的进程内缓存。
func NewMemoryCaches(capacity int, now func() time.Time) Caches {
	return Caches{
		Facts:         NewTable(capacity, factExpiry, now),
		Conversations: NewTable(capacity, conversationExpiry, now),
		Topics:        NewTable(capacity, topicExpiry, now),
		Preferences:   NewTable(capacity, preferenceExpiry, now),
		Relationships: NewTable(capacity, relationshipExpiry, now),
	}
}

// NewRedisCaches 构建 Redis 缓存，prefix 用于隔离不同实例的键空间。
func NewRedisCaches(client *redis.Client, prefix string, now func() time.Time) Caches {
	return Caches{
		Facts:         NewRedisTable(client, prefix+":facts", factExpiry, now),
		Conversations: NewRedisTable(client, prefix+":conversations", conversationExpiry, now),
		Topics:        NewRedisTable(client, prefix+":topics", topicExpiry, now),
		Preferences:   NewRedisTable(client, prefix+":preferences", preferenceExpiry, now),
		Relationships: NewRedisTable(client, prefix+":relationships", relationshipExpiry, now),
	}
}

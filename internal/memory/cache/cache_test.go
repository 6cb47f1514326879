package cache

import (
	"fmt"
	"testing"
	"time"

	"Mnemo/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factExpireAt(f models.Fact) *time.Time { return f.ExpirationTime }

func TestTablePutGetDelete(t *testing.T) {
	table := NewTable[models.Fact](0, factExpireAt, nil)

	table.Put("user_name", models.Fact{Key: "user_name", Value: "Alice"})
	got, ok := table.Get("user_name")
	require.True(t, ok)
	assert.Equal(t, "Alice", got.Value)

	table.Delete("user_name")
	_, ok = table.Get("user_name")
	assert.False(t, ok)
	assert.Equal(t, 0, table.Len())
}

func TestTableLazyExpiry(t *testing.T) {
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	table := NewTable[models.Fact](0, factExpireAt, func() time.Time { return clock })

	exp := clock.Add(time.Hour)
	table.Put("short", models.Fact{Key: "short", Value: "v", ExpirationTime: &exp})
	table.Put("forever", models.Fact{Key: "forever", Value: "v"})

	_, ok := table.Get("short")
	assert.True(t, ok)

	clock = clock.Add(2 * time.Hour)

	_, ok = table.Get("short")
	assert.False(t, ok)
	// 惰性淘汰：过期条目在读取时被移除。
	assert.Equal(t, 1, table.Len())

	_, ok = table.Get("forever")
	assert.True(t, ok)
}

func TestTableCapacityEvictsLeastRecentlyUsed(t *testing.T) {
	table := NewTable[models.Fact](2, factExpireAt, nil)

	table.Put("a", models.Fact{Key: "a"})
	table.Put("b", models.Fact{Key: "b"})
	_, ok := table.Get("a")
	require.True(t, ok)

	table.Put("c", models.Fact{Key: "c"})

	_, ok = table.Get("b")
	assert.False(t, ok)
	_, ok = table.Get("a")
	assert.True(t, ok)
	_, ok = table.Get("c")
	assert.True(t, ok)
}

func TestTableClear(t *testing.T) {
	table := NewTable[models.Fact](0, factExpireAt, nil)
	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("k%d", i)
		table.Put(key, models.Fact{Key: key})
	}
	require.Equal(t, 5, table.Len())

	table.Clear()
	assert.Equal(t, 0, table.Len())
	_, ok := table.Get("k0")
	assert.False(t, ok)
}

func TestCachesClear(t *testing.T) {
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	caches := NewMemoryCaches(16, func() time.Time { return clock })

	caches.Facts.Put("user_name", models.Fact{Key: "user_name", Value: "Alice"})
	caches.Topics.Put("food", models.Topic{Name: "food", Frequency: 2})

	caches.Clear()

	_, ok := caches.Facts.Get("user_name")
	assert.False(t, ok)
	_, ok = caches.Topics.Get("food")
	assert.False(t, ok)
}

// Package cache 提供按集合划分的内存查找缓存。
// 过期检查是惰性的：只有在读取时才检查条目是否过期，过期条目在被发现的
// 那一刻被逐出并视为未命中。
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Store 是每个集合的查找缓存接口。
type Store[T any] interface {
	Get(key string) (T, bool)
	Put(key string, item T)
	Delete(key string)
	Clear()
	Len() int
}

// entry 结构体用于存储链表节点中的实际数据。
type entry[T any] struct {
	key  string
	item T
}

// Table 是一个支持泛型、线程安全的 LRU 查找表。与统一 TTL 不同，
// 每个条目的过期时刻来自条目本身 (expireAt 投影)，因此缓存永远不会
// 返回一个逻辑上已过期的条目。
type Table[T any] struct {
	capacity int
	expireAt func(item T) *time.Time
	now      func() time.Time
	ll       *list.List
	cache    map[string]*list.Element
	lock     sync.RWMutex // 读写锁保证并发安全
}

// NewTable 创建一个缓存表。capacity <= 0 表示不限制数量。
// expireAt 从条目中投影出过期时刻，返回 nil 表示永不过期。
func NewTable[T any](capacity int, expireAt func(item T) *time.Time, now func() time.Time) *Table[T] {
	if now == nil {
		now = time.Now
	}
	return &Table[T]{
		capacity: capacity,
		expireAt: expireAt,
		now:      now,
		ll:       list.New(),
		cache:    make(map[string]*list.Element),
	}
}

// Get 方法根据键获取一个值。
// 如果缓存的条目已经过期，该条目被立即删除并按未命中处理。
func (c *Table[T]) Get(key string) (T, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	element, ok := c.cache[key]
	if !ok {
		var zero T
		return zero, false
	}

	// 检查条目自身的过期时刻（被动淘汰）
	e := element.Value.(*entry[T])
	if exp := c.expireAt(e.item); exp != nil && !exp.After(c.now()) {
		c.removeElement(element)
		var zero T
		return zero, false
	}

	// 标记为最近使用
	c.ll.MoveToFront(element)
	return e.item, true
}

// Put 方法向缓存中添加或更新一个键值对。
func (c *Table[T]) Put(key string, item T) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if element, ok := c.cache[key]; ok {
		element.Value.(*entry[T]).item = item
		c.ll.MoveToFront(element)
		return
	}

	element := c.ll.PushFront(&entry[T]{key: key, item: item})
	c.cache[key] = element

	// 检查是否需要淘汰最久未使用的元素
	for c.capacity > 0 && c.ll.Len() > c.capacity {
		if back := c.ll.Back(); back != nil {
			c.removeElement(back)
		}
	}
}

// Delete 从缓存中移除一个键。
func (c *Table[T]) Delete(key string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if element, ok := c.cache[key]; ok {
		c.removeElement(element)
	}
}

// Clear 清空整个缓存表。
func (c *Table[T]) Clear() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.ll.Init()
	c.cache = make(map[string]*list.Element)
}

// Len 返回当前缓存的条目数量。
func (c *Table[T]) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.ll.Len()
}

// removeElement 从链表和映射中移除一个元素。
// 此方法假设已持有锁。
func (c *Table[T]) removeElement(element *list.Element) {
	c.ll.Remove(element)
	delete(c.cache, element.Value.(*entry[T]).key)
}

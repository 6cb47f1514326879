package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"Mnemo/internal/models"
)

// MemCollection is an in-process Collection used when embedding the
// engine without a database and throughout the tests. It mirrors the
// Mongo implementation's scan semantics: inclusive bounds, multikey
// containment on equality, nil index values excluded from bounded scans.
type MemCollection[T any] struct {
	mu     sync.RWMutex
	items  map[string]T
	fields func(item T, index string) interface{}
}

// NewMemCollection builds an in-memory collection. fields projects an
// item onto a named index and returns nil when the item has no value for
// it.
func NewMemCollection[T any](fields func(item T, index string) interface{}) *MemCollection[T] {
	return &MemCollection[T]{
		items:  make(map[string]T),
		fields: fields,
	}
}

func (c *MemCollection[T]) Get(ctx context.Context, key string) (T, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[key]
	return item, ok, nil
}

func (c *MemCollection[T]) Put(ctx context.Context, key string, item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item
	return nil
}

func (c *MemCollection[T]) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *MemCollection[T]) GetAll(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	all := make([]T, 0, len(c.items))
	for _, item := range c.items {
		all = append(all, item)
	}
	return all, nil
}

func (c *MemCollection[T]) Count(ctx context.Context) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int64(len(c.items)), nil
}

// Scan sorts a snapshot of the collection by the index value and walks it
// in order, applying the same bound rules as the Mongo scan.
func (c *MemCollection[T]) Scan(ctx context.Context, index string, opts ScanOptions, fn func(item T) (bool, error)) error {
	type entry struct {
		item  T
		value interface{}
	}

	bounded := opts.Min != nil || opts.Max != nil
	equality := opts.Min != nil && opts.Min == opts.Max

	c.mu.RLock()
	matched := make([]entry, 0, len(c.items))
	for _, item := range c.items {
		v := c.fields(item, index)
		if bounded {
			if v == nil {
				continue
			}
			if keys, ok := v.([]string); ok {
				// Multikey index: equality means containment.
				if !equality || !containsString(keys, opts.Min) {
					continue
				}
			} else {
				if opts.Min != nil && compareIndexValues(v, opts.Min) < 0 {
					continue
				}
				if opts.Max != nil && compareIndexValues(v, opts.Max) > 0 {
					continue
				}
			}
		}
		matched = append(matched, entry{item: item, value: v})
	}
	c.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		cmp := compareIndexValues(matched[i].value, matched[j].value)
		if opts.Descending {
			return cmp > 0
		}
		return cmp < 0
	})

	var seen int64
	for _, e := range matched {
		if opts.Limit > 0 && seen >= opts.Limit {
			return nil
		}
		seen++
		cont, err := fn(e.item)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}

func containsString(keys []string, want interface{}) bool {
	s, ok := want.(string)
	if !ok {
		return false
	}
	for _, k := range keys {
		if k == s {
			return true
		}
	}
	return false
}

// compareIndexValues orders the index value types the models use. Items
// without a value for the index (nil) sort after everything else.
func compareIndexValues(a, b interface{}) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return 1
		default:
			return -1
		}
	}
	switch av := a.(type) {
	case time.Time:
		bv := b.(time.Time)
		switch {
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		}
		return 0
	case float64:
		bv := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case int:
		bv := b.(int)
		return av - bv
	case string:
		return strings.Compare(av, b.(string))
	}
	return 0
}

// NewMemCollections builds the five memory collections in process, with
// the same index surface as the Mongo layout.
func NewMemCollections() Collections {
	return Collections{
		Facts: NewMemCollection(func(f models.Fact, index string) interface{} {
			switch index {
			case IndexImportance:
				return f.Importance
			case IndexTimestamp:
				return f.Timestamp
			case IndexExpiration:
				if f.ExpirationTime == nil {
					return nil
				}
				return *f.ExpirationTime
			case IndexCategory:
				return f.Category
			}
			return nil
		}),
		Conversations: NewMemCollection(func(r models.ConversationRecord, index string) interface{} {
			switch index {
			case IndexImportance:
				return r.Importance
			case IndexTimestamp:
				return r.Timestamp
			case IndexExpiration:
				if r.ExpirationTime == nil {
					return nil
				}
				return *r.ExpirationTime
			case IndexTopic:
				return r.AllTopics
			}
			return nil
		}),
		Topics: NewMemCollection(func(t models.Topic, index string) interface{} {
			switch index {
			case IndexImportance:
				return t.Importance
			case "last_discussed":
				return t.LastDiscussed
			}
			return nil
		}),
		Preferences: NewMemCollection(func(p models.Preference, index string) interface{} {
			switch index {
			case IndexImportance:
				return p.Importance
			case IndexTimestamp:
				return p.Timestamp
			case IndexExpiration:
				if p.ExpirationTime == nil {
					return nil
				}
				return *p.ExpirationTime
			case IndexCategory:
				return p.Category
			}
			return nil
		}),
		Relationships: NewMemCollection(func(r models.Relationship, index string) interface{} {
			switch index {
			case IndexImportance:
				return r.Importance
			case "last_mentioned":
				return r.LastMentioned
			}
			return nil
		}),
	}
}

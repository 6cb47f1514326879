package store

import (
	"context"
	"fmt"

	"Mnemo/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollection is a Collection backed by a MongoDB collection. The
// natural key is stored as _id; secondary indexes are created once at
// construction.
type MongoCollection[T any] struct {
	coll *mongo.Collection
}

// NewMongoCollection creates the collection handle and ensures its
// secondary indexes exist.
func NewMongoCollection[T any](ctx context.Context, db *mongo.Database, name string, indexes []string) (*MongoCollection[T], error) {
	coll := db.Collection(name)
	if len(indexes) > 0 {
		idxModels := make([]mongo.IndexModel, 0, len(indexes))
		for _, field := range indexes {
			idxModels = append(idxModels, mongo.IndexModel{
				Keys: bson.D{{Key: field, Value: 1}},
			})
		}
		if _, err := coll.Indexes().CreateMany(ctx, idxModels); err != nil {
			return nil, fmt.Errorf("failed to create indexes for collection %s: %w", name, err)
		}
	}
	return &MongoCollection[T]{coll: coll}, nil
}

// Get retrieves an item by its natural key.
func (c *MongoCollection[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var item T
	err := c.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return item, false, nil
		}
		return item, false, err
	}
	return item, true, nil
}

// Put upserts an item under its natural key. A single put either fully
// succeeds or fails.
func (c *MongoCollection[T]) Put(ctx context.Context, key string, item T) error {
	opts := options.Replace().SetUpsert(true)
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": key}, item, opts)
	return err
}

// Delete removes an item by its natural key. Deleting a missing key is
// not an error.
func (c *MongoCollection[T]) Delete(ctx context.Context, key string) error {
	_, err := c.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

// GetAll returns every item in the collection.
func (c *MongoCollection[T]) GetAll(ctx context.Context) ([]T, error) {
	cursor, err := c.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []T{}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Count returns the number of items in the collection.
func (c *MongoCollection[T]) Count(ctx context.Context) (int64, error) {
	return c.coll.CountDocuments(ctx, bson.M{})
}

// Scan walks one secondary index in order, calling fn per item until fn
// returns false. Range bounds are inclusive; BSON type bracketing keeps
// null index values (e.g. items that never expire) out of bounded scans.
func (c *MongoCollection[T]) Scan(ctx context.Context, index string, opts ScanOptions, fn func(item T) (bool, error)) error {
	filter := bson.M{}
	if opts.Min != nil && opts.Min == opts.Max {
		// Equality scan; a plain match also covers multikey containment.
		filter[index] = opts.Min
	} else if opts.Min != nil || opts.Max != nil {
		cond := bson.M{}
		if opts.Min != nil {
			cond["$gte"] = opts.Min
		}
		if opts.Max != nil {
			cond["$lte"] = opts.Max
		}
		filter[index] = cond
	}

	dir := 1
	if opts.Descending {
		dir = -1
	}
	findOpts := options.Find().SetSort(bson.D{{Key: index, Value: dir}})
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := c.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return err
		}
		cont, err := fn(item)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return cursor.Err()
}

// NewMongoCollections opens the five memory collections on db and ensures
// the secondary indexes enumerated by the storage layout: importance,
// timestamp, and expiration everywhere they apply, plus topic and
// category where lookups need them.
func NewMongoCollections(ctx context.Context, db *mongo.Database) (store Collections, err error) {
	store.Facts, err = NewMongoCollection[models.Fact](ctx, db, CollFacts,
		[]string{IndexImportance, IndexTimestamp, IndexExpiration, IndexCategory})
	if err != nil {
		return store, err
	}
	store.Conversations, err = NewMongoCollection[models.ConversationRecord](ctx, db, CollConversations,
		[]string{IndexImportance, IndexTimestamp, IndexExpiration, IndexTopic})
	if err != nil {
		return store, err
	}
	store.Topics, err = NewMongoCollection[models.Topic](ctx, db, CollTopics,
		[]string{IndexImportance, "last_discussed"})
	if err != nil {
		return store, err
	}
	store.Preferences, err = NewMongoCollection[models.Preference](ctx, db, CollPreferences,
		[]string{IndexImportance, IndexTimestamp, IndexExpiration, IndexCategory})
	if err != nil {
		return store, err
	}
	store.Relationships, err = NewMongoCollection[models.Relationship](ctx, db, CollRelationships,
		[]string{IndexImportance, "last_mentioned"})
	return store, err
}

// Package database provides the DataManager for cached database operations.
package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DataManagerOptions contains configuration for a DataManager
type DataManagerOptions struct {
	// MaxCacheSize of 0 disables the cache
	MaxCacheSize int
	CacheTTL     time.Duration
}

// DefaultDataManagerOptions returns default options for DataManager
func DefaultDataManagerOptions() DataManagerOptions {
	return DataManagerOptions{
		MaxCacheSize: 1000,
		CacheTTL:     10 * time.Minute,
	}
}

// DataManager provides cached access to a MongoDB collection. The collection
// is resolved on every call so managers survive reconnects.
type DataManager[T any] struct {
	name       string
	dbInstance *Database
	options    DataManagerOptions
	cache      *Cache[string, *T]
}

// NewDataManager creates a new DataManager for a collection
func NewDataManager[T any](collectionName string, db *Database, opts ...DataManagerOptions) *DataManager[T] {
	dmOptions := DefaultDataManagerOptions()
	if len(opts) > 0 {
		dmOptions = opts[0]
	}

	dm := &DataManager[T]{
		name:       collectionName,
		dbInstance: db,
		options:    dmOptions,
	}
	if dmOptions.MaxCacheSize > 0 {
		dm.cache = NewCache[string, *T](dmOptions.MaxCacheSize, dmOptions.CacheTTL)
	}
	return dm
}

// Name returns the collection name
func (dm *DataManager[T]) Name() string {
	return dm.name
}

func (dm *DataManager[T]) collection() *mongo.Collection {
	if !dm.dbInstance.Connected() {
		return nil
	}
	return dm.dbInstance.GetCollection(dm.name)
}

// generateCacheKey creates a unique, deterministic key from a query
// It sorts the keys to ensure consistent ordering regardless of map iteration order
func (dm *DataManager[T]) generateCacheKey(query bson.M) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, query[k]))
	}

	return fmt.Sprintf("%s:{%s}", dm.name, strings.Join(parts, ","))
}

func (dm *DataManager[T]) cached(key string) (*T, bool) {
	if dm.cache == nil {
		return nil, false
	}
	return dm.cache.Get(key)
}

func (dm *DataManager[T]) remember(key string, value *T) {
	if dm.cache != nil && value != nil {
		dm.cache.Set(key, value)
	}
}

func (dm *DataManager[T]) forget(key string) {
	if dm.cache != nil {
		dm.cache.Delete(key)
	}
}

// Get retrieves a document from cache or database. A missing document
// returns (nil, nil).
func (dm *DataManager[T]) Get(ctx context.Context, query bson.M) (*T, error) {
	cacheKey := dm.generateCacheKey(query)
	if v, ok := dm.cached(cacheKey); ok {
		return v, nil
	}

	col := dm.collection()
	if col == nil {
		if dm.cache != nil {
			if stale, _, ok := dm.cache.GetStale(cacheKey); ok {
				return stale, nil
			}
		}
		return nil, ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result T
	err := col.FindOne(ctx, query).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		logger.Warn(fmt.Sprintf("Fallo al leer de la DB (%s): %v", dm.name, err), "DataManager")
		if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
			dm.dbInstance.MarkDisconnected()
		}
		return nil, err
	}

	dm.remember(cacheKey, &result)
	return &result, nil
}

// Find retrieves all documents matching a filter from the database
func (dm *DataManager[T]) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*T, error) {
	col := dm.collection()
	if col == nil {
		return nil, ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var results []*T
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			logger.Warn(fmt.Sprintf("Documento inválido en '%s': %v", dm.name, err), "DataManager")
			continue
		}
		results = append(results, &doc)
	}

	return results, cursor.Err()
}

// Aggregate runs a pipeline and decodes every result into out
func (dm *DataManager[T]) Aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	col := dm.collection()
	if col == nil {
		return ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

// Count returns the number of documents matching a filter
func (dm *DataManager[T]) Count(ctx context.Context, filter bson.M) (int64, error) {
	col := dm.collection()
	if col == nil {
		return 0, ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return col.CountDocuments(ctx, filter)
}

// Set updates or inserts a document with $set. While offline the write is
// queued and (nil, nil) is returned.
func (dm *DataManager[T]) Set(ctx context.Context, query bson.M, data interface{}) (*T, error) {
	return dm.write(ctx, query, bson.M{"$set": data}, OpSet, data, options.After)
}

// Update applies a raw update document with upsert and returns the new document
func (dm *DataManager[T]) Update(ctx context.Context, query bson.M, update bson.M) (*T, error) {
	return dm.write(ctx, query, update, OpUpdate, update, options.After)
}

// Swap applies an update and returns the document as it was before. A
// missing document returns (nil, nil) and nothing is created.
func (dm *DataManager[T]) Swap(ctx context.Context, query bson.M, update bson.M) (*T, error) {
	col := dm.collection()
	if col == nil {
		return nil, ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	var previous T
	err := col.FindOneAndUpdate(ctx, query, update, opts).Decode(&previous)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	dm.forget(dm.generateCacheKey(query))
	return &previous, nil
}

func (dm *DataManager[T]) write(ctx context.Context, query, update bson.M, op Operation, queued interface{}, ret options.ReturnDocument) (*T, error) {
	cacheKey := dm.generateCacheKey(query)

	col := dm.collection()
	if col == nil {
		logger.Warn(fmt.Sprintf("DB offline. Encolando escritura para '%s'", dm.name), "DataManager")
		dm.forget(cacheKey)
		dm.dbInstance.AddToWriteQueue(QueuedOperation{
			CollectionName: dm.name,
			Query:          query,
			Operation:      op,
			Data:           queued,
		})
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(ret)

	var result T
	err := col.FindOneAndUpdate(ctx, query, update, opts).Decode(&result)
	if err != nil {
		logger.Error(fmt.Sprintf("Error en '%s' con DB conectada: %v", op, err), "DataManager")
		dm.forget(cacheKey)
		return nil, err
	}

	dm.remember(cacheKey, &result)
	return &result, nil
}

// Insert adds a new document. While offline the insert is queued.
func (dm *DataManager[T]) Insert(ctx context.Context, doc *T) (interface{}, error) {
	col := dm.collection()
	if col == nil {
		logger.Warn(fmt.Sprintf("DB offline. Encolando inserción para '%s'", dm.name), "DataManager")
		dm.dbInstance.AddToWriteQueue(QueuedOperation{
			CollectionName: dm.name,
			Operation:      OpInsert,
			Data:           doc,
		})
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := col.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	return res.InsertedID, nil
}

// Delete removes a document from the database and cache. It reports whether
// a document was removed; offline deletes are queued and report false.
func (dm *DataManager[T]) Delete(ctx context.Context, query bson.M) (bool, error) {
	dm.forget(dm.generateCacheKey(query))

	col := dm.collection()
	if col == nil {
		logger.Warn(fmt.Sprintf("DB offline. Encolando eliminación para '%s'", dm.name), "DataManager")
		dm.dbInstance.AddToWriteQueue(QueuedOperation{
			CollectionName: dm.name,
			Query:          query,
			Operation:      OpDelete,
		})
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := col.DeleteOne(ctx, query)
	if err != nil {
		logger.Error(fmt.Sprintf("Error en 'delete' con DB conectada: %v", err), "DataManager")
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// DeleteMany removes every document matching the filter
func (dm *DataManager[T]) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	col := dm.collection()
	if col == nil {
		return 0, ErrNotConnected
	}
	if dm.cache != nil {
		dm.cache.Purge()
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Invalidate drops the cached document for a query
func (dm *DataManager[T]) Invalidate(query bson.M) {
	dm.forget(dm.generateCacheKey(query))
}

// CacheSize returns the current cache size
func (dm *DataManager[T]) CacheSize() int {
	if dm.cache == nil {
		return 0
	}
	return dm.cache.Len()
}

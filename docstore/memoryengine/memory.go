package memoryengine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/seriescatalog/catalog-reports/docstore"
	"github.com/seriescatalog/catalog-reports/docstore/internal/relational"
)

// DocumentStore keeps collections in process memory.
type DocumentStore struct {
	mu               sync.RWMutex
	collections      map[string]docstore.Documents
	logger           docstore.Logger
	metricsCollector docstore.MetricsCollector
}

// NewDocumentStore creates an empty DocumentStore.
func NewDocumentStore(options ...Option) (*DocumentStore, error) {
	ds := &DocumentStore{
		collections: make(map[string]docstore.Documents),
	}

	for _, option := range options {
		if err := option(ds); err != nil {
			return nil, err
		}
	}

	return ds, nil
}

// DropCollection removes the collection. Dropping a missing collection is not an error.
func (ds *DocumentStore) DropCollection(ctx context.Context, name string) error {
	if err := docstore.ValidateCollectionName(name); err != nil {
		return errors.Join(docstore.ErrDroppingCollectionFailed, err)
	}

	if err := ctx.Err(); err != nil {
		return errors.Join(docstore.ErrDroppingCollectionFailed, err)
	}

	start := time.Now()

	ds.mu.Lock()
	delete(ds.collections, name)
	ds.mu.Unlock()

	ds.recordOperation(docstore.OperationDrop, name, time.Since(start), nil)
	ds.logOperation(docstore.OperationDrop, logAttrCollection, name)

	return nil
}

// InsertMany appends copies of the documents to the collection, assigning an identifier where missing.
func (ds *DocumentStore) InsertMany(ctx context.Context, collection string, docs docstore.Documents) (int, error) {
	if err := docstore.ValidateCollectionName(collection); err != nil {
		return 0, errors.Join(docstore.ErrInsertingDocumentsFailed, err)
	}

	if err := ctx.Err(); err != nil {
		ds.logError(docstore.OperationInsert, err, logAttrCollection, collection)
		ds.recordOperation(docstore.OperationInsert, collection, 0, err)
		return 0, errors.Join(docstore.ErrInsertingDocumentsFailed, err)
	}

	start := time.Now()

	stored := make(docstore.Documents, 0, len(docs))
	for _, doc := range docs {
		stored = append(stored, docstore.EnsureID(doc.Clone()))
	}

	ds.mu.Lock()
	ds.collections[collection] = append(ds.collections[collection], stored...)
	ds.mu.Unlock()

	duration := time.Since(start)
	ds.recordOperation(docstore.OperationInsert, collection, duration, nil)
	ds.recordDocumentCount(docstore.MetricDocumentsInserted, docstore.OperationInsert, collection, len(stored))
	ds.logOperation(
		docstore.OperationInsert,
		logAttrCollection, collection,
		logAttrDocumentCount, len(stored),
		logAttrDurationMS, toMilliseconds(duration),
	)

	return len(stored), nil
}

// Find returns copies of the matching documents in insertion order.
func (ds *DocumentStore) Find(
	ctx context.Context,
	collection string,
	filter docstore.Filter,
) (docstore.Documents, error) {

	if err := docstore.ValidateCollectionName(collection); err != nil {
		return nil, errors.Join(docstore.ErrQueryingDocumentsFailed, err)
	}

	if err := ctx.Err(); err != nil {
		ds.logError(docstore.OperationFind, err, logAttrCollection, collection)
		ds.recordOperation(docstore.OperationFind, collection, 0, err)
		return nil, errors.Join(docstore.ErrQueryingDocumentsFailed, err)
	}

	start := time.Now()

	found := docstore.CloneDocuments(relational.Filter(ds.snapshot(collection), filter))

	duration := time.Since(start)
	ds.recordOperation(docstore.OperationFind, collection, duration, nil)
	ds.recordDocumentCount(docstore.MetricDocumentsReturned, docstore.OperationFind, collection, len(found))
	ds.logOperation(
		docstore.OperationFind,
		logAttrCollection, collection,
		logAttrDocumentCount, len(found),
		logAttrDurationMS, toMilliseconds(duration),
	)

	return found, nil
}

// Aggregate evaluates the pipeline over the collection.
func (ds *DocumentStore) Aggregate(
	ctx context.Context,
	collection string,
	pipeline docstore.Pipeline,
) (docstore.Documents, error) {

	if err := docstore.ValidateCollectionName(collection); err != nil {
		return nil, errors.Join(docstore.ErrQueryingDocumentsFailed, err)
	}

	start := time.Now()

	result, err := relational.Run(ctx, ds.snapshot(collection), pipeline, ds.loadCollection)
	duration := time.Since(start)
	ds.recordOperation(docstore.OperationAggregate, collection, duration, err)

	if err != nil {
		ds.logError(docstore.OperationAggregate, err, logAttrCollection, collection)

		if errors.Is(err, docstore.ErrInvalidPipeline) {
			return nil, err
		}

		return nil, errors.Join(docstore.ErrQueryingDocumentsFailed, err)
	}

	ds.recordDocumentCount(docstore.MetricDocumentsReturned, docstore.OperationAggregate, collection, len(result))
	ds.logOperation(
		docstore.OperationAggregate,
		logAttrCollection, collection,
		logAttrStageCount, len(pipeline),
		logAttrDocumentCount, len(result),
		logAttrDurationMS, toMilliseconds(duration),
	)

	return result, nil
}

func (ds *DocumentStore) loadCollection(_ context.Context, collection string) (docstore.Documents, error) {
	return ds.snapshot(collection), nil
}

// snapshot returns the current document slice of the collection.
// Stored documents are never modified in place, so sharing them with readers is safe.
func (ds *DocumentStore) snapshot(collection string) docstore.Documents {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	docs := ds.collections[collection]

	return docs[:len(docs):len(docs)]
}

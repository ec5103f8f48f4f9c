package mongoengine

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/seriescatalog/catalog-reports/docstore"
)

// DocumentStore stores collections in a MongoDB database.
type DocumentStore struct {
	db               *mongo.Database
	logger           docstore.Logger
	metricsCollector docstore.MetricsCollector
}

// NewDocumentStore creates a DocumentStore working on the given database.
func NewDocumentStore(db *mongo.Database, options ...Option) (*DocumentStore, error) {
	if db == nil {
		return nil, docstore.ErrNilDatabaseConnection
	}

	ds := &DocumentStore{db: db}

	for _, option := range options {
		if err := option(ds); err != nil {
			return nil, err
		}
	}

	return ds, nil
}

// DropCollection drops the collection. The server treats dropping a missing collection as success.
func (ds *DocumentStore) DropCollection(ctx context.Context, name string) error {
	if err := docstore.ValidateCollectionName(name); err != nil {
		return errors.Join(docstore.ErrDroppingCollectionFailed, err)
	}

	start := time.Now()
	err := ds.db.Collection(name).Drop(ctx)
	duration := time.Since(start)
	ds.recordOperation(docstore.OperationDrop, name, duration, err)

	if err != nil {
		ds.logError(docstore.OperationDrop, err, logAttrCollection, name)
		return errors.Join(docstore.ErrDroppingCollectionFailed, err)
	}

	ds.logOperation(docstore.OperationDrop, logAttrCollection, name, logAttrDurationMS, toMilliseconds(duration))

	return nil
}

// InsertMany inserts the documents in order, assigning an ObjectID where the identifier is missing.
func (ds *DocumentStore) InsertMany(ctx context.Context, collection string, docs docstore.Documents) (int, error) {
	if err := docstore.ValidateCollectionName(collection); err != nil {
		return 0, errors.Join(docstore.ErrInsertingDocumentsFailed, err)
	}

	if len(docs) == 0 {
		return 0, nil
	}

	payload := make([]any, len(docs))
	for i, doc := range docs {
		payload[i] = DocumentToBSON(docstore.EnsureID(doc))
	}

	start := time.Now()
	result, err := ds.db.Collection(collection).InsertMany(ctx, payload)
	duration := time.Since(start)
	ds.recordOperation(docstore.OperationInsert, collection, duration, err)

	if err != nil {
		ds.logError(docstore.OperationInsert, err, logAttrCollection, collection)
		return 0, errors.Join(docstore.ErrInsertingDocumentsFailed, err)
	}

	inserted := len(result.InsertedIDs)
	ds.recordDocumentCount(docstore.MetricDocumentsInserted, docstore.OperationInsert, collection, inserted)
	ds.logOperation(
		docstore.OperationInsert,
		logAttrCollection, collection,
		logAttrDocumentCount, inserted,
		logAttrDurationMS, toMilliseconds(duration),
	)

	return inserted, nil
}

// Find runs the translated filter and returns the matching documents in natural order.
func (ds *DocumentStore) Find(
	ctx context.Context,
	collection string,
	filter docstore.Filter,
) (docstore.Documents, error) {

	if err := docstore.ValidateCollectionName(collection); err != nil {
		return nil, errors.Join(docstore.ErrQueryingDocumentsFailed, err)
	}

	query, err := FilterToBSON(filter)
	if err != nil {
		return nil, errors.Join(docstore.ErrBuildingQueryFailed, err)
	}

	start := time.Now()
	docs, err := ds.collect(ctx, func() (*mongo.Cursor, error) {
		return ds.db.Collection(collection).Find(ctx, query)
	})
	duration := time.Since(start)
	ds.recordOperation(docstore.OperationFind, collection, duration, err)

	if err != nil {
		ds.logError(docstore.OperationFind, err, logAttrCollection, collection)
		return nil, err
	}

	ds.logCommandWithDuration(docstore.OperationFind, query, duration)
	ds.recordDocumentCount(docstore.MetricDocumentsReturned, docstore.OperationFind, collection, len(docs))
	ds.logOperation(
		docstore.OperationFind,
		logAttrCollection, collection,
		logAttrDocumentCount, len(docs),
		logAttrDurationMS, toMilliseconds(duration),
	)

	return docs, nil
}

// Aggregate runs the translated pipeline on the server.
func (ds *DocumentStore) Aggregate(
	ctx context.Context,
	collection string,
	pipeline docstore.Pipeline,
) (docstore.Documents, error) {

	if err := docstore.ValidateCollectionName(collection); err != nil {
		return nil, errors.Join(docstore.ErrQueryingDocumentsFailed, err)
	}

	stages, err := PipelineToBSON(pipeline)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	docs, err := ds.collect(ctx, func() (*mongo.Cursor, error) {
		return ds.db.Collection(collection).Aggregate(ctx, stages)
	})
	duration := time.Since(start)
	ds.recordOperation(docstore.OperationAggregate, collection, duration, err)

	if err != nil {
		ds.logError(docstore.OperationAggregate, err, logAttrCollection, collection)
		return nil, err
	}

	ds.logCommandWithDuration(docstore.OperationAggregate, stages, duration)
	ds.recordDocumentCount(docstore.MetricDocumentsReturned, docstore.OperationAggregate, collection, len(docs))
	ds.logOperation(
		docstore.OperationAggregate,
		logAttrCollection, collection,
		logAttrStageCount, len(stages),
		logAttrDocumentCount, len(docs),
		logAttrDurationMS, toMilliseconds(duration),
	)

	return docs, nil
}

// collect opens a cursor and decodes all of its documents.
func (ds *DocumentStore) collect(ctx context.Context, open func() (*mongo.Cursor, error)) (docstore.Documents, error) {
	cursor, err := open()
	if err != nil {
		return nil, errors.Join(docstore.ErrQueryingDocumentsFailed, err)
	}

	defer func() {
		if closeErr := cursor.Close(ctx); closeErr != nil {
			ds.logWarning(logMsgCursorClose, closeErr)
		}
	}()

	docs := make(docstore.Documents, 0)
	for cursor.Next(ctx) {
		var raw bson.D
		if err = cursor.Decode(&raw); err != nil {
			return nil, errors.Join(docstore.ErrDecodingDocumentFailed, err)
		}
		docs = append(docs, DocumentFromBSON(raw))
	}

	if err = cursor.Err(); err != nil {
		return nil, errors.Join(docstore.ErrQueryingDocumentsFailed, err)
	}

	return docs, nil
}

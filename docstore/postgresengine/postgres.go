package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/seriescatalog/catalog-reports/docstore"
	"github.com/seriescatalog/catalog-reports/docstore/internal/relational"
	"github.com/seriescatalog/catalog-reports/docstore/postgresengine/internal/adapters"
)

const (
	engineName = "postgres"

	codeUndefinedTable = "42P01"

	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgBuildInsertQueryFailed = "failed to build insert query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgDBExecFailed           = "database execution failed"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgDecodeDocumentFailed   = "failed to decode document from database row"
	logMsgEncodeDocumentFailed   = "failed to encode document for insert"
	logMsgPipelineFailed         = "aggregation pipeline evaluation failed"
	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperation              = "docstore operation: "
	logAttrError                 = "error"
	logAttrQuery                 = "query"
	logAttrCollection            = "collection"
	logAttrDocumentCount         = "document_count"
	logAttrStageCount            = "stage_count"
	logAttrPushedDown            = "match_pushed_down"
	logAttrDurationMS            = "duration_ms"
	logActionCreateTable         = "create table"
	logActionDropTable           = "drop table"
)

var ErrEmptyTablePrefix = errors.New("empty table prefix supplied")

// DocumentStore stores each collection in its own PostgreSQL table.
type DocumentStore struct {
	db               adapters.DBAdapter
	tablePrefix      string
	logger           docstore.Logger
	metricsCollector docstore.MetricsCollector

	mu          sync.Mutex
	knownTables map[string]struct{}
}

// NewDocumentStoreFromPGXPool creates a new DocumentStore using a pgx Pool with optional configuration.
func NewDocumentStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*DocumentStore, error) {
	if db == nil {
		return nil, docstore.ErrNilDatabaseConnection
	}

	return newDocumentStore(adapters.NewPGXAdapter(db), options...)
}

// NewDocumentStoreFromSQLDB creates a new DocumentStore using a sql.DB with optional configuration.
func NewDocumentStoreFromSQLDB(db *sql.DB, options ...Option) (*DocumentStore, error) {
	if db == nil {
		return nil, docstore.ErrNilDatabaseConnection
	}

	return newDocumentStore(adapters.NewSQLAdapter(db), options...)
}

// NewDocumentStoreFromSQLX creates a new DocumentStore using a sqlx.DB with optional configuration.
func NewDocumentStoreFromSQLX(db *sqlx.DB, options ...Option) (*DocumentStore, error) {
	if db == nil {
		return nil, docstore.ErrNilDatabaseConnection
	}

	return newDocumentStore(adapters.NewSQLXAdapter(db), options...)
}

func newDocumentStore(db adapters.DBAdapter, options ...Option) (*DocumentStore, error) {
	ds := &DocumentStore{
		db:          db,
		knownTables: make(map[string]struct{}),
	}

	for _, option := range options {
		if err := option(ds); err != nil {
			return nil, err
		}
	}

	return ds, nil
}

// Ping checks that the database is reachable.
func (ds *DocumentStore) Ping(ctx context.Context) error {
	if err := ds.db.Ping(ctx); err != nil {
		return errors.Join(docstore.ErrConnectionFailed, err)
	}

	return nil
}

// DropCollection drops the collection's table if it exists.
func (ds *DocumentStore) DropCollection(ctx context.Context, name string) error {
	if err := docstore.ValidateCollectionName(name); err != nil {
		return errors.Join(docstore.ErrDroppingCollectionFailed, err)
	}

	table := ds.tableName(name)
	sqlQuery := buildDropTableQuery(table)

	start := time.Now()
	_, execErr := ds.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	ds.logQueryWithDuration(sqlQuery, logActionDropTable, duration)
	ds.recordOperation(docstore.OperationDrop, name, duration, execErr)

	if execErr != nil {
		ds.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return errors.Join(docstore.ErrDroppingCollectionFailed, execErr)
	}

	ds.mu.Lock()
	delete(ds.knownTables, table)
	ds.mu.Unlock()

	ds.logOperation(docstore.OperationDrop, logAttrCollection, name, logAttrDurationMS, toMilliseconds(duration))

	return nil
}

// InsertMany inserts all documents with one statement, creating the table on first use.
func (ds *DocumentStore) InsertMany(ctx context.Context, collection string, docs docstore.Documents) (int, error) {
	if err := docstore.ValidateCollectionName(collection); err != nil {
		return 0, errors.Join(docstore.ErrInsertingDocumentsFailed, err)
	}

	if len(docs) == 0 {
		return 0, nil
	}

	table := ds.tableName(collection)

	rows := make([]insertRow, 0, len(docs))
	for _, doc := range docs {
		withID := docstore.EnsureID(doc)
		id, _ := withID.ID()

		docID, ok := identifierText(id)
		if !ok {
			err := errors.New("identifier has no text form")
			ds.logError(logMsgEncodeDocumentFailed, err, logAttrCollection, collection)
			return 0, errors.Join(docstore.ErrInsertingDocumentsFailed, docstore.ErrEncodingDocumentFailed, err)
		}

		encoded, err := encodeDocument(withID)
		if err != nil {
			ds.logError(logMsgEncodeDocumentFailed, err, logAttrCollection, collection)
			return 0, errors.Join(docstore.ErrInsertingDocumentsFailed, err)
		}

		rows = append(rows, insertRow{docID: docID, doc: encoded})
	}

	sqlQuery, buildQueryErr := buildInsertQuery(table, rows)
	if buildQueryErr != nil {
		ds.logError(logMsgBuildInsertQueryFailed, buildQueryErr, logAttrCollection, collection)
		return 0, buildQueryErr
	}

	if err := ds.ensureTable(ctx, table); err != nil {
		ds.recordOperation(docstore.OperationInsert, collection, 0, err)
		return 0, errors.Join(docstore.ErrInsertingDocumentsFailed, err)
	}

	start := time.Now()
	result, execErr := ds.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	ds.logQueryWithDuration(sqlQuery, docstore.OperationInsert, duration)

	if execErr != nil {
		ds.recordOperation(docstore.OperationInsert, collection, duration, execErr)
		ds.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return 0, errors.Join(docstore.ErrInsertingDocumentsFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	ds.recordOperation(docstore.OperationInsert, collection, duration, rowsAffectedErr)

	if rowsAffectedErr != nil {
		ds.logError(logMsgDBExecFailed, rowsAffectedErr)
		return 0, errors.Join(docstore.ErrInsertingDocumentsFailed, rowsAffectedErr)
	}

	ds.recordDocumentCount(docstore.MetricDocumentsInserted, docstore.OperationInsert, collection, int(rowsAffected))
	ds.logOperation(
		docstore.OperationInsert,
		logAttrCollection, collection,
		logAttrDocumentCount, int(rowsAffected),
		logAttrDurationMS, toMilliseconds(duration),
	)

	return int(rowsAffected), nil
}

// Find returns the matching documents in insertion order. A missing table is an empty collection.
func (ds *DocumentStore) Find(
	ctx context.Context,
	collection string,
	filter docstore.Filter,
) (docstore.Documents, error) {

	if err := docstore.ValidateCollectionName(collection); err != nil {
		return nil, errors.Join(docstore.ErrQueryingDocumentsFailed, err)
	}

	start := time.Now()
	docs, err := ds.query(ctx, collection, filter)
	duration := time.Since(start)
	ds.recordOperation(docstore.OperationFind, collection, duration, err)

	if err != nil {
		return nil, err
	}

	ds.recordDocumentCount(docstore.MetricDocumentsReturned, docstore.OperationFind, collection, len(docs))
	ds.logOperation(
		docstore.OperationFind,
		logAttrCollection, collection,
		logAttrDocumentCount, len(docs),
		logAttrDurationMS, toMilliseconds(duration),
	)

	return docs, nil
}

// Aggregate evaluates the pipeline. A leading match stage runs as SQL, the rest in process.
func (ds *DocumentStore) Aggregate(
	ctx context.Context,
	collection string,
	pipeline docstore.Pipeline,
) (docstore.Documents, error) {

	if err := docstore.ValidateCollectionName(collection); err != nil {
		return nil, errors.Join(docstore.ErrQueryingDocumentsFailed, err)
	}

	if err := pipeline.Validate(); err != nil {
		return nil, err
	}

	inputFilter := docstore.BuildFilter().MatchingAnyDocument()
	remaining := pipeline
	pushedDown := false

	if match, ok := firstMatchStage(pipeline); ok {
		inputFilter = match.Filter
		remaining = pipeline[1:]
		pushedDown = true
	}

	start := time.Now()

	input, err := ds.query(ctx, collection, inputFilter)
	if err != nil {
		ds.recordOperation(docstore.OperationAggregate, collection, time.Since(start), err)
		return nil, err
	}

	result, err := relational.Run(ctx, input, remaining, ds.loadCollection)
	duration := time.Since(start)
	ds.recordOperation(docstore.OperationAggregate, collection, duration, err)

	if err != nil {
		ds.logError(logMsgPipelineFailed, err, logAttrCollection, collection)
		return nil, errors.Join(docstore.ErrQueryingDocumentsFailed, err)
	}

	ds.recordDocumentCount(docstore.MetricDocumentsReturned, docstore.OperationAggregate, collection, len(result))
	ds.logOperation(
		docstore.OperationAggregate,
		logAttrCollection, collection,
		logAttrStageCount, len(pipeline),
		logAttrPushedDown, pushedDown,
		logAttrDocumentCount, len(result),
		logAttrDurationMS, toMilliseconds(duration),
	)

	return result, nil
}

func firstMatchStage(pipeline docstore.Pipeline) (docstore.MatchStage, bool) {
	if len(pipeline) == 0 {
		return docstore.MatchStage{}, false
	}

	match, ok := pipeline[0].(docstore.MatchStage)

	return match, ok
}

func (ds *DocumentStore) loadCollection(ctx context.Context, collection string) (docstore.Documents, error) {
	return ds.query(ctx, collection, docstore.BuildFilter().MatchingAnyDocument())
}

// query selects and decodes the matching rows of the collection's table.
func (ds *DocumentStore) query(
	ctx context.Context,
	collection string,
	filter docstore.Filter,
) (docstore.Documents, error) {

	sqlQuery, buildQueryErr := buildSelectQuery(ds.tableName(collection), filter)
	if buildQueryErr != nil {
		ds.logError(logMsgBuildSelectQueryFailed, buildQueryErr, logAttrCollection, collection)
		return nil, buildQueryErr
	}

	start := time.Now()
	rows, queryErr := ds.db.Query(ctx, sqlQuery)
	ds.logQueryWithDuration(sqlQuery, docstore.OperationFind, time.Since(start))

	if queryErr != nil {
		if isUndefinedTable(queryErr) {
			return docstore.Documents{}, nil
		}

		ds.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, errors.Join(docstore.ErrQueryingDocumentsFailed, queryErr)
	}
	defer ds.closeRows(rows)

	return ds.processQueryResults(rows)
}

// processQueryResults scans database rows and decodes them into documents.
func (ds *DocumentStore) processQueryResults(rows adapters.DBRows) (docstore.Documents, error) {
	docs := make(docstore.Documents, 0)

	var docID, raw string

	for rows.Next() {
		if rowScanErr := rows.Scan(&docID, &raw); rowScanErr != nil {
			ds.logError(logMsgScanRowFailed, rowScanErr)
			return nil, errors.Join(docstore.ErrScanningDBRowFailed, rowScanErr)
		}

		doc, decodeErr := decodeDocument(raw)
		if decodeErr != nil {
			ds.logError(logMsgDecodeDocumentFailed, decodeErr, colDocID, docID)
			return nil, decodeErr
		}

		docs = append(docs, doc)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		if isUndefinedTable(rowsErr) {
			return docstore.Documents{}, nil
		}

		ds.logError(logMsgDBQueryFailed, rowsErr)
		return nil, errors.Join(docstore.ErrQueryingDocumentsFailed, rowsErr)
	}

	return docs, nil
}

// ensureTable creates the collection's table once per store instance.
func (ds *DocumentStore) ensureTable(ctx context.Context, table string) error {
	ds.mu.Lock()
	_, known := ds.knownTables[table]
	ds.mu.Unlock()

	if known {
		return nil
	}

	sqlQuery := buildCreateTableQuery(table)

	start := time.Now()
	_, execErr := ds.db.Exec(ctx, sqlQuery)
	ds.logQueryWithDuration(sqlQuery, logActionCreateTable, time.Since(start))

	if execErr != nil {
		ds.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return execErr
	}

	ds.mu.Lock()
	ds.knownTables[table] = struct{}{}
	ds.mu.Unlock()

	return nil
}

// closeRows safely closes database rows and logs any errors.
func (ds *DocumentStore) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		ds.logWarning(logMsgCloseRowsFailed, closeErr)
	}
}

func (ds *DocumentStore) tableName(collection string) string {
	return ds.tablePrefix + collection
}

// isUndefinedTable reports whether the database rejected the statement because the table is missing.
func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUndefinedTable
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == codeUndefinedTable
	}

	return false
}

// Package postgresengine provides a PostgreSQL implementation of docstore.Store.
//
// Each collection is a table with a sequence column, the document identifier, and the document
// as a JSON column. The JSON type keeps the text as written, so field order survives storage.
// Filters are compiled with goqu into jsonb_path_exists predicates, which gives document-store
// semantics for dotted paths and array fields. Aggregation pipelines push a leading match stage
// down into SQL and evaluate the remaining stages with the shared relational operators.
//
// Three connection types are supported through internal adapters: pgxpool.Pool, sql.DB (lib/pq),
// and sqlx.DB.
//
// Usage:
//
//	store, err := postgresengine.NewDocumentStoreFromPGXPool(pool, postgresengine.WithLogger(logger))
//	if err != nil {
//		// handle error
//	}
//	docs, err := store.Find(ctx, "series", filter)
package postgresengine

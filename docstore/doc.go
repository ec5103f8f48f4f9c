// Package docstore provides the core abstractions for working with schema-flexible documents
// grouped into named collections.
//
// This package defines the types shared by all document store engines: ordered documents,
// filters, aggregation pipelines, the Store contract, observability seams, and the common
// error definitions. The engines live in sub-packages:
//   - memoryengine: in-process store, insertion order preserved
//   - mongoengine: MongoDB with native filters and aggregation pipelines
//   - postgresengine: PostgreSQL tables with one JSON document per row (pgx, sql.DB, sqlx)
//
// Filters support equality (with "any element" semantics for array fields), numeric and string
// comparisons, and existence checks. Pipelines support match, group (avg, sum), lookup,
// unwind, and project stages.
//
// Common usage pattern:
//
//	filter := docstore.BuildFilter().
//		Matching(docstore.Gt("temporadas", 5)).
//		And(docstore.Gt("puntuacion", 8.0)).
//		Finalize()
//
//	docs, err := store.Find(ctx, "series", filter)
//	if err != nil {
//		// handle error
//	}
//
//	pipeline := docstore.Pipeline{
//		docstore.Match(docstore.BuildFilter().Matching(docstore.Exists("puntuacion")).Finalize()),
//		docstore.GroupAll(docstore.Avg("puntuacion_media", "puntuacion")),
//	}
//	result, err := store.Aggregate(ctx, "series", pipeline)
package docstore

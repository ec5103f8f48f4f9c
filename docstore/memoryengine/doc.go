// Package memoryengine provides an in-process implementation of docstore.Store.
//
// Collections are held in memory and keep their insertion order. Stored and returned documents
// are deep copies, so callers can modify what they pass in or get back.
// Aggregation pipelines are evaluated with the shared relational operators.
//
// The engine is used by the test suites and by the "memory" store engine setting, which runs the
// whole batch without any database server.
//
// Usage:
//
//	store, err := memoryengine.NewDocumentStore(memoryengine.WithLogger(logger))
//	if err != nil {
//		// handle error
//	}
//	_, err = store.InsertMany(ctx, "series", docs)
package memoryengine

package docstore

import "context"

// Store is the storage gateway used by the seeding and reporting code.
//
// Implementations return documents in the store's natural iteration order;
// for the memory and postgres engines this is insertion order.
type Store interface {
	// DropCollection removes all documents of the named collection. Dropping a missing collection is not an error.
	DropCollection(ctx context.Context, name string) error

	// InsertMany stores the documents, assigning an IDField to those lacking one, and returns the inserted count.
	InsertMany(ctx context.Context, collection string, docs Documents) (int, error)

	// Find returns all documents of the collection matching the filter.
	Find(ctx context.Context, collection string, filter Filter) (Documents, error)

	// Aggregate runs the pipeline with the collection as input.
	Aggregate(ctx context.Context, collection string, pipeline Pipeline) (Documents, error)
}

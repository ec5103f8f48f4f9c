// Package mongoengine provides a MongoDB implementation of docstore.Store.
//
// Filters and pipelines are translated into native BSON queries and aggregation stages
// ($match, $group, $lookup, $unwind, $project), so all evaluation happens on the server.
// Documents travel as bson.D, which keeps their field order.
//
// Usage:
//
//	client, err := mongoengine.Connect(ctx, uri)
//	if err != nil {
//		// handle error
//	}
//	defer client.Disconnect(context.Background())
//
//	store, err := mongoengine.NewDocumentStore(client.Database("catalog"), mongoengine.WithLogger(logger))
package mongoengine

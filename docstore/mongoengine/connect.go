package mongoengine

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/seriescatalog/catalog-reports/docstore"
)

// Connect opens a client for the URI and verifies the server with the ping command.
// Failures are returned joined with docstore.ErrConnectionFailed.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Join(docstore.ErrConnectionFailed, err)
	}

	if err = Ping(ctx, client); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}

// Ping runs the ping command against the admin database.
func Ping(ctx context.Context, client *mongo.Client) error {
	if client == nil {
		return errors.Join(docstore.ErrConnectionFailed, docstore.ErrNilDatabaseConnection)
	}

	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return errors.Join(docstore.ErrConnectionFailed, err)
	}

	return nil
}

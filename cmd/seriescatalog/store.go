package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/seriescatalog/catalog-reports/config"
	"github.com/seriescatalog/catalog-reports/docstore"
	"github.com/seriescatalog/catalog-reports/docstore/memoryengine"
	"github.com/seriescatalog/catalog-reports/docstore/mongoengine"
	"github.com/seriescatalog/catalog-reports/docstore/postgresengine"
)

// openStore connects the configured engine. The returned func releases the connection.
func openStore(
	ctx context.Context,
	cfg config.Config,
	logger *slog.Logger,
	metrics docstore.MetricsCollector,
) (docstore.Store, func(), error) {

	switch cfg.Engine {
	case config.EngineMemory:
		store, err := memoryengine.NewDocumentStore(memoryengine.WithLogger(logger), memoryengine.WithMetrics(metrics))
		return store, func() {}, err

	case config.EnginePostgres:
		return openPostgresStore(ctx, cfg, logger, metrics)

	default:
		return openMongoStore(ctx, cfg, logger, metrics)
	}
}

func openMongoStore(
	ctx context.Context,
	cfg config.Config,
	logger *slog.Logger,
	metrics docstore.MetricsCollector,
) (docstore.Store, func(), error) {

	if cfg.DatabaseName == "" {
		return nil, nil, errors.Join(docstore.ErrConnectionFailed, fmt.Errorf("%s is not set", config.EnvDatabaseName))
	}

	client, err := mongoengine.Connect(ctx, cfg.MongoURI())
	if err != nil {
		return nil, nil, err
	}

	closeClient := func() {
		if disconnectErr := client.Disconnect(context.Background()); disconnectErr != nil {
			logger.Warn("disconnecting from mongo failed", "error", disconnectErr.Error())
		}
	}

	store, err := mongoengine.NewDocumentStore(
		client.Database(cfg.DatabaseName),
		mongoengine.WithLogger(logger),
		mongoengine.WithMetrics(metrics),
	)
	if err != nil {
		closeClient()
		return nil, nil, err
	}

	return store, closeClient, nil
}

func openPostgresStore(
	ctx context.Context,
	cfg config.Config,
	logger *slog.Logger,
	metrics docstore.MetricsCollector,
) (docstore.Store, func(), error) {

	if cfg.PostgresDSN == "" {
		return nil, nil, errors.Join(docstore.ErrConnectionFailed, fmt.Errorf("%s is not set", config.EnvPostgresDSN))
	}

	options := []postgresengine.Option{
		postgresengine.WithLogger(logger),
		postgresengine.WithMetrics(metrics),
	}

	var (
		store     *postgresengine.DocumentStore
		closeConn func()
		err       error
	)

	switch cfg.PostgresAdapter {
	case config.AdapterSQL:
		db, openErr := config.PostgresSQLDB(cfg.PostgresDSN)
		if openErr != nil {
			return nil, nil, errors.Join(docstore.ErrConnectionFailed, openErr)
		}
		closeConn = func() { _ = db.Close() }
		store, err = postgresengine.NewDocumentStoreFromSQLDB(db, options...)

	case config.AdapterSQLX:
		db, openErr := config.PostgresSQLX(cfg.PostgresDSN)
		if openErr != nil {
			return nil, nil, errors.Join(docstore.ErrConnectionFailed, openErr)
		}
		closeConn = func() { _ = db.Close() }
		store, err = postgresengine.NewDocumentStoreFromSQLX(db, options...)

	default:
		pool, openErr := config.PostgresPGXPool(ctx, cfg.PostgresDSN)
		if openErr != nil {
			return nil, nil, errors.Join(docstore.ErrConnectionFailed, openErr)
		}
		closeConn = pool.Close
		store, err = postgresengine.NewDocumentStoreFromPGXPool(pool, options...)
	}

	if err != nil {
		closeConn()
		return nil, nil, err
	}

	if err := store.Ping(ctx); err != nil {
		closeConn()
		return nil, nil, err
	}

	return store, closeConn, nil
}

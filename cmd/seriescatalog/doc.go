// Command seriescatalog seeds the series catalog and exports the catalog reports.
//
// It takes no arguments. Configuration comes from the environment, optionally loaded from a .env
// file in the working directory:
//
//	MONGO_USERNAME, MONGO_PASSWORD, CLUSTER_MONGODB, DB_NAME, DB_COLLECTION
//	MONGO_URI                    full connection string, overrides the values above
//	CATALOG_STORE_ENGINE         mongo (default), postgres or memory
//	POSTGRES_DSN, POSTGRES_ADAPTER (pgx, sql, sqlx)
//	CATALOG_OUTPUT_DIR           where the JSON reports go
//	CATALOG_SERIES_COUNT, CATALOG_INCOMPLETE_COUNT, CATALOG_EPISODES_PER_SEASON
//	CATALOG_RANDOM_SEED          fixed seed for a reproducible catalog
//	CATALOG_LOG_LEVEL            debug, info, warn or error
//
// A failed connection is logged and the process exits with status 1, as does any failed step.
package main

// Package config resolves the batch configuration from the process environment and provides
// connection factories for the supported document stores.
//
// Values are read once at startup. A .env file in the working directory is loaded first when
// present; variables already set in the environment take precedence over it.
//
// The PostgreSQL factories create pgx.Pool, sql.DB (lib/pq), and sqlx.DB connections with
// pre-configured pool settings; the MongoDB URI is built from the credential variables unless
// a complete URI is supplied.
package config

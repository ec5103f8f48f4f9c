package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvMongoUsername      = "MONGO_USERNAME"
	EnvMongoPassword      = "MONGO_PASSWORD"
	EnvMongoCluster       = "CLUSTER_MONGODB"
	EnvMongoClusterDomain = "MONGO_CLUSTER_DOMAIN"
	EnvMongoURI           = "MONGO_URI"
	EnvDatabaseName       = "DB_NAME"
	EnvSeriesCollection   = "DB_COLLECTION"
	EnvStoreEngine        = "CATALOG_STORE_ENGINE"
	EnvPostgresDSN        = "POSTGRES_DSN"
	EnvPostgresAdapter    = "POSTGRES_ADAPTER"
	EnvOutputDir          = "CATALOG_OUTPUT_DIR"
	EnvSeriesCount        = "CATALOG_SERIES_COUNT"
	EnvIncompleteCount    = "CATALOG_INCOMPLETE_COUNT"
	EnvEpisodesPerSeason  = "CATALOG_EPISODES_PER_SEASON"
	EnvRandomSeed         = "CATALOG_RANDOM_SEED"
	EnvLogLevel           = "CATALOG_LOG_LEVEL"

	DefaultMongoClusterDomain = "1gmm9ic.mongodb.net"
	DefaultSeriesCollection   = "series"
	DetailsCollection         = "detalles_produccion"
	DefaultOutputDir          = "."
	DefaultSeriesCount        = 50
	DefaultIncompleteCount    = 10
	DefaultEpisodesPerSeason  = 8
)

// Engine selects the document store implementation.
type Engine string

const (
	EngineMongo    Engine = "mongo"
	EnginePostgres Engine = "postgres"
	EngineMemory   Engine = "memory"
)

// PostgresAdapter selects the PostgreSQL connection library.
type PostgresAdapter string

const (
	AdapterPGX  PostgresAdapter = "pgx"
	AdapterSQL  PostgresAdapter = "sql"
	AdapterSQLX PostgresAdapter = "sqlx"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

// Config is the resolved batch configuration.
type Config struct {
	MongoUsername      string
	MongoPassword      string
	MongoCluster       string
	MongoClusterDomain string
	MongoURIOverride   string
	DatabaseName       string

	SeriesCollection  string
	DetailsCollection string

	Engine          Engine
	PostgresDSN     string
	PostgresAdapter PostgresAdapter

	OutputDir             string
	SeriesCount           int
	IncompleteSeriesCount int
	EpisodesPerSeason     int
	RandomSeed            uint64
	LogLevel              slog.Level
}

// LookupFunc returns the value of an environment variable and whether it is set.
type LookupFunc func(key string) (string, bool)

// Load reads the optional .env file and resolves the configuration from the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, errors.Join(ErrInvalidConfiguration, err)
	}

	return LoadFrom(os.LookupEnv)
}

// LoadFrom resolves the configuration from the given lookup.
// Missing credentials are not an error here; they surface when connecting.
func LoadFrom(lookup LookupFunc) (Config, error) {
	get := func(key, fallback string) string {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
		return fallback
	}

	cfg := Config{
		MongoUsername:      get(EnvMongoUsername, ""),
		MongoPassword:      get(EnvMongoPassword, ""),
		MongoCluster:       get(EnvMongoCluster, ""),
		MongoClusterDomain: get(EnvMongoClusterDomain, DefaultMongoClusterDomain),
		MongoURIOverride:   get(EnvMongoURI, ""),
		DatabaseName:       get(EnvDatabaseName, ""),
		SeriesCollection:   get(EnvSeriesCollection, DefaultSeriesCollection),
		DetailsCollection:  DetailsCollection,
		PostgresDSN:        get(EnvPostgresDSN, ""),
		OutputDir:          get(EnvOutputDir, DefaultOutputDir),
	}

	var errs []error

	cfg.Engine = Engine(strings.ToLower(get(EnvStoreEngine, string(EngineMongo))))
	switch cfg.Engine {
	case EngineMongo, EnginePostgres, EngineMemory:
	default:
		errs = append(errs, fmt.Errorf("%s: unknown engine %q", EnvStoreEngine, cfg.Engine))
	}

	cfg.PostgresAdapter = PostgresAdapter(strings.ToLower(get(EnvPostgresAdapter, string(AdapterPGX))))
	switch cfg.PostgresAdapter {
	case AdapterPGX, AdapterSQL, AdapterSQLX:
	default:
		errs = append(errs, fmt.Errorf("%s: unknown adapter %q", EnvPostgresAdapter, cfg.PostgresAdapter))
	}

	var err error

	if cfg.SeriesCount, err = nonNegativeInt(get(EnvSeriesCount, ""), DefaultSeriesCount); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvSeriesCount, err))
	}

	if cfg.IncompleteSeriesCount, err = nonNegativeInt(get(EnvIncompleteCount, ""), DefaultIncompleteCount); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvIncompleteCount, err))
	}

	if cfg.EpisodesPerSeason, err = nonNegativeInt(get(EnvEpisodesPerSeason, ""), DefaultEpisodesPerSeason); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvEpisodesPerSeason, err))
	}

	if seed := get(EnvRandomSeed, ""); seed != "" {
		if cfg.RandomSeed, err = strconv.ParseUint(seed, 10, 64); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvRandomSeed, err))
		}
	}

	if level := get(EnvLogLevel, ""); level != "" {
		if err = cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvLogLevel, err))
		}
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(append([]error{ErrInvalidConfiguration}, errs...)...)
	}

	return cfg, nil
}

// MongoURI returns the override URI when set, otherwise the SRV URI built from the credentials.
func (c Config) MongoURI() string {
	if c.MongoURIOverride != "" {
		return c.MongoURIOverride
	}

	u := url.URL{
		Scheme: "mongodb+srv",
		User:   url.UserPassword(c.MongoUsername, c.MongoPassword),
		Host:   c.MongoCluster + "." + c.MongoClusterDomain,
		Path:   "/",
	}

	return u.String()
}

func nonNegativeInt(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, fmt.Errorf("must not be negative, got %d", n)
	}

	return n, nil
}

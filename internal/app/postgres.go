package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
	goose "github.com/pressly/goose/v3"

	"github.com/guttosm/dartpulse/config"
	"github.com/guttosm/dartpulse/db"
	"github.com/guttosm/dartpulse/internal/logger"
)

// sqlOpener is an indirection for unit testing; defaults to sql.Open
var sqlOpener = sql.Open

// pingTimeout bounds the connectivity check of InitPostgres.
const pingTimeout = 5 * time.Second

// InitPostgres opens a PostgreSQL pool from cfg.Postgres.URL and pings it.
//
// Returns:
//   - *sql.DB: an open database connection pool (safe for concurrent use).
//   - error: if opening or pinging the database fails. The pool is closed on ping failure.
func InitPostgres(cfg config.Config) (*sql.DB, error) {
	db, err := sqlOpener("postgres", cfg.Postgres.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return db, nil
}

// Migrate applies the embedded goose migrations up to the latest version.
func Migrate(conn *sql.DB) error {
	goose.SetBaseFS(db.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.Up(conn, db.MigrationsDir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	v, err := goose.GetDBVersion(conn)
	if err == nil {
		log := logger.Named("app")
		log.Info().Int64("schema_version", v).Msg("migrations applied")
	}
	return nil
}

// OpenStore connects to Postgres and brings the schema up to date.
// It is used by the fetch commands when --store is set.
func OpenStore(cfg config.Config) (*sql.DB, error) {
	conn, err := postgresOpener(cfg)
	if err != nil {
		return nil, err
	}
	if err := migrator(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// postgresOpener and migrator are indirections overridden in tests to avoid real connections.
var (
	postgresOpener = InitPostgres
	migrator       = Migrate
)

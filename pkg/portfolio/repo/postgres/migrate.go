package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers the pgx5:// driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator is the part of migrate.Migrate the runner needs
type Migrator interface {
	Up() error
	Close() (error, error)
}

// MigrationEngine builds a Migrator for a database URL. Tests swap it out to
// avoid touching a real database.
type MigrationEngine func(databaseURL string) (Migrator, error)

// DefaultEngine reads the embedded migrations and applies them through the
// pgx v5 driver
func DefaultEngine(databaseURL string) (Migrator, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

// MigrationURL rewrites a postgres:// URL for the migrate pgx5 driver and
// pins search_path to schema when one is given
func MigrationURL(databaseURL, schema string) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql", "pgx5":
		u.Scheme = "pgx5"
	default:
		return "", fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
	if schema != "" {
		q := u.Query()
		q.Set("search_path", schema)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Migration applies the embedded schema migrations
type Migration struct {
	databaseURL string
	schema      string
	engine      MigrationEngine
}

func NewMigration(databaseURL, schema string, engine MigrationEngine) *Migration {
	if engine == nil {
		engine = DefaultEngine
	}
	return &Migration{databaseURL: databaseURL, schema: schema, engine: engine}
}

// Up applies all pending migrations. An up-to-date database is not an error.
func (mg *Migration) Up() (err error) {
	target, err := MigrationURL(mg.databaseURL, mg.schema)
	if err != nil {
		return err
	}

	m, err := mg.engine(target)
	if err != nil {
		return err
	}
	defer func() {
		serr, dberr := m.Close()
		if serr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration source error: %v", err, serr)
			} else {
				err = serr
			}
		}
		if dberr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration database error: %v", err, dberr)
			} else {
				err = dberr
			}
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}
	return nil
}

// EnsureSchema creates schema if it does not exist yet
func EnsureSchema(ctx context.Context, db DBTX, schema string) error {
	schema = strings.TrimSpace(schema)
	if schema == "" || schema == "public" {
		return nil
	}
	stmt := "CREATE SCHEMA IF NOT EXISTS " + pgx.Identifier{schema}.Sanitize()
	if _, err := db.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create schema %s: %w", schema, err)
	}
	return nil
}

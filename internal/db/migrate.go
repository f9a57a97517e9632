package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/udisondev/skirmish/internal/db/migrations"
)

// goose keeps the base FS and dialect in package state
var gooseMu sync.Mutex

// RunMigrations runs goose migrations on the given PostgreSQL DSN.
func RunMigrations(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()

	return migrate(ctx, sqlDB, "postgres", migrations.Postgres)
}

// MigrateSQL runs the migrations of dialect ("postgres" or "sqlite3") on an
// open database handle.
func MigrateSQL(ctx context.Context, sqlDB *sql.DB, dialect string) error {
	dir := migrations.Postgres
	if dialect == "sqlite3" {
		dir = migrations.SQLite
	}
	return migrate(ctx, sqlDB, dialect, dir)
}

func migrate(ctx context.Context, sqlDB *sql.DB, dialect, dir string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

package testutil

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/udisondev/skirmish/internal/db"
)

// PostgresDSN starts a PostgreSQL testcontainer and returns its DSN.
// Skipped with -short. The container is terminated on cleanup.
func PostgresDSN(tb testing.TB) string {
	tb.Helper()
	if testing.Short() {
		tb.Skip("skipping PostgreSQL test in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		tb.Fatalf("starting postgres container: %v", err)
	}
	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			tb.Logf("terminating postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tb.Fatalf("getting connection string: %v", err)
	}
	return dsn
}

// SetupTestDB создаёт PostgreSQL testcontainer, применяет миграции и возвращает pool.
func SetupTestDB(tb testing.TB) *pgxpool.Pool {
	tb.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, PostgresDSN(tb))
	if err != nil {
		tb.Fatalf("connecting to test db: %v", err)
	}
	tb.Cleanup(func() { pool.Close() })

	// the *sql.DB borrows connections from pool and is left to the GC
	if err := db.MigrateSQL(ctx, stdlib.OpenDBFromPool(pool), "postgres"); err != nil {
		tb.Fatalf("running migrations: %v", err)
	}
	return pool
}

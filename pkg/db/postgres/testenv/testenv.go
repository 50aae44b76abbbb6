// Package testenv hands out pools onto a disposable test database.
//
// Tests needing a real database read the connection URL from the
// DESKFAB_TEST_DATABASE environment variable and are skipped when it is
// not set.
package testenv

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/opsberry/deskfab/pkg/db/postgres/conversations"
)

const EnvDatabase = "DESKFAB_TEST_DATABASE"

// PoolBroaker is a interface to get a pool.
type PoolBroaker interface {
	// GetPool returns a pool.
	//
	// Tables are cleaned up before returning and after t.
	GetPool(ctx context.Context, t *testing.T) *pgxpool.Pool
}

type pg struct {
	pool *pgxpool.Pool
}

func (p *pg) GetPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Cleanup(func() {
		t.Helper()
		ClearTables(ctx, p.pool, t)
	})

	ClearTables(ctx, p.pool, t)
	return p.pool
}

// NewPoolBroaker connects to the test database and makes sure the
// schema is in place.
func NewPoolBroaker(ctx context.Context, t *testing.T) PoolBroaker {
	t.Helper()

	dsn := os.Getenv(EnvDatabase)
	if dsn == "" {
		t.Skipf("%s is not set. skipping", EnvDatabase)
	}

	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	if err := conversations.Bootstrap(ctx, pool); err != nil {
		t.Fatal(err)
	}
	return &pg{pool: pool}
}

func ClearTables(ctx context.Context, p *pgxpool.Pool, t *testing.T) {
	t.Helper()

	if _, err := p.Exec(ctx, `truncate "conversation"`); err != nil {
		t.Errorf("fail to clean-up tables.: %v", err)
	}
}

package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	ddb "github.com/opsberry/deskfab/pkg/db"
	dpgconv "github.com/opsberry/deskfab/pkg/db/postgres/conversations"
)

type deskfabDBPostgres struct {
	pool          *pgxpool.Pool
	conversations ddb.ConversationInterface
}

// New connects to the conversation store and makes sure its schema is
// in place.
func New(ctx context.Context, url string) (ddb.DeskfabDatabase, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := dpgconv.Bootstrap(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &deskfabDBPostgres{
		pool:          pool,
		conversations: dpgconv.New(pool),
	}, nil
}

func (d *deskfabDBPostgres) Conversations() ddb.ConversationInterface {
	return d.conversations
}

func (d *deskfabDBPostgres) Close() error {
	d.pool.Close()
	return nil
}

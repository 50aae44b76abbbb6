package conversations

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4/pgxpool"
	ddb "github.com/opsberry/deskfab/pkg/db"
	"github.com/opsberry/deskfab/pkg/domain"
)

type pgConversation struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) ddb.ConversationInterface {
	return &pgConversation{pool: pool}
}

// Bootstrap creates the conversation schema if it does not exist yet.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(
		ctx,
		`
		create table if not exists "conversation" (
			"user_id" varchar not null,
			"ts" timestamp with time zone not null,
			"message_id" varchar not null,
			"session_id" varchar not null,
			"username" varchar not null,
			"email" varchar not null,
			"user_query" varchar not null,
			"response" varchar not null,
			"thinking_steps" varchar[] not null default '{}',
			primary key ("user_id", "ts")
		);
		create index if not exists "idx_conversation_session"
			on "conversation" ("session_id", "ts");
		`,
	)
	return err
}

func (c *pgConversation) PutTurn(ctx context.Context, turn domain.Turn) error {
	steps := pgtype.TextArray{}
	if err := steps.Set(turn.ThinkingSteps); err != nil {
		return err
	}

	_, err := c.pool.Exec(
		ctx,
		`
		insert into "conversation" (
			"user_id", "ts", "message_id", "session_id",
			"username", "email", "user_query", "response", "thinking_steps"
		)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9);
		`,
		turn.UserId, turn.Timestamp, turn.MessageId, turn.SessionId,
		turn.Username, turn.Email, turn.UserQuery, turn.Response, steps,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf(
				"%w: turn for user %s at %s", ddb.ErrDuplicated,
				turn.UserId, turn.Timestamp,
			)
		}
		return err
	}
	return nil
}

func (c *pgConversation) ListSessions(ctx context.Context, userId string, queryLimit int, sessionLimit int) ([]domain.SessionSummary, error) {
	rows, err := c.pool.Query(
		ctx,
		`
		with "recent" as (
			select "session_id", "ts", "user_query", "username"
			from "conversation"
			where "user_id" = $1
			order by "ts" desc
			limit $2
		),
		"latest" as (
			select distinct on ("session_id")
				"session_id", "ts", "user_query", "username"
			from "recent"
			order by "session_id", "ts" desc
		)
		select "session_id", "ts", "user_query", "username"
		from "latest"
		order by "ts" desc
		limit $3;
		`,
		userId, queryLimit, sessionLimit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []domain.SessionSummary{}
	for rows.Next() {
		var s domain.SessionSummary
		if err := rows.Scan(&s.SessionId, &s.Timestamp, &s.LatestMessage, &s.Username); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (c *pgConversation) GetTurns(ctx context.Context, userId string, sessionId string) ([]domain.Turn, error) {
	rows, err := c.pool.Query(
		ctx,
		`
		select
			"user_id", "ts", "message_id", "session_id",
			"username", "email", "user_query", "response", "thinking_steps"
		from "conversation"
		where "session_id" = $1 and "user_id" = $2
		order by "ts" asc;
		`,
		sessionId, userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	turns := []domain.Turn{}
	for rows.Next() {
		var t domain.Turn
		steps := pgtype.TextArray{}
		if err := rows.Scan(
			&t.UserId, &t.Timestamp, &t.MessageId, &t.SessionId,
			&t.Username, &t.Email, &t.UserQuery, &t.Response, &steps,
		); err != nil {
			return nil, err
		}
		if err := steps.AssignTo(&t.ThinkingSteps); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return turns, nil
}

package db

import (
	"context"
	"errors"

	"github.com/opsberry/deskfab/pkg/domain"
)

var (
	// record is missing
	ErrMissing = errors.New("missing")

	// record breaking uniquness
	ErrDuplicated = errors.New("duplicated")
)

// ConversationInterface is the durable record of chat exchanges.
//
// Turns are keyed (user id, timestamp) and never updated. Reads are
// always scoped to one user; a caller can see only its own history.
type ConversationInterface interface {
	// PutTurn appends one exchange.
	//
	// returns ErrDuplicated when a turn with the same user id and
	// timestamp is already recorded.
	PutTurn(ctx context.Context, turn domain.Turn) error

	// ListSessions returns the newest turn of each of the caller's
	// sessions, newest first.
	//
	// At most queryLimit recent turns are inspected and at most
	// sessionLimit sessions are returned.
	ListSessions(ctx context.Context, userId string, queryLimit int, sessionLimit int) ([]domain.SessionSummary, error)

	// GetTurns returns the turns of one session in chronological order,
	// restricted to the given user.
	GetTurns(ctx context.Context, userId string, sessionId string) ([]domain.Turn, error)
}

type DeskfabDatabase interface {
	Conversations() ConversationInterface
	Close() error
}

package mocks

import (
	"context"
	"errors"

	ddb "github.com/opsberry/deskfab/pkg/db"
	"github.com/opsberry/deskfab/pkg/domain"
)

type CallLog[T any] []T

func (l CallLog[T]) Times() uint {
	return uint(len(l))
}

type ConversationInterface struct {
	Impl struct {
		PutTurn      func(context.Context, domain.Turn) error
		ListSessions func(context.Context, string, int, int) ([]domain.SessionSummary, error)
		GetTurns     func(context.Context, string, string) ([]domain.Turn, error)
	}
	Calls struct {
		PutTurn      CallLog[domain.Turn]
		ListSessions CallLog[struct {
			UserId       string
			QueryLimit   int
			SessionLimit int
		}]
		GetTurns CallLog[struct {
			UserId    string
			SessionId string
		}]
	}
}

func NewConversationInterface() *ConversationInterface {
	return &ConversationInterface{}
}

var _ ddb.ConversationInterface = &ConversationInterface{}

func (m *ConversationInterface) PutTurn(ctx context.Context, turn domain.Turn) error {
	m.Calls.PutTurn = append(m.Calls.PutTurn, turn)
	if m.Impl.PutTurn != nil {
		return m.Impl.PutTurn(ctx, turn)
	}
	panic(errors.New("it should not be called"))
}

func (m *ConversationInterface) ListSessions(ctx context.Context, userId string, queryLimit int, sessionLimit int) ([]domain.SessionSummary, error) {
	m.Calls.ListSessions = append(m.Calls.ListSessions, struct {
		UserId       string
		QueryLimit   int
		SessionLimit int
	}{UserId: userId, QueryLimit: queryLimit, SessionLimit: sessionLimit})
	if m.Impl.ListSessions != nil {
		return m.Impl.ListSessions(ctx, userId, queryLimit, sessionLimit)
	}
	panic(errors.New("it should not be called"))
}

func (m *ConversationInterface) GetTurns(ctx context.Context, userId string, sessionId string) ([]domain.Turn, error) {
	m.Calls.GetTurns = append(m.Calls.GetTurns, struct {
		UserId    string
		SessionId string
	}{UserId: userId, SessionId: sessionId})
	if m.Impl.GetTurns != nil {
		return m.Impl.GetTurns(ctx, userId, sessionId)
	}
	panic(errors.New("it should not be called"))
}

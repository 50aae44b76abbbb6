package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	apiconv "github.com/opsberry/deskfab-api-types/conversations"
	apierr "github.com/opsberry/deskfab/pkg/api/errors"
	"github.com/opsberry/deskfab/pkg/auth"
	"github.com/opsberry/deskfab/pkg/db"
)

const (
	historyQueryLimit   = 100
	historySessionLimit = 20
)

func ListConversationsHandler(conversations db.ConversationInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		identity := auth.IdentityOf(c)

		sessions, err := conversations.ListSessions(
			ctx, identity.UserId, historyQueryLimit, historySessionLimit,
		)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		history := apiconv.History{Conversations: []apiconv.Summary{}}
		for _, s := range sessions {
			history.Conversations = append(history.Conversations, apiconv.Summary{
				SessionId:     s.SessionId,
				Timestamp:     s.Timestamp.Format(time.RFC3339),
				LatestMessage: s.LatestMessage,
				Username:      s.Username,
			})
		}

		return c.JSON(http.StatusOK, history)
	}
}

func GetConversationHandler(conversations db.ConversationInterface, sessionIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		identity := auth.IdentityOf(c)

		sessionId := c.Param(sessionIdParam)
		if sessionId == "" {
			return apierr.BadRequest("session id should not be empty", nil)
		}

		turns, err := conversations.GetTurns(ctx, identity.UserId, sessionId)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		messages := apiconv.Messages{Messages: []apiconv.Message{}, SessionId: sessionId}
		for _, t := range turns {
			messages.Messages = append(messages.Messages, apiconv.Message{
				Timestamp:     t.Timestamp.Format(time.RFC3339),
				UserQuery:     t.UserQuery,
				Response:      t.Response,
				ThinkingSteps: t.ThinkingSteps,
			})
		}

		return c.JSON(http.StatusOK, messages)
	}
}

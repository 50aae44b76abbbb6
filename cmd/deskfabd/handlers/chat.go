package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	apichat "github.com/opsberry/deskfab-api-types/chat"
	"github.com/opsberry/deskfab/pkg/agentcall"
	apierr "github.com/opsberry/deskfab/pkg/api/errors"
	"github.com/opsberry/deskfab/pkg/auth"
	"github.com/opsberry/deskfab/pkg/domain"
)

// Asker answers one user message within a session.
type Asker interface {
	Ask(ctx context.Context, identity domain.Identity, sessionId string, message string) (agentcall.Answer, error)
}

func ChatHandler(asker Asker) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		req := apichat.Request{}
		if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
			return apierr.BadRequest("request body should be JSON", err)
		}

		identity := auth.IdentityOf(c)
		answer, err := asker.Ask(ctx, identity, req.SessionId, req.Message)
		if err != nil {
			if errors.Is(err, agentcall.ErrEmptyMessage) {
				return apierr.BadRequest("message should not be empty", err)
			}
			// the cause stays in the log; clients get a stable reason
			return apierr.NewErrorMessage(
				http.StatusInternalServerError,
				"the assistant could not answer",
				apierr.WithAdvice("try again in a moment"),
				apierr.WithError(err),
			)
		}

		return c.JSON(http.StatusOK, apichat.Response{
			Response:      answer.Response,
			ThinkingSteps: answer.ThinkingSteps,
			SessionId:     answer.SessionId,
		})
	}
}

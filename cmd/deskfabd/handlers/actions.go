package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	apiactions "github.com/opsberry/deskfab-api-types/actions"
	apierr "github.com/opsberry/deskfab/pkg/api/errors"
	"github.com/opsberry/deskfab/pkg/websearch"
)

// SearchActionHandler serves the web_search action group. Function-level
// failures are reported inside the envelope so the calling agent can
// relay them; only an unreadable request is an HTTP error.
func SearchActionHandler(client *websearch.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		inv := apiactions.Invocation{}
		if err := json.NewDecoder(c.Request().Body).Decode(&inv); err != nil {
			return apierr.BadRequest("request body should be JSON", err)
		}

		return c.JSON(http.StatusOK, websearch.Dispatch(ctx, client, inv))
	}
}

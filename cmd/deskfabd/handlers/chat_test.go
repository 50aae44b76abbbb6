package handlers_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	apichat "github.com/opsberry/deskfab-api-types/chat"
	"github.com/opsberry/deskfab/cmd/deskfabd/handlers"
	httptestutil "github.com/opsberry/deskfab/internal/testutils/http"
	"github.com/opsberry/deskfab/pkg/agentcall"
	"github.com/opsberry/deskfab/pkg/auth"
	"github.com/opsberry/deskfab/pkg/domain"
	"github.com/opsberry/deskfab/pkg/utils/try"
)

type askerMock struct {
	Impl func(context.Context, domain.Identity, string, string) (agentcall.Answer, error)

	Calls []struct {
		Identity  domain.Identity
		SessionId string
		Message   string
	}
}

func (m *askerMock) Ask(ctx context.Context, identity domain.Identity, sessionId string, message string) (agentcall.Answer, error) {
	m.Calls = append(m.Calls, struct {
		Identity  domain.Identity
		SessionId string
		Message   string
	}{Identity: identity, SessionId: sessionId, Message: message})
	if m.Impl != nil {
		return m.Impl(ctx, identity, sessionId, message)
	}
	panic(errors.New("it should not be called"))
}

var _ handlers.Asker = &askerMock{}

// unsignedToken builds a JWT-shaped token carrying the given claims.
func unsignedToken(t *testing.T, claims map[string]string) string {
	t.Helper()
	seg := func(v any) string {
		b := try.To(json.Marshal(v)).OrFatal(t)
		return base64.RawURLEncoding.EncodeToString(b)
	}
	return fmt.Sprintf(
		"%s.%s.", seg(map[string]string{"alg": "none"}), seg(claims),
	)
}

func TestChatHandler(t *testing.T) {
	t.Run("it relays the answer with the caller's identity", func(t *testing.T) {
		asker := &askerMock{
			Impl: func(_ context.Context, _ domain.Identity, _ string, _ string) (agentcall.Answer, error) {
				return agentcall.Answer{
					Response:      "submit form HR-12",
					ThinkingSteps: []string{"routing to hr"},
					SessionId:     "session-1",
				}, nil
			},
		}

		e := echo.New()
		ctx, resp := httptestutil.Post(
			e, "/api/chat/",
			strings.NewReader(`{"message": "how do I change my address?", "sessionId": "session-1"}`),
			httptestutil.ContentType("application/json"),
			httptestutil.BearerToken(unsignedToken(t, map[string]string{
				"sub": "user-1", "cognito:username": "rthompson", "email": "r@example.com",
			})),
		)

		testee := auth.Middleware()(handlers.ChatHandler(asker))
		if err := testee(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if resp.Code != http.StatusOK {
			t.Errorf("unmatch status: %d, expected: %d", resp.Code, http.StatusOK)
		}
		payload := apichat.Response{}
		if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
			t.Fatal(err)
		}
		expected := apichat.Response{
			Response:      "submit form HR-12",
			ThinkingSteps: []string{"routing to hr"},
			SessionId:     "session-1",
		}
		if !payload.Equal(expected) {
			t.Errorf("unmatch response: %+v, expected: %+v", payload, expected)
		}

		if len(asker.Calls) != 1 {
			t.Fatalf("unmatch ask calls: %d", len(asker.Calls))
		}
		call := asker.Calls[0]
		if call.Identity.UserId != "user-1" || call.Identity.Username != "rthompson" {
			t.Errorf("unmatch identity: %+v", call.Identity)
		}
		if call.SessionId != "session-1" || call.Message != "how do I change my address?" {
			t.Errorf("unmatch call: %+v", call)
		}
	})

	t.Run("an empty message is a bad request", func(t *testing.T) {
		asker := &askerMock{
			Impl: func(context.Context, domain.Identity, string, string) (agentcall.Answer, error) {
				return agentcall.Answer{}, agentcall.ErrEmptyMessage
			},
		}

		e := echo.New()
		ctx, _ := httptestutil.Post(
			e, "/api/chat/", strings.NewReader(`{"message": "   "}`),
			httptestutil.ContentType("application/json"),
		)

		err := handlers.ChatHandler(asker)(ctx)
		httperr := &echo.HTTPError{}
		if !errors.As(err, &httperr) || httperr.Code != http.StatusBadRequest {
			t.Errorf("unmatch error: %v, expected status: %d", err, http.StatusBadRequest)
		}
	})

	t.Run("a broken body is a bad request without asking", func(t *testing.T) {
		asker := &askerMock{}

		e := echo.New()
		ctx, _ := httptestutil.Post(
			e, "/api/chat/", strings.NewReader(`{broken`),
			httptestutil.ContentType("application/json"),
		)

		err := handlers.ChatHandler(asker)(ctx)
		httperr := &echo.HTTPError{}
		if !errors.As(err, &httperr) || httperr.Code != http.StatusBadRequest {
			t.Errorf("unmatch error: %v, expected status: %d", err, http.StatusBadRequest)
		}
		if len(asker.Calls) != 0 {
			t.Errorf("ask should not be called: %d", len(asker.Calls))
		}
	})

	t.Run("an invocation failure is an internal error", func(t *testing.T) {
		asker := &askerMock{
			Impl: func(context.Context, domain.Identity, string, string) (agentcall.Answer, error) {
				return agentcall.Answer{}, errors.New("fake invocation failure")
			},
		}

		e := echo.New()
		ctx, _ := httptestutil.Post(
			e, "/api/chat/", strings.NewReader(`{"message": "hello"}`),
			httptestutil.ContentType("application/json"),
		)

		err := handlers.ChatHandler(asker)(ctx)
		httperr := &echo.HTTPError{}
		if !errors.As(err, &httperr) || httperr.Code != http.StatusInternalServerError {
			t.Errorf("unmatch error: %v, expected status: %d", err, http.StatusInternalServerError)
		}
	})
}

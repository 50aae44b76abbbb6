package websearch_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apiactions "github.com/opsberry/deskfab-api-types/actions"
	"github.com/opsberry/deskfab/pkg/utils/try"
	"github.com/opsberry/deskfab/pkg/websearch"
)

func searchServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("broken request: %v", err)
		}
		if req["query"] == "" {
			t.Error("query is empty")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"answer": "Go 1.23 was released in August 2024.",
			"results": []map[string]string{
				{"title": "Go 1.23 Release Notes", "url": "https://go.dev/doc/go1.23", "content": "Release notes."},
			},
		})
	}))
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("it renders answer and hits as text", func(t *testing.T) {
		server := searchServer(t)
		defer server.Close()
		client := websearch.NewClient(server.URL, "test-key", server.Client())

		text := try.To(client.Search(ctx, "go 1.23 release date")).OrFatal(t)

		if !strings.Contains(text, "Go 1.23 was released") {
			t.Errorf("answer missing: %s", text)
		}
		if !strings.Contains(text, "https://go.dev/doc/go1.23") {
			t.Errorf("hit url missing: %s", text)
		}
	})

	t.Run("a non-200 answer is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusBadGateway)
		}))
		defer server.Close()
		client := websearch.NewClient(server.URL, "test-key", server.Client())

		if _, err := client.Search(ctx, "anything"); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()

	invocation := func(params ...apiactions.Parameter) apiactions.Invocation {
		return apiactions.Invocation{
			ActionGroup: "actions_web_search", Function: "web_search",
			Parameters: params, MessageVersion: "1.0",
		}
	}

	t.Run("it answers in the function-response envelope", func(t *testing.T) {
		server := searchServer(t)
		defer server.Close()
		client := websearch.NewClient(server.URL, "test-key", server.Client())

		result := websearch.Dispatch(ctx, client, invocation(
			apiactions.Parameter{Name: "search_query", Value: "go release"},
		))

		if result.MessageVersion != "1.0" {
			t.Errorf("unmatch message version: %s", result.MessageVersion)
		}
		if result.Response.ActionGroup != "actions_web_search" || result.Response.Function != "web_search" {
			t.Errorf("unmatch envelope: %+v", result.Response)
		}
		body := result.Response.FunctionResponse.ResponseBody["TEXT"].Body
		if !strings.Contains(body, "Go 1.23") {
			t.Errorf("unmatch body: %s", body)
		}
	})

	t.Run("a missing search_query is an in-band error", func(t *testing.T) {
		client := websearch.NewClient("http://127.0.0.1:0", "test-key", nil)

		result := websearch.Dispatch(ctx, client, invocation())

		body := result.Response.FunctionResponse.ResponseBody["TEXT"].Body
		if !strings.Contains(body, "search_query") {
			t.Errorf("unmatch body: %s", body)
		}
	})

	t.Run("an unknown function is an in-band error", func(t *testing.T) {
		client := websearch.NewClient("http://127.0.0.1:0", "test-key", nil)
		inv := invocation()
		inv.Function = "rm_rf"

		result := websearch.Dispatch(ctx, client, inv)

		body := result.Response.FunctionResponse.ResponseBody["TEXT"].Body
		if !strings.Contains(body, "unknown function") {
			t.Errorf("unmatch body: %s", body)
		}
	})
}

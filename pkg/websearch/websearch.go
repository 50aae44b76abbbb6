// Package websearch backs the search agent's action group: it answers
// web_search function calls by querying an external search API.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apiactions "github.com/opsberry/deskfab-api-types/actions"
)

const defaultMaxResults = 5

type Client struct {
	endpoint   string
	apiKey     string
	maxResults int
	httpClient *http.Client
}

func NewClient(endpoint string, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		maxResults: defaultMaxResults,
		httpClient: httpClient,
	}
}

type searchRequest struct {
	ApiKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResult struct {
	Title   string `json:"title"`
	Url     string `json:"url"`
	Content string `json:"content"`
}

type searchResponse struct {
	Answer  string         `json:"answer"`
	Results []searchResult `json:"results"`
}

// Search queries the API and renders the hits as readable text, one
// titled URL per hit.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	payload, err := json.Marshal(searchRequest{
		ApiKey: c.apiKey, Query: query, MaxResults: c.maxResults,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("search api answered %d: %s", resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("search api answered garbage: %w", err)
	}

	var text strings.Builder
	if parsed.Answer != "" {
		text.WriteString(parsed.Answer)
		text.WriteString("\n\n")
	}
	for _, r := range parsed.Results {
		fmt.Fprintf(&text, "- %s (%s): %s\n", r.Title, r.Url, r.Content)
	}
	if text.Len() == 0 {
		return "No results found for: " + query, nil
	}
	return text.String(), nil
}

// Dispatch answers one action-group invocation.
//
// Function-level problems (unknown function, missing parameter, failed
// search) are reported inside the result body; the transport succeeds
// either way, since the calling agent handles errors as text.
func Dispatch(ctx context.Context, client *Client, inv apiactions.Invocation) apiactions.Result {
	if inv.Function != "web_search" {
		return apiactions.NewTextResult(inv, "Error: unknown function "+inv.Function)
	}

	query := ""
	for _, p := range inv.Parameters {
		if p.Name == "search_query" {
			query = p.Value
			break
		}
	}
	if strings.TrimSpace(query) == "" {
		return apiactions.NewTextResult(inv, "Error: search_query parameter is required")
	}

	text, err := client.Search(ctx, query)
	if err != nil {
		return apiactions.NewTextResult(inv, "Error: search failed: "+err.Error())
	}
	return apiactions.NewTextResult(inv, text)
}
